package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"gramps-cli/internal/model"
	"gramps-cli/internal/store"
	"gramps-cli/internal/tui"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "tui [[<type>] <gramps-id>]",
		Short: "Open the interactive object viewer",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var t model.ObjectType
			var id string
			if len(args) > 0 {
				var err error
				t, id, err = resolveTarget(args)
				if err != nil {
					return writeErr(cmd, err)
				}
			}
			return runTUI(cmd, app, t, id, metricsAddr)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", envOr("GRAMPS_METRICS_ADDR", ""), "Serve Prometheus metrics on this address while the viewer runs (e.g. 127.0.0.1:9464)")
	return cmd
}

func runTUI(cmd *cobra.Command, app *App, t model.ObjectType, id, metricsAddr string) error {
	c, cfg, err := session(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	st, err := store.LoadTUIState()
	if err != nil {
		app.log().Warn("tui state unavailable", "err", err)
		st = &store.TUIState{}
	}
	if st.Server != c.BaseURL {
		// Recent IDs belong to another tree.
		st = &store.TUIState{Server: c.BaseURL}
	}
	if id == "" && st.GrampsID != "" {
		if pt, ok := model.ParseObjectType(st.ObjectType); ok {
			t, id = pt, st.GrampsID
		}
	}
	if t == "" {
		t = model.TypePerson
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	opts := tui.Options{
		Remote:     c,
		ObjectType: t,
		GrampsID:   id,
		CanEdit:    canEdit(app, cfg),
		Logger:     app.log(),
		Recent:     st.RecentIDs,
		Remember: func(t model.ObjectType, id string) {
			st.Visit(string(t), id)
			if err := store.SaveTUIState(st); err != nil {
				app.log().Warn("save tui state", "err", err)
			}
		},
	}
	if cfg.TUI != nil {
		opts.Profile = cfg.TUI.Profile
	}
	j, err := openJournal(ctx, cfg)
	if err != nil {
		app.log().Warn("edit journal unavailable", "err", err)
	} else if j != nil {
		defer j.Close()
		opts.Journal = j
	}

	if metricsAddr != "" {
		stop, err := serveMetrics(app, metricsAddr)
		if err != nil {
			return writeErr(cmd, err)
		}
		defer stop()
	}
	return tui.Run(opts)
}

// serveMetrics exposes the session's registry until the returned stop func is called.
func serveMetrics(app *App, addr string) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.log().Warn("metrics server stopped", "err", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
