package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gramps-cli/internal/api"
	"gramps-cli/internal/format"
	"gramps-cli/internal/perm"
	"gramps-cli/internal/store"
	"gramps-cli/internal/tui"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type App struct {
	Server     string
	Token      string
	PrettyJSON bool
	Format     string
	// CanEdit overrides the configured role when set via --can-edit.
	CanEdit bool

	logger   *slog.Logger
	closeLog func()
	registry *prometheus.Registry
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "gramps",
		Short:        "Gramps Web object viewer and reference editor",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Point at a server and log in
  gramps config set-server https://gramps.example.org
  gramps login --user alice

  # Interactive viewer
  gramps tui person I0044

  # Scriptable commands
  gramps show family F0001
  gramps edit person I0044 upEvent <event-handle>

  # Direct lookup (shortcut for: gramps show person I0044)
  gramps I0044
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive viewer with an empty go-to prompt.
			if len(args) == 0 {
				return runTUI(cmd, app, "", "", "")
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		app.logger, app.closeLog = tui.OpenDebugLog()
		app.registry = prometheus.NewRegistry()
		return nil
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.closeLog != nil {
			app.closeLog()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Server, "server", envOr("GRAMPS_SERVER", ""), "Gramps Web base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&app.Token, "token", envOr("GRAMPS_TOKEN", ""), "API access token (overrides config)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("GRAMPS_FORMAT", "json"), "Output format (json|edn)")
	cmd.PersistentFlags().BoolVar(&app.CanEdit, "can-edit", false, "Allow edits regardless of the configured role")

	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newTUICmd(app))
	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newJournalCmd(app))
	cmd.AddCommand(newTypesCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// session resolves server and token (flags > env > config file) and builds a client.
func session(app *App) (*api.Client, *store.Config, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	server := firstNonEmpty(app.Server, cfg.Server)
	if server == "" {
		return nil, cfg, api.ErrNoServer
	}
	c := api.NewClient(server, firstNonEmpty(app.Token, cfg.Token))
	c.Logger = app.log()
	c.Metrics = api.NewMetrics(app.registry)
	return c, cfg, nil
}

func (app *App) log() *slog.Logger {
	if app.logger == nil {
		app.logger, app.closeLog = tui.OpenDebugLog()
	}
	return app.logger
}

func canEdit(app *App, cfg *store.Config) bool {
	if app.CanEdit {
		return true
	}
	return perm.CanEdit(cfg.Role)
}

// openJournal returns nil (and no error) when the journal is disabled.
func openJournal(ctx context.Context, cfg *store.Config) (*store.Journal, error) {
	if !cfg.JournalEnabled() {
		return nil, nil
	}
	path, err := store.JournalPath()
	if err != nil {
		return nil, err
	}
	return store.OpenJournal(ctx, path)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

func envelope(data any, meta map[string]any, hints []string) format.Envelope {
	return format.Envelope{Data: data, Meta: meta, Hints: hints}
}
