package cli

import (
	"errors"
	"net/url"
	"strings"

	"gramps-cli/internal/perm"
	"gramps-cli/internal/store"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change ~/.gramps-cli/config.json",
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigSetServerCmd(app))
	cmd.AddCommand(newConfigSetRoleCmd(app))
	cmd.AddCommand(newConfigSetProfileCmd(app))
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (tokens redacted)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			path, _ := store.ConfigPath()
			profile := ""
			if cfg.TUI != nil {
				profile = cfg.TUI.Profile
			}
			return writeOut(cmd, app, envelope(map[string]any{
				"server":   firstNonEmpty(app.Server, cfg.Server),
				"user":     cfg.User,
				"role":     cfg.Role,
				"canEdit":  canEdit(app, cfg),
				"hasToken": firstNonEmpty(app.Token, cfg.Token) != "",
				"journal":  cfg.JournalEnabled(),
				"profile":  profile,
			}, map[string]any{"path": path}, nil))
		},
	}
}

func newConfigSetServerCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-server <url>",
		Short: "Set the Gramps Web base URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.TrimRight(strings.TrimSpace(args[0]), "/")
			u, err := url.Parse(raw)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return writeErr(cmd, errors.New("server must be an http(s) URL, e.g. https://gramps.example.org"))
			}
			return updateConfig(cmd, app, func(cfg *store.Config) {
				if cfg.Server != raw {
					// Tokens are per server.
					cfg.Token = ""
					cfg.RefreshToken = ""
				}
				cfg.Server = raw
			})
		},
	}
}

func newConfigSetRoleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <role>",
		Short: "Record the Gramps Web role used to decide edit rights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, ok := perm.ParseRole(args[0])
			if !ok {
				return writeErr(cmd, errUnknownRole(args[0]))
			}
			return updateConfig(cmd, app, func(cfg *store.Config) { cfg.Role = r.String() })
		},
	}
}

func newConfigSetProfileCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-profile <default|mono>",
		Short: "Set the viewer's color profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := strings.ToLower(strings.TrimSpace(args[0]))
			if p != "default" && p != "mono" {
				return writeErr(cmd, errors.New("profile must be default or mono"))
			}
			return updateConfig(cmd, app, func(cfg *store.Config) {
				if cfg.TUI == nil {
					cfg.TUI = &store.TUIConfig{}
				}
				cfg.TUI.Profile = p
			})
		},
	}
}

func updateConfig(cmd *cobra.Command, app *App, fn func(*store.Config)) error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return writeErr(cmd, err)
	}
	fn(cfg)
	if err := store.SaveConfig(cfg); err != nil {
		return writeErr(cmd, err)
	}
	return writeOut(cmd, app, envelope(map[string]any{
		"server": cfg.Server,
		"role":   cfg.Role,
	}, nil, nil))
}
