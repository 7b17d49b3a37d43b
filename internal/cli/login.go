package cli

import (
	"context"
	"errors"
	"strings"

	"gramps-cli/internal/perm"
	"gramps-cli/internal/store"

	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var user, password, role string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Obtain an API token and store it in the config",
		RunE: func(cmd *cobra.Command, args []string) error {
			user = strings.TrimSpace(user)
			if user == "" {
				return writeErr(cmd, errors.New("missing --user"))
			}
			if password == "" {
				password = envOr("GRAMPS_PASSWORD", "")
			}
			if password == "" {
				return writeErr(cmd, errors.New("missing password (pass --password or set GRAMPS_PASSWORD)"))
			}
			if role != "" {
				if _, ok := perm.ParseRole(role); !ok {
					return writeErr(cmd, errUnknownRole(role))
				}
			}

			c, cfg, err := session(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			tok, err := c.Login(ctx, user, password)
			if err != nil {
				return writeErr(cmd, err)
			}

			cfg.Server = c.BaseURL
			cfg.User = user
			cfg.Token = tok.AccessToken
			cfg.RefreshToken = tok.RefreshToken
			if role != "" {
				cfg.Role = strings.ToLower(role)
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope(map[string]any{
				"server": cfg.Server,
				"user":   cfg.User,
				"role":   cfg.Role,
			}, nil, nil))
		},
	}
	cmd.Flags().StringVar(&user, "user", envOr("GRAMPS_USER", ""), "Gramps Web user name")
	cmd.Flags().StringVar(&password, "password", "", "Password (default: $GRAMPS_PASSWORD)")
	cmd.Flags().StringVar(&role, "role", "", "Record this user's role (guest|member|contributor|editor|owner|admin)")
	return cmd
}
