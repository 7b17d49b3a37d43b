package cli

import (
	"context"

	"gramps-cli/internal/store"

	"github.com/spf13/cobra"
)

func newJournalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect the local log of submitted edits",
	}
	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent edits, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := store.JournalPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			j, err := store.OpenJournal(ctx, path)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer j.Close()
			entries, err := j.List(ctx, limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			if entries == nil {
				entries = []store.JournalEntry{}
			}
			return writeOut(cmd, app, envelope(entries, map[string]any{"count": len(entries), "path": path}, nil))
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "Maximum entries to show")
	cmd.AddCommand(list)
	return cmd
}
