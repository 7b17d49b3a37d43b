package cli

import (
	"context"
	"strings"

	"gramps-cli/internal/api"
	"gramps-cli/internal/model"
	"gramps-cli/internal/mutate"
	"gramps-cli/internal/store"

	"github.com/spf13/cobra"
)

func newEditCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [<type>] <gramps-id> <action> <handle>",
		Short: "Reorder or remove an event reference or citation",
		Long: strings.TrimSpace(`
Applies one edit action to the object and writes it back, then prints the
object as re-fetched from the server.

Actions: ` + strings.Join(mutate.ActionNames, ", ") + `

The handle is the referenced event's handle (event_ref_list[].ref) or the
citation handle (citation_list[]).
`),
		Args: cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := len(args)
			t, id, err := resolveTarget(args[:n-2])
			if err != nil {
				return writeErr(cmd, err)
			}
			act, err := mutate.ParseAction(args[n-2], args[n-1])
			if err != nil {
				return writeErr(cmd, err)
			}
			c, cfg, err := session(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !canEdit(app, cfg) {
				return writeErr(cmd, editDeniedError{role: cfg.Role})
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			j, err := openJournal(ctx, cfg)
			if err != nil {
				return writeErr(cmd, err)
			}
			if j != nil {
				defer j.Close()
			}

			rec, err := applyEdit(ctx, c, j, t, id, act)
			if err != nil {
				return writeErr(cmd, err)
			}
			_, target := act.Target()
			meta := recordMeta(t, rec, true)
			meta["action"] = act.Name()
			meta["target"] = target
			return writeOut(cmd, app, envelope(rec, meta, nil))
		},
	}
	return cmd
}

// applyEdit is the headless submission path: fetch, transform, write, then
// re-fetch so the caller sees the server's copy.
func applyEdit(ctx context.Context, c *api.Client, j *store.Journal, t model.ObjectType, id string, act mutate.EditAction) (model.Record, error) {
	rec, err := fetchRecord(ctx, c, t, id)
	if err != nil {
		return nil, err
	}
	payload, err := mutate.Apply(act, rec, t)
	if err != nil {
		return nil, err
	}
	_, target := act.Target()
	entry := store.JournalEntry{
		ObjectType: string(t),
		Handle:     rec.Handle(),
		GrampsID:   rec.GrampsID(),
		Action:     act.Name(),
		Target:     target,
		Payload:    payload,
		Status:     store.JournalStatusOK,
	}
	werr := c.Put(ctx, model.WritePath(t, rec.Handle()), payload)
	if werr != nil {
		entry.Status = store.JournalStatusError
		entry.Error = werr.Error()
	}
	if j != nil {
		if _, err := j.Append(ctx, entry); err != nil {
			c.Logger.Warn("journal append failed", "err", err)
		}
	}
	if werr != nil {
		return nil, werr
	}
	return fetchRecord(ctx, c, t, id)
}
