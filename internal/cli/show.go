package cli

import (
	"context"
	"fmt"
	"strings"

	"gramps-cli/internal/api"
	"gramps-cli/internal/model"

	"github.com/spf13/cobra"
)

func newShowCmd(app *App) *cobra.Command {
	var persistable bool
	cmd := &cobra.Command{
		Use:   "show [<type>] <gramps-id>",
		Short: "Show one object with its references and backlinks",
		Long: strings.TrimSpace(`
Fetches one object by Gramps ID. The type may be omitted when the ID uses the
default prefix (I person, F family, E event, P place, C citation, S source,
R repository, O media, N note).
`),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, id, err := resolveTarget(args)
			if err != nil {
				return writeErr(cmd, err)
			}
			c, cfg, err := session(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			rec, err := fetchRecord(cmd.Context(), c, t, id)
			if err != nil {
				return writeErr(cmd, err)
			}
			data := rec
			if persistable {
				data = model.Persistable(rec, t)
			}
			return writeOut(cmd, app, envelope(data, recordMeta(t, rec, canEdit(app, cfg)), editHints(t, rec, canEdit(app, cfg))))
		},
	}
	cmd.Flags().BoolVar(&persistable, "persistable", false, "Print the shape that would be written back (derived fields dropped, _class set)")
	return cmd
}

// resolveTarget accepts either "<type> <gramps-id>" or a bare Gramps ID whose
// prefix names the type.
func resolveTarget(args []string) (model.ObjectType, string, error) {
	switch len(args) {
	case 1:
		id := strings.TrimSpace(args[0])
		t, ok := model.ObjectTypeForGrampsID(id)
		if !ok {
			return "", "", fmt.Errorf("cannot infer object type from %q; pass it explicitly (see `gramps types`)", id)
		}
		return t, id, nil
	case 2:
		t, ok := model.ParseObjectType(args[0])
		if !ok {
			return "", "", fmt.Errorf("unknown object type: %s (see `gramps types`)", args[0])
		}
		id := strings.TrimSpace(args[1])
		if id == "" {
			return "", "", fmt.Errorf("missing gramps id")
		}
		return t, id, nil
	default:
		return "", "", fmt.Errorf("expected [<type>] <gramps-id>")
	}
}

func fetchRecord(ctx context.Context, c *api.Client, t model.ObjectType, id string) (model.Record, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	path := model.FetchPath(t, id)
	resp := c.Get(ctx, path)
	if !resp.OK() {
		return nil, fetchError{path: path, msg: resp.Error}
	}
	if len(resp.Data) == 0 || resp.Data[0].Empty() {
		return nil, errNotFound(string(t), id)
	}
	return resp.Data[0], nil
}

func recordMeta(t model.ObjectType, rec model.Record, editable bool) map[string]any {
	return map[string]any{
		"type":      string(t),
		"class":     t.ClassName(),
		"title":     rec.Title(t),
		"handle":    rec.Handle(),
		"canEdit":   editable,
		"events":    len(rec.List(model.EventRefList)),
		"citations": len(rec.List(model.CitationList)),
	}
}

func editHints(t model.ObjectType, rec model.Record, editable bool) []string {
	if !editable {
		return nil
	}
	var hints []string
	if refs := rec.List(model.EventRefList); len(refs) > 1 {
		hints = append(hints, fmt.Sprintf("gramps edit %s %s upEvent %s", t, rec.GrampsID(), model.RefOf(refs[len(refs)-1])))
	}
	if cits := rec.List(model.CitationList); len(cits) > 0 {
		hints = append(hints, fmt.Sprintf("gramps edit %s %s delCitation %s", t, rec.GrampsID(), model.HandleOf(cits[0])))
	}
	return hints
}
