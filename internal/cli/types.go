package cli

import (
	"gramps-cli/internal/model"

	"github.com/spf13/cobra"
)

func newTypesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List object types with their endpoint, class and ID prefix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := make([]map[string]any, 0, len(model.ObjectTypes))
			for _, t := range model.ObjectTypes {
				out = append(out, map[string]any{
					"type":      string(t),
					"class":     t.ClassName(),
					"endpoint":  t.Endpoint(),
					"editTitle": t.EditTitle(),
					"idPrefix":  t.IDPrefix(),
				})
			}
			return writeOut(cmd, app, envelope(out, nil, nil))
		},
	}
}
