package tui

import (
	"fmt"
	"strings"

	"gramps-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// View renders the loaded record, its references and the edit affordance.
func (v *ObjectView) View() string {
	w := v.width
	if w <= 0 {
		w = 80
	}
	innerW := w - 2
	if innerW < 10 {
		innerW = 10
	}
	box := lipgloss.NewStyle().Padding(0, 1)

	if v.data.Empty() {
		switch {
		case v.loading:
			return box.Render(styleMuted().Render("Loading…"))
		case v.fetchErr:
			return box.Render(styleError().Render("Error: " + v.fetchMsg))
		default:
			return box.Render("")
		}
	}

	label := styleLabel()
	lines := []string{
		styleTitle().Render(truncate(headerText(v.objType, v.data), innerW)),
		"",
	}
	for _, f := range detailFields(v.objType, v.data) {
		lines = append(lines, label.Render(f[0]+": ")+truncate(f[1], innerW-len(f[0])-2))
	}

	if v.objType == model.TypeNote {
		if text := noteText(v.data); text != "" {
			lines = append(lines, "", label.Render("Text"), renderMarkdown(text, innerW))
		}
	}

	lines = append(lines, "", label.Render("References"), v.refs.view())

	if v.fetchErr {
		lines = append(lines, "", styleError().Render("Reload failed: "+v.fetchMsg))
	}
	if v.writeErr != "" {
		lines = append(lines, "", styleError().Render("Write failed: "+v.writeErr))
	}
	if v.diagnostic != "" {
		lines = append(lines, "", styleMuted().Render("Unhandled action: "+v.diagnostic))
	}

	lines = append(lines, "", styleMuted().Render(v.hints()))
	return box.Render(strings.Join(lines, "\n"))
}

func (v *ObjectView) hints() string {
	switch {
	case v.edit:
		return helpLine(v.keys.Delete, v.keys.MoveUp, v.keys.MoveDown, v.keys.Done)
	case v.canShowEditAffordance():
		return helpLine(v.keys.Edit, v.keys.Reload, v.keys.GoTo, v.keys.Quit)
	default:
		return helpLine(v.keys.Reload, v.keys.GoTo, v.keys.Quit)
	}
}

func headerText(t model.ObjectType, rec model.Record) string {
	title := rec.Title(t)
	id := rec.GrampsID()
	if title == "" || title == id {
		return t.ClassName() + " " + id
	}
	return fmt.Sprintf("%s %s  %s", t.ClassName(), id, title)
}

// detailFields picks a few type-specific fields to show above the references.
func detailFields(t model.ObjectType, rec model.Record) [][2]string {
	out := [][2]string{
		{"ID", rec.GrampsID()},
		{"Handle", rec.Handle()},
	}
	prof, _ := rec["profile"].(map[string]any)
	add := func(name, val string) {
		if strings.TrimSpace(val) != "" {
			out = append(out, [2]string{name, val})
		}
	}
	switch t {
	case model.TypePerson:
		add("Sex", str(prof, "sex"))
		if b, ok := prof["birth"].(map[string]any); ok {
			add("Birth", joinFields(str(b, "date"), str(b, "place")))
		}
		if d, ok := prof["death"].(map[string]any); ok {
			add("Death", joinFields(str(d, "date"), str(d, "place")))
		}
	case model.TypeFamily:
		add("Relationship", str(prof, "relationship"))
	case model.TypeEvent:
		add("Type", str(prof, "type"))
		add("Date", str(prof, "date"))
		add("Place", str(prof, "place"))
		add("Description", str(rec, "description"))
	case model.TypePlace:
		add("Name", str(prof, "name"))
		add("Type", str(prof, "type"))
	case model.TypeCitation:
		add("Page", str(rec, "page"))
	case model.TypeSource:
		add("Title", str(rec, "title"))
		add("Author", str(rec, "author"))
	case model.TypeRepository:
		add("Name", str(rec, "name"))
	case model.TypeMedia:
		add("Path", str(rec, "path"))
		add("Description", str(rec, "desc"))
	}
	if n := countBacklinks(rec); n > 0 {
		add("Referenced by", fmt.Sprintf("%d objects", n))
	}
	return out
}

func noteText(rec model.Record) string {
	switch t := rec["text"].(type) {
	case string:
		return t
	case map[string]any:
		s, _ := t["string"].(string)
		return s
	}
	return ""
}

func countBacklinks(rec model.Record) int {
	bl, _ := rec["backlinks"].(map[string]any)
	n := 0
	for _, v := range bl {
		if l, ok := v.([]any); ok {
			n += len(l)
		}
	}
	return n
}

func truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	return xansi.Truncate(s, w, "…")
}
