package tui

import (
	"fmt"
	"strings"

	"gramps-cli/internal/model"
	"gramps-cli/internal/mutate"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// EditActionMsg is emitted by the reference list (or any descendant control)
// and handled by the ObjectView that hosts it.
type EditActionMsg struct {
	Action string `json:"action"`
	Handle string `json:"handle"`
}

type refItem struct {
	kind   mutate.Collection
	handle string
	label  string
	detail string
}

func (i refItem) FilterValue() string { return i.label }
func (i refItem) Title() string {
	prefix := "event"
	if i.kind == mutate.Citations {
		prefix = "citation"
	}
	return prefix + "  " + i.label
}
func (i refItem) Description() string { return i.detail }

// refList shows the record's event references followed by its citations.
type refList struct {
	list list.Model
	keys keyMap
}

func newRefList(keys keyMap) refList {
	d := list.NewDefaultDelegate()
	d.ShowDescription = true
	d.SetSpacing(0)

	l := list.New([]list.Item{}, d, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	// The app shell owns quitting and "g". SetItems re-enables Quit unless
	// it is disabled through the list itself.
	l.DisableQuitKeybindings()
	l.KeyMap.GoToStart.SetKeys("home")
	l.KeyMap.GoToEnd.SetKeys("end", "G")
	// "d" is reserved for delete in edit mode.
	l.KeyMap.NextPage.SetKeys("right", "pgdown", "f")
	return refList{list: l, keys: keys}
}

func (r *refList) setSize(w, h int) {
	if h < 1 {
		h = 1
	}
	r.list.SetSize(w, h)
}

func (r *refList) count() int { return len(r.list.Items()) }

// setRecord rebuilds the items from rec, keeping the cursor on the previously
// selected handle when it is still present.
func (r *refList) setRecord(rec model.Record) {
	keep := ""
	if it, ok := r.selected(); ok {
		keep = it.handle
	}
	items := referenceItems(rec)
	li := make([]list.Item, 0, len(items))
	sel := 0
	for i, it := range items {
		if keep != "" && it.handle == keep {
			sel = i
		}
		li = append(li, it)
	}
	r.list.SetItems(li)
	if len(li) > 0 {
		r.list.Select(sel)
	}
}

func (r *refList) selected() (refItem, bool) {
	it, ok := r.list.SelectedItem().(refItem)
	return it, ok
}

// update handles navigation always and structural keys only in edit mode.
func (r *refList) update(msg tea.Msg, edit bool) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok && edit {
		var act mutate.EditAction
		if it, ok := r.selected(); ok {
			switch {
			case key.Matches(km, r.keys.Delete):
				act = mutate.Delete{Collection: it.kind, Handle: it.handle}
			case key.Matches(km, r.keys.MoveUp):
				act = mutate.MoveUpAction{Collection: it.kind, Handle: it.handle}
			case key.Matches(km, r.keys.MoveDown):
				act = mutate.MoveDownAction{Collection: it.kind, Handle: it.handle}
			}
		}
		if act != nil {
			_, handle := act.Target()
			ev := EditActionMsg{Action: act.Name(), Handle: handle}
			return func() tea.Msg { return ev }
		}
	}
	var cmd tea.Cmd
	r.list, cmd = r.list.Update(msg)
	return cmd
}

func (r *refList) view() string {
	if r.count() == 0 {
		return styleMuted().Render("(no references)")
	}
	return r.list.View()
}

func referenceItems(rec model.Record) []refItem {
	out := []refItem{}
	refs := rec.List(model.EventRefList)
	profEvents := profileList(rec, "events")
	extEvents := extendedList(rec, "events")
	for i, e := range refs {
		h := model.RefOf(e)
		if h == "" {
			continue
		}
		label, detail := h, ""
		if p, ok := at(profEvents, i); ok {
			label = joinFields(str(p, "type"), str(p, "date"))
			detail = joinFields(str(p, "place"), str(p, "role"))
		} else if x, ok := at(extEvents, i); ok {
			label = joinFields(str(x, "gramps_id"), str(x, "description"))
		}
		if label == "" {
			label = h
		}
		if m, _ := e.(map[string]any); detail == "" {
			detail = str(m, "role")
		}
		out = append(out, refItem{kind: mutate.EventRefs, handle: h, label: label, detail: detail})
	}

	extCitations := extendedList(rec, "citations")
	for i, c := range rec.List(model.CitationList) {
		h := model.HandleOf(c)
		if h == "" {
			continue
		}
		label, detail := h, ""
		if x, ok := at(extCitations, i); ok {
			label = joinFields(str(x, "gramps_id"), str(x, "page"))
		}
		if label == "" {
			label = h
		}
		out = append(out, refItem{kind: mutate.Citations, handle: h, label: label, detail: detail})
	}
	return out
}

func profileList(rec model.Record, key string) []any {
	p, _ := rec["profile"].(map[string]any)
	l, _ := p[key].([]any)
	return l
}

func extendedList(rec model.Record, key string) []any {
	x, _ := rec["extended"].(map[string]any)
	l, _ := x[key].([]any)
	return l
}

func at(l []any, i int) (map[string]any, bool) {
	if i < 0 || i >= len(l) {
		return nil, false
	}
	m, ok := l[i].(map[string]any)
	return m, ok
}

func str(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case nil:
		return ""
	case map[string]any:
		// Gramps typed values ({"string": "Birth"}).
		s, _ := v["string"].(string)
		return s
	default:
		return fmt.Sprint(v)
	}
}

func joinFields(parts ...string) string {
	out := []string{}
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " · ")
}
