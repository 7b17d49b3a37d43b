package tui

import (
	"log/slog"
	"strings"

	"gramps-cli/internal/editmode"
	"gramps-cli/internal/model"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	mainViewID   = "main"
	maxCrumbs    = 5
	chromeHeight = 5
)

type appModel struct {
	log   *slog.Logger
	coord *editmode.Coordinator
	view  *ObjectView
	keys  keyMap

	unsubOn func()

	goTo      textinput.Model
	prompting bool
	promptErr string

	crumbs   []string
	recent   []string
	remember func(model.ObjectType, string)

	width  int
	height int
}

func newAppModel(opts Options, logger *slog.Logger) appModel {
	if logger == nil {
		logger = discardLogger()
	}
	coord := editmode.NewCoordinator()

	v := NewObjectView(mainViewID, opts.ObjectType, opts.Remote)
	v.SetCanEdit(opts.CanEdit)
	v.SetLogger(logger)
	if opts.Journal != nil {
		v.SetJournal(opts.Journal)
	}
	v.Attach(coord)
	_ = v.SetGrampsID(strings.TrimSpace(opts.GrampsID))

	in := textinput.New()
	in.Placeholder = "Gramps ID (I0044, F0001, E0012…)"
	in.CharLimit = 32
	in.Width = 32
	in.Prompt = "go to: "
	in.Cursor.SetMode(cursor.CursorStatic)
	in.ShowSuggestions = true
	in.SetSuggestions(opts.Recent)

	m := appModel{
		log:      logger,
		coord:    coord,
		view:     v,
		keys:     defaultKeyMap(),
		goTo:     in,
		recent:   append([]string(nil), opts.Recent...),
		remember: opts.Remember,
	}
	m.unsubOn = coord.OnOn(func(editorID, title string) {
		logger.Debug("edit mode on", "editor", editorID, "title", title)
	})
	return m
}

func (m appModel) close() {
	m.view.Detach()
	if m.unsubOn != nil {
		m.unsubOn()
	}
}

func (m appModel) Init() tea.Cmd {
	return m.view.SetActive(true)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.view.SetSize(msg.Width, max(msg.Height-chromeHeight, 3))
		return m, nil

	case ObjectLoadedMsg:
		m.pushCrumb(msg.ClassName + " " + msg.GrampsID)
		m.pushRecent(msg.GrampsID)
		if m.remember != nil {
			m.remember(m.view.ObjectType(), msg.GrampsID)
		}
		m.log.Debug("object loaded", "class", msg.ClassName, "gramps_id", msg.GrampsID, "title", msg.Title)
		return m, nil

	case EditModeOnMsg:
		m.log.Debug("edit mode entered", "title", msg.Title)
		return m, nil

	case EditActionMsg:
		m.log.Debug("edit action", "action", msg.Action, "handle", msg.Handle)
		return m, m.view.Update(msg)

	case tea.KeyMsg:
		if m.prompting {
			return m.updatePrompt(msg)
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if !m.view.Editing() {
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, m.keys.GoTo):
				m.prompting = true
				m.promptErr = ""
				m.goTo.SetValue("")
				return m, m.goTo.Focus()
			}
		}
		return m, m.view.Update(msg)
	}
	return m, m.view.Update(msg)
}

func (m appModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.prompting = false
		m.goTo.Blur()
		return m, nil
	case tea.KeyEnter:
		id := strings.ToUpper(strings.TrimSpace(m.goTo.Value()))
		if id == "" {
			m.prompting = false
			m.goTo.Blur()
			return m, nil
		}
		t, ok := model.ObjectTypeForGrampsID(id)
		if !ok {
			m.promptErr = "unrecognized Gramps ID prefix: " + id
			return m, nil
		}
		m.prompting = false
		m.promptErr = ""
		m.goTo.Blur()
		return m, m.view.Show(t, id)
	}
	var cmd tea.Cmd
	m.goTo, cmd = m.goTo.Update(msg)
	return m, cmd
}

func (m *appModel) pushCrumb(c string) {
	if n := len(m.crumbs); n > 0 && m.crumbs[n-1] == c {
		return
	}
	m.crumbs = append(m.crumbs, c)
	if len(m.crumbs) > maxCrumbs {
		m.crumbs = m.crumbs[len(m.crumbs)-maxCrumbs:]
	}
}

func (m *appModel) pushRecent(id string) {
	out := []string{id}
	for _, r := range m.recent {
		if r != id {
			out = append(out, r)
		}
	}
	m.recent = out
	m.goTo.SetSuggestions(m.recent)
}

func (m appModel) breadcrumbText() string {
	if len(m.crumbs) == 0 {
		return "Gramps"
	}
	return "Gramps > " + strings.Join(m.crumbs, " > ")
}

// bannerText reflects the coordinator, so it clears whenever edit mode is released.
func (m appModel) bannerText() string {
	if _, title, ok := m.coord.Active(); ok {
		return "Editing: " + title
	}
	return ""
}

func (m appModel) View() string {
	w := m.width
	if w <= 0 {
		w = 80
	}
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1).Render(truncate(m.breadcrumbText(), w-2))

	parts := []string{header}
	if b := m.bannerText(); b != "" {
		parts = append(parts, styleBanner().Render(truncate(b, w-2)))
	}
	parts = append(parts, m.view.View())
	if m.prompting {
		p := m.goTo.View()
		if m.promptErr != "" {
			p += "\n" + styleError().Render(m.promptErr)
		}
		parts = append(parts, lipgloss.NewStyle().Padding(0, 1).Render(p))
	}
	return strings.Join(parts, "\n")
}
