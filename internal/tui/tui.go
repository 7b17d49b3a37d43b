package tui

import (
	"log/slog"

	"gramps-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// Options configures the interactive object viewer.
type Options struct {
	Remote     Remote
	Journal    Journal
	ObjectType model.ObjectType
	GrampsID   string
	CanEdit    bool
	// Profile is the color profile preference ("", "mono").
	Profile string
	Logger  *slog.Logger

	// Recent seeds the go-to prompt's suggestions, newest first.
	Recent []string
	// Remember is called with every object that loads. Optional.
	Remember func(t model.ObjectType, grampsID string)
}

func Run(opts Options) error {
	applyColorProfilePreference(opts.Profile)
	applyThemePreference()

	logger, closeLog := opts.Logger, func() {}
	if logger == nil {
		logger, closeLog = OpenDebugLog()
	}
	defer closeLog()

	m := newAppModel(opts, logger)
	defer m.close()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
