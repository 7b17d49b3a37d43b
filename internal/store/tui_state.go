package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	tuiStateFileName = "tui_state.json"
	maxRecentIDs     = 10
)

// TUIState remembers the last object shown so `gramps tui` can reopen it.
// Best effort: callers tolerate missing or invalid data.
type TUIState struct {
	Version int `json:"version"`

	Server     string `json:"server,omitempty"`
	ObjectType string `json:"objectType,omitempty"`
	GrampsID   string `json:"grampsId,omitempty"`

	// RecentIDs are recently visited Gramps IDs, newest first. They feed the
	// go-to prompt's suggestions.
	RecentIDs []string `json:"recentIds,omitempty"`
}

// Visit records id as the current object and moves it to the front of RecentIDs.
func (st *TUIState) Visit(objectType, id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}
	st.ObjectType = objectType
	st.GrampsID = id
	recent := []string{id}
	for _, r := range st.RecentIDs {
		if r != id && len(recent) < maxRecentIDs {
			recent = append(recent, r)
		}
	}
	st.RecentIDs = recent
}

func tuiStatePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, tuiStateFileName), nil
}

func LoadTUIState() (*TUIState, error) {
	path, err := tuiStatePath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &TUIState{Version: 1}, nil
		}
		return nil, err
	}
	var st TUIState
	if err := json.Unmarshal(b, &st); err != nil {
		// Corrupt state is treated as missing.
		return &TUIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func SaveTUIState(st *TUIState) error {
	if st == nil {
		return nil
	}
	path, err := tuiStatePath()
	if err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return atomicWriteFile(dir, "tui_state-*.json", path, b, 0o644)
}
