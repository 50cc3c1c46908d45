package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const tuiStateFileName = "tui_state.json"

// TUIState stores small, user-facing navigation state so a relaunch lands where
// the user left off. It lives in the config dir and is intentionally "best
// effort": callers tolerate missing or invalid data.
type TUIState struct {
	Version int `json:"version"`

	// Expanded holds the library paths of tree nodes left expanded.
	Expanded []string `json:"expanded,omitempty"`

	// Known holds every tree node path seen last session; nodes outside this set
	// get the first-build auto-expand default on restore.
	Known []string `json:"known,omitempty"`

	// SelectedPath is the cursor's node path.
	SelectedPath string `json:"selectedPath,omitempty"`

	ShowHidden bool `json:"showHidden,omitempty"`
}

func tuiStatePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, tuiStateFileName), nil
}

func LoadTUIState() (*TUIState, error) {
	p, err := tuiStatePath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &TUIState{Version: 1}, nil
		}
		return nil, err
	}
	var st TUIState
	if err := json.Unmarshal(b, &st); err != nil {
		// Best-effort; if corrupted, treat as missing.
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
	p, err := tuiStatePath()
	if err != nil {
		return err
	}
	if strings.TrimSpace(p) == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}
