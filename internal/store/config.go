package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	configFileName   = "config.json"
	statusDBFileName = "status.sqlite"
	libraryDirName   = "documents"
)

// GlobalConfig holds the user's folio configuration, stored as JSON in the
// config dir. Loads are best-effort: a missing or corrupt file yields defaults.
type GlobalConfig struct {
	// LibraryDir overrides the default library location (<config dir>/documents).
	LibraryDir string `json:"libraryDir,omitempty"`

	// DefaultCategories are seeded into a fresh library. The bootstrap step takes
	// this list explicitly so the defaults are configuration, not hidden state.
	DefaultCategories []string `json:"defaultCategories,omitempty"`

	// ShowHidden includes dot-named category directories in listings.
	ShowHidden bool `json:"showHidden,omitempty"`

	// TUI holds optional user preferences for the interactive TUI.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Glyphs selects the glyph set ("unicode", "ascii").
	Glyphs string `json:"glyphs,omitempty"`
	// Theme forces light/dark markdown styling ("light", "dark", "auto").
	Theme string `json:"theme,omitempty"`
}

// ConfigDir resolves the folio home directory.
func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.folio).
	if v := strings.TrimSpace(os.Getenv("FOLIO_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".folio"), nil
}

func configPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// StatusDBPath is the sqlite file backing the status store.
func StatusDBPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, statusDBFileName), nil
}

func LoadConfig() (*GlobalConfig, error) {
	p, err := configPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		// Best-effort; if corrupted, treat as missing.
		return &GlobalConfig{}, nil
	}
	return &cfg, nil
}

func SaveConfig(cfg *GlobalConfig) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	p, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// ResolvedLibraryDir picks the library root: FOLIO_LIBRARY env, then the
// configured dir, then <config dir>/documents.
func (c *GlobalConfig) ResolvedLibraryDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("FOLIO_LIBRARY")); v != "" {
		return filepath.Clean(v), nil
	}
	if c != nil && strings.TrimSpace(c.LibraryDir) != "" {
		return filepath.Clean(c.LibraryDir), nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, libraryDirName), nil
}

// ResolvedDefaultCategories returns the configured default category list, or
// the stock General/Personal/Work set.
func (c *GlobalConfig) ResolvedDefaultCategories() []string {
	if c != nil && len(c.DefaultCategories) > 0 {
		return c.DefaultCategories
	}
	return []string{"General", "Personal", "Work"}
}
