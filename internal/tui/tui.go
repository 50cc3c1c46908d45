package tui

import (
	"folio-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func Run(lib store.Store, status store.StatusStore, prefs *store.TUIConfig) error {
	var glyphPref, themePref string
	if prefs != nil {
		glyphPref = prefs.Glyphs
		themePref = prefs.Theme
	}
	applyGlyphPreference(glyphPref)
	applyColorProfilePreference()
	applyThemePreference(themePref)

	m := newAppModel(lib, status)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
