package tui

import (
	"fmt"
	"os"
	"strings"

	"folio-cli/internal/model"
)

// loadDocument reads a library file and renders it for the reader pane.
// Failures come back as pane content, not errors: a broken file should show
// a message where the document would be, never kill the TUI.
func loadDocument(doc model.Document, width int) string {
	raw, err := os.ReadFile(doc.Path)
	if err != nil {
		return styleMuted().Render(fmt.Sprintf("Could not read %s: %v", doc.Name, err))
	}
	out := renderMarkdown(string(raw), width)
	if strings.TrimSpace(out) == "" {
		return styleMuted().Render(fmt.Sprintf("%s is empty.", doc.Name))
	}
	return out
}

const welcomeMD = `# Folio

Your personal markdown library.

- ` + "`j`/`k`" + ` move through the tree, ` + "`enter`" + ` opens a document
- ` + "`space`" + ` folds and unfolds a category
- ` + "`a`" + ` adds a file or folder, ` + "`n`" + ` creates a category
- ` + "`r`" + ` toggles read/unread, ` + "`m`" + ` moves, ` + "`D`" + ` deletes
- ` + "`?`" + ` shows all keys, ` + "`q`" + ` quits

Select a document on the left to start reading.`

func welcomeView(width int) string {
	return renderMarkdown(welcomeMD, width)
}
