package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const markdownExt = ".md"

// DefaultCategory is the fallback category for documents that arrive without an
// explicit one (root-level files during directory import, status rows created by
// the reconciler for unknown documents).
const DefaultCategory = "General"

// Store owns the on-disk category/document layout of a library. All filesystem
// mutation passes through it; the TUI and CLI never touch the library directly.
//
// Categories are single-level subdirectories of LibraryDir; documents are ".md"
// files directly inside a category. Nothing is nested further.
type Store struct {
	LibraryDir string

	// ShowHidden includes dot-named category directories in listings. Toggling it
	// is pure configuration; callers trigger their own refresh.
	ShowHidden bool
}

// Ensure creates the library root and seeds the given default categories. The
// default list comes from configuration so the bootstrap step is explicit rather
// than hidden store state. Seeding is idempotent; existing directories are left
// alone and empty categories are never removed.
func (s Store) Ensure(defaults []string) error {
	dir := strings.TrimSpace(s.LibraryDir)
	if dir == "" {
		return fmt.Errorf("library dir not set")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, name := range defaults {
		safe := sanitizeCategoryName(name)
		if safe == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Join(dir, safe), 0o755); err != nil {
			return err
		}
	}
	return nil
}

// Contains reports whether path points inside the library root. Mutations refuse
// paths outside it so a stray absolute path can never delete or move foreign
// files.
func (s Store) Contains(path string) bool {
	rel, err := filepath.Rel(filepath.Clean(s.LibraryDir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}

func isMarkdown(path string) bool {
	return strings.EqualFold(filepath.Ext(path), markdownExt)
}
