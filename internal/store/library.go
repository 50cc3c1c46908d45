package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"folio-cli/internal/model"
)

// Outcome is the result of a single library mutation. Failures carry the reason
// in Message instead of an error: the callers (CLI output, TUI dialogs) surface
// them as plain text, and filesystem errors are caught at this boundary rather
// than propagated.
type Outcome struct {
	OK      bool
	Message string
	// Path is the resulting library path when the operation produced (or found)
	// one. Set for "already exists" duplicates too, so callers can still point at
	// the existing document.
	Path string
}

func failure(format string, args ...any) Outcome {
	return Outcome{Message: fmt.Sprintf(format, args...)}
}

// AddDocument copies a markdown file into the library under the given category,
// creating the category directory on demand.
//
// Duplicate handling: if the destination name is taken by a file with identical
// content, the add is reported as a non-error "already exists" with the existing
// path. A name collision with different content is resolved by appending an
// incrementing "_1", "_2", ... suffix to the stem; nothing is ever overwritten.
func (s Store) AddDocument(sourcePath, category, title string) Outcome {
	if _, err := os.Stat(sourcePath); err != nil {
		return failure("file %s does not exist", sourcePath)
	}
	if !isMarkdown(sourcePath) {
		return failure("only markdown files (%s) are supported", markdownExt)
	}

	category = strings.TrimSpace(category)
	if category == "" {
		category = DefaultCategory
	}
	categoryDir := filepath.Join(s.LibraryDir, category)
	if err := os.MkdirAll(categoryDir, 0o755); err != nil {
		return failure("failed to create category %q: %v", category, err)
	}

	destName := strings.TrimSpace(title)
	if destName == "" {
		destName = filepath.Base(sourcePath)
	}
	if !strings.HasSuffix(strings.ToLower(destName), markdownExt) {
		destName += markdownExt
	}
	destPath := filepath.Join(categoryDir, destName)

	if _, err := os.Stat(destPath); err == nil {
		if filesIdentical(sourcePath, destPath) {
			return Outcome{Message: "document already exists in library", Path: destPath}
		}
		stem := strings.TrimSuffix(destName, markdownExt)
		for counter := 1; ; counter++ {
			destPath = filepath.Join(categoryDir, fmt.Sprintf("%s_%d%s", stem, counter, markdownExt))
			if _, err := os.Stat(destPath); err != nil {
				break
			}
		}
	}

	if err := CopyFile(sourcePath, destPath); err != nil {
		return failure("failed to add document: %v", err)
	}
	return Outcome{
		OK:      true,
		Message: fmt.Sprintf("added %s to %s", filepath.Base(destPath), category),
		Path:    destPath,
	}
}

// sanitizeCategoryName keeps letters, digits, ASCII spaces, hyphens and
// underscores, drops everything else, and trims surrounding whitespace. The
// result is deterministic: "My/Cat*" becomes "MyCat".
func sanitizeCategoryName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// CreateCategory creates a new empty category directory from a user-supplied
// name. The name is sanitized first; an empty result or an existing directory
// fails without side effects.
func (s Store) CreateCategory(name string) Outcome {
	if strings.TrimSpace(name) == "" {
		return failure("category name cannot be empty")
	}
	safe := sanitizeCategoryName(name)
	if safe == "" {
		return failure("invalid category name")
	}
	dir := filepath.Join(s.LibraryDir, safe)
	if _, err := os.Stat(dir); err == nil {
		return failure("category %q already exists", safe)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return failure("failed to create category: %v", err)
	}
	return Outcome{OK: true, Message: fmt.Sprintf("created category %q", safe), Path: dir}
}

// ListCategories lists the immediate subdirectories of the library root, sorted
// lexicographically. Dot-named directories are skipped unless ShowHidden is set.
func (s Store) ListCategories() ([]string, error) {
	entries, err := os.ReadDir(s.LibraryDir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if !s.ShowHidden && strings.HasPrefix(e.Name(), ".") {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}

// ListDocuments lists the ".md" files directly inside each applicable category
// (non-recursive), sorted by (category, name). An empty category lists the
// whole library; an unknown category yields an empty result, not an error.
func (s Store) ListDocuments(category string) ([]model.Document, error) {
	var categories []string
	if category != "" {
		if _, err := os.Stat(filepath.Join(s.LibraryDir, category)); err != nil {
			return nil, nil
		}
		categories = []string{category}
	} else {
		var err error
		categories, err = s.ListCategories()
		if err != nil {
			return nil, err
		}
	}

	var docs []model.Document
	for _, cat := range categories {
		entries, err := os.ReadDir(filepath.Join(s.LibraryDir, cat))
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !isMarkdown(e.Name()) {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			docs = append(docs, model.Document{
				Path:     filepath.Join(s.LibraryDir, cat, e.Name()),
				Name:     e.Name(),
				Category: cat,
				Size:     info.Size(),
				Modified: info.ModTime(),
			})
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Category != docs[j].Category {
			return docs[i].Category < docs[j].Category
		}
		return docs[i].Name < docs[j].Name
	})
	return docs, nil
}

// MoveDocument relocates a document into another category, creating the target
// category on demand. It refuses paths outside the library and same-named
// collisions in the target.
func (s Store) MoveDocument(path, newCategory string) Outcome {
	if _, err := os.Stat(path); err != nil {
		return failure("document not found")
	}
	if !s.Contains(path) {
		return failure("document is not in library")
	}
	newCategory = strings.TrimSpace(newCategory)
	if newCategory == "" {
		return failure("category name cannot be empty")
	}
	categoryDir := filepath.Join(s.LibraryDir, newCategory)
	if err := os.MkdirAll(categoryDir, 0o755); err != nil {
		return failure("failed to create category %q: %v", newCategory, err)
	}
	newPath := filepath.Join(categoryDir, filepath.Base(path))
	if _, err := os.Stat(newPath); err == nil {
		return failure("document already exists in %s", newCategory)
	}
	if err := os.Rename(path, newPath); err != nil {
		return failure("failed to move: %v", err)
	}
	return Outcome{OK: true, Message: fmt.Sprintf("moved to %s", newCategory), Path: newPath}
}

// DeleteDocument removes a document file. There is no recycle bin, and the
// caller owns cleaning up the matching status record.
func (s Store) DeleteDocument(path string) Outcome {
	if _, err := os.Stat(path); err != nil {
		return failure("document not found")
	}
	if !s.Contains(path) {
		return failure("document is not in library")
	}
	if err := os.Remove(path); err != nil {
		return failure("failed to delete: %v", err)
	}
	return Outcome{OK: true, Message: "document deleted"}
}

// ImportDirectory adds every markdown file under sourceDir. With recursive set,
// the whole subtree is walked; otherwise only the top level. When category is
// empty each file's immediate parent directory name is used (files directly in
// sourceDir go to DefaultCategory).
//
// A single failing file never aborts the batch: the result is an aggregate
// added/failed count plus one message per attempted file.
func (s Store) ImportDirectory(sourceDir, category string, recursive bool) (added, failed int, messages []string) {
	st, err := os.Stat(sourceDir)
	if err != nil || !st.IsDir() {
		return 0, 0, []string{fmt.Sprintf("directory %s does not exist", sourceDir)}
	}

	var files []string
	if recursive {
		_ = filepath.WalkDir(sourceDir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.IsDir() && isMarkdown(path) {
				files = append(files, path)
			}
			return nil
		})
	} else {
		entries, err := os.ReadDir(sourceDir)
		if err != nil {
			return 0, 0, []string{fmt.Sprintf("failed to read %s: %v", sourceDir, err)}
		}
		for _, e := range entries {
			if !e.IsDir() && isMarkdown(e.Name()) {
				files = append(files, filepath.Join(sourceDir, e.Name()))
			}
		}
	}
	sort.Strings(files)

	for _, f := range files {
		target := category
		if target == "" {
			parent := filepath.Dir(f)
			if filepath.Clean(parent) == filepath.Clean(sourceDir) {
				target = DefaultCategory
			} else {
				target = filepath.Base(parent)
			}
		}
		out := s.AddDocument(f, target, "")
		if out.OK {
			added++
		} else {
			failed++
		}
		messages = append(messages, fmt.Sprintf("%s: %s", filepath.Base(f), out.Message))
	}
	return added, failed, messages
}

// ExportLibrary copies the whole library tree to destPath, which must not exist
// yet. The reported count covers the markdown documents in the copy.
func (s Store) ExportLibrary(destPath string) Outcome {
	if _, err := os.Stat(destPath); err == nil {
		return failure("export path already exists")
	}
	if err := CopyTree(s.LibraryDir, destPath); err != nil {
		return failure("export failed: %v", err)
	}
	count := 0
	_ = filepath.WalkDir(s.LibraryDir, func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() && isMarkdown(path) {
			count++
		}
		return nil
	})
	return Outcome{OK: true, Message: fmt.Sprintf("exported %d documents to %s", count, destPath), Path: destPath}
}

// SearchDocuments matches the query case-insensitively against document
// filenames. Content is not searched.
func (s Store) SearchDocuments(query string) ([]model.Document, error) {
	docs, err := s.ListDocuments("")
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	var out []model.Document
	for _, d := range docs {
		if strings.Contains(strings.ToLower(d.Name), q) {
			out = append(out, d)
		}
	}
	return out, nil
}

// Stats aggregates document count, category count and total size.
func (s Store) Stats() (model.LibraryStats, error) {
	cats, err := s.ListCategories()
	if err != nil {
		return model.LibraryStats{}, err
	}
	docs, err := s.ListDocuments("")
	if err != nil {
		return model.LibraryStats{}, err
	}
	var bytes int64
	for _, d := range docs {
		bytes += d.Size
	}
	mb := float64(bytes) / (1024 * 1024)
	return model.LibraryStats{
		Documents:  len(docs),
		Categories: len(cats),
		TotalBytes: bytes,
		// Two decimals is enough for a status line.
		TotalMB: float64(int64(mb*100+0.5)) / 100,
	}, nil
}
