package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runFolio executes the CLI in-process against the test's isolated config and
// library dirs (set via FOLIO_CONFIG_DIR / FOLIO_LIBRARY by the caller).
func runFolio(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func setupDirs(t *testing.T) (cfgDir, libDir string) {
	t.Helper()
	base := t.TempDir()
	cfgDir = filepath.Join(base, "config")
	libDir = filepath.Join(base, "library")
	t.Setenv("FOLIO_CONFIG_DIR", cfgDir)
	t.Setenv("FOLIO_LIBRARY", libDir)
	return cfgDir, libDir
}

func writeMarkdown(t *testing.T, dir, name, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func TestCLI_AddAndList(t *testing.T) {
	_, _ = setupDirs(t)
	src := writeMarkdown(t, t.TempDir(), "channels.md", "# Channels\n")

	out, err := runFolio(t, "add", src, "--category", "Work")
	if err != nil {
		t.Fatalf("add: %v\n%s", err, out)
	}
	if !strings.Contains(out, "channels.md") {
		t.Fatalf("add output missing filename:\n%s", out)
	}

	out, err = runFolio(t, "list")
	if err != nil {
		t.Fatalf("list: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Work/") || !strings.Contains(out, "channels.md") {
		t.Fatalf("list output missing document:\n%s", out)
	}

	out, err = runFolio(t, "list", "--category", "Personal")
	if err != nil {
		t.Fatalf("list --category: %v\n%s", err, out)
	}
	if strings.Contains(out, "channels.md") {
		t.Fatalf("category filter leaked another category:\n%s", out)
	}
}

func TestCLI_AddIdenticalContentTwiceIsNotAnError(t *testing.T) {
	_, _ = setupDirs(t)
	src := writeMarkdown(t, t.TempDir(), "notes.md", "# Notes\n")

	out, err := runFolio(t, "add", src, "--category", "Work")
	if err != nil {
		t.Fatalf("first add: %v\n%s", err, out)
	}

	out, err = runFolio(t, "add", src, "--category", "Work")
	if err != nil {
		t.Fatalf("re-adding identical content should exit zero: %v\n%s", err, out)
	}
	if !strings.Contains(out, "already exists") {
		t.Fatalf("expected already-exists notice:\n%s", out)
	}
}

func TestCLI_AddRejectsNonMarkdown(t *testing.T) {
	_, _ = setupDirs(t)
	src := writeMarkdown(t, t.TempDir(), "notes.txt", "plain\n")

	out, err := runFolio(t, "add", src)
	if err == nil {
		t.Fatalf("expected add to fail for non-markdown:\n%s", out)
	}
}

func TestCLI_Categories(t *testing.T) {
	_, _ = setupDirs(t)

	out, err := runFolio(t, "new-category", "Projects")
	if err != nil {
		t.Fatalf("new-category: %v\n%s", err, out)
	}

	out, err = runFolio(t, "categories")
	if err != nil {
		t.Fatalf("categories: %v\n%s", err, out)
	}
	// Default seed plus the new one.
	for _, want := range []string{"General", "Personal", "Work", "Projects"} {
		if !strings.Contains(out, want) {
			t.Fatalf("categories output missing %q:\n%s", want, out)
		}
	}
}

func TestCLI_NewCategoryRejectsEmptyAfterSanitize(t *testing.T) {
	_, _ = setupDirs(t)

	out, err := runFolio(t, "new-category", "///")
	if err == nil {
		t.Fatalf("expected failure for unusable name:\n%s", out)
	}
}

func TestCLI_Search(t *testing.T) {
	_, _ = setupDirs(t)
	src := writeMarkdown(t, t.TempDir(), "Channel-Notes.md", "notes\n")
	if out, err := runFolio(t, "add", src); err != nil {
		t.Fatalf("add: %v\n%s", err, out)
	}

	out, err := runFolio(t, "search", "channel")
	if err != nil {
		t.Fatalf("search: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Channel-Notes.md") {
		t.Fatalf("case-insensitive search missed the document:\n%s", out)
	}

	out, err = runFolio(t, "search", "nomatch")
	if err != nil {
		t.Fatalf("search (no match): %v\n%s", err, out)
	}
	if !strings.Contains(out, "No documents") {
		t.Fatalf("expected empty-result message:\n%s", out)
	}
}

func TestCLI_ReadUnread(t *testing.T) {
	_, _ = setupDirs(t)
	src := writeMarkdown(t, t.TempDir(), "plan.md", "# Plan\n")
	if out, err := runFolio(t, "add", src, "--category", "Work"); err != nil {
		t.Fatalf("add: %v\n%s", err, out)
	}

	out, err := runFolio(t, "read", "Work/plan.md")
	if err != nil {
		t.Fatalf("read: %v\n%s", err, out)
	}

	out, err = runFolio(t, "list", "--category", "Work")
	if err != nil {
		t.Fatalf("list: %v\n%s", err, out)
	}
	if !strings.Contains(out, "✓ plan.md") {
		t.Fatalf("read mark missing from list:\n%s", out)
	}

	if out, err = runFolio(t, "unread", "Work/plan.md"); err != nil {
		t.Fatalf("unread: %v\n%s", err, out)
	}
	out, _ = runFolio(t, "list", "--category", "Work")
	if strings.Contains(out, "✓ plan.md") {
		t.Fatalf("read mark should clear after unread:\n%s", out)
	}

	if out, err = runFolio(t, "read", "Work/missing.md"); err == nil {
		t.Fatalf("expected error for unknown document:\n%s", out)
	}
}

func TestCLI_ImportByFolder(t *testing.T) {
	_, _ = setupDirs(t)

	src := t.TempDir()
	writeMarkdown(t, src, "root.md", "root\n")
	writeMarkdown(t, filepath.Join(src, "Research"), "paper.md", "paper\n")
	writeMarkdown(t, filepath.Join(src, "Research"), "skip.txt", "not md\n")

	out, err := runFolio(t, "import", src)
	if err != nil {
		t.Fatalf("import: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Imported 2 document(s), 0 failed.") {
		t.Fatalf("aggregate line wrong:\n%s", out)
	}

	out, err = runFolio(t, "list")
	if err != nil {
		t.Fatalf("list: %v\n%s", err, out)
	}
	// Files at the import root land in General; nested files take their folder.
	if !strings.Contains(out, "General/") || !strings.Contains(out, "root.md") {
		t.Fatalf("root file not in General:\n%s", out)
	}
	if !strings.Contains(out, "Research/") || !strings.Contains(out, "paper.md") {
		t.Fatalf("nested file not in its folder category:\n%s", out)
	}
}

func TestCLI_ImportFlatSkipsSubdirs(t *testing.T) {
	_, _ = setupDirs(t)

	src := t.TempDir()
	writeMarkdown(t, src, "top.md", "top\n")
	writeMarkdown(t, filepath.Join(src, "Deep"), "nested.md", "nested\n")

	out, err := runFolio(t, "import", src, "--flat", "--category", "Inbox")
	if err != nil {
		t.Fatalf("import --flat: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Imported 1 document(s), 0 failed.") {
		t.Fatalf("flat import should only take the top level:\n%s", out)
	}
}

func TestCLI_Export(t *testing.T) {
	_, _ = setupDirs(t)
	src := writeMarkdown(t, t.TempDir(), "doc.md", "# Doc\n")
	if out, err := runFolio(t, "add", src); err != nil {
		t.Fatalf("add: %v\n%s", err, out)
	}

	dest := filepath.Join(t.TempDir(), "backup")
	out, err := runFolio(t, "export", dest)
	if err != nil {
		t.Fatalf("export: %v\n%s", err, out)
	}
	if _, err := os.Stat(filepath.Join(dest, "General", "doc.md")); err != nil {
		t.Fatalf("exported file missing: %v", err)
	}

	// Second export into the same dest must refuse.
	if out, err = runFolio(t, "export", dest); err == nil {
		t.Fatalf("expected export to refuse existing dest:\n%s", out)
	}
}

func TestCLI_StatsAndPrune(t *testing.T) {
	_, libDir := setupDirs(t)
	src := writeMarkdown(t, t.TempDir(), "a.md", "a\n")
	if out, err := runFolio(t, "add", src, "--category", "Work"); err != nil {
		t.Fatalf("add: %v\n%s", err, out)
	}
	if out, err := runFolio(t, "read", "Work/a.md"); err != nil {
		t.Fatalf("read: %v\n%s", err, out)
	}

	out, err := runFolio(t, "stats")
	if err != nil {
		t.Fatalf("stats: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Documents:  1") || !strings.Contains(out, "Read:       1 of 1 tracked") {
		t.Fatalf("stats output wrong:\n%s", out)
	}

	// Remove the file behind the store's back; --prune drops the orphan record.
	if err := os.Remove(filepath.Join(libDir, "Work", "a.md")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	out, err = runFolio(t, "stats", "--prune")
	if err != nil {
		t.Fatalf("stats --prune: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Pruned 1 orphaned status record(s).") {
		t.Fatalf("prune line wrong:\n%s", out)
	}
}
