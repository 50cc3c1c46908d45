package store

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStatus(t *testing.T) StatusStore {
	t.Helper()
	return StatusStore{DBPath: filepath.Join(t.TempDir(), "status.sqlite")}
}

func TestStatus_MarkReadUnread(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStatus(t)
	path := "/library/General/doc.md"

	// Unknown path is unread by policy, not an error.
	read, err := st.IsRead(ctx, path)
	if err != nil {
		t.Fatalf("IsRead (unknown): %v", err)
	}
	if read {
		t.Fatalf("unknown path reported read")
	}

	if err := st.MarkRead(ctx, path); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if read, _ := st.IsRead(ctx, path); !read {
		t.Fatalf("IsRead after MarkRead = false")
	}

	rec, err := st.Info(ctx, path)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if rec == nil || rec.LastOpened == nil {
		t.Fatalf("MarkRead should stamp last-opened; got %#v", rec)
	}

	if err := st.MarkUnread(ctx, path); err != nil {
		t.Fatalf("MarkUnread: %v", err)
	}
	if read, _ := st.IsRead(ctx, path); read {
		t.Fatalf("IsRead after MarkUnread = true")
	}
}

func TestStatus_UpdateLastOpenedPreservesReadFlag(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStatus(t)
	path := "/library/Work/doc.md"

	if err := st.MarkRead(ctx, path); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if err := st.UpdateLastOpened(ctx, path); err != nil {
		t.Fatalf("UpdateLastOpened: %v", err)
	}
	if read, _ := st.IsRead(ctx, path); !read {
		t.Fatalf("UpdateLastOpened cleared the read flag")
	}

	// A fresh record defaults to unread.
	other := "/library/Work/new.md"
	if err := st.UpdateLastOpened(ctx, other); err != nil {
		t.Fatalf("UpdateLastOpened (fresh): %v", err)
	}
	rec, err := st.Info(ctx, other)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if rec == nil || rec.Read || rec.LastOpened == nil {
		t.Fatalf("fresh record should be unread with last-opened set; got %#v", rec)
	}
}

func TestStatus_AddKeepsExistingReadFlag(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStatus(t)
	path := "/library/General/doc.md"

	if err := st.Add(ctx, path, "General", "/src/doc.md", ""); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := st.MarkRead(ctx, path); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	// Re-adding (e.g. a reconciler sync) must not reset the read flag.
	if err := st.Add(ctx, path, "General", "", ""); err != nil {
		t.Fatalf("Add (again): %v", err)
	}
	if read, _ := st.IsRead(ctx, path); !read {
		t.Fatalf("re-add reset the read flag")
	}
}

func TestStatus_InfoAbsentIsNil(t *testing.T) {
	t.Parallel()

	st := newTestStatus(t)
	rec, err := st.Info(context.Background(), "/nowhere.md")
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil record; got %#v", rec)
	}
}

func TestStatus_TagsNotesRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStatus(t)
	path := "/library/Personal/journal.md"

	if err := st.Add(ctx, path, "Personal", "", ""); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := st.SetTags(ctx, path, []string{"daily", "2026"}); err != nil {
		t.Fatalf("SetTags: %v", err)
	}
	if err := st.SetNotes(ctx, path, "re-read in spring"); err != nil {
		t.Fatalf("SetNotes: %v", err)
	}

	rec, err := st.Info(ctx, path)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if rec == nil {
		t.Fatalf("record missing")
	}
	if len(rec.Tags) != 2 || rec.Tags[0] != "daily" || rec.Tags[1] != "2026" {
		t.Fatalf("tags = %v", rec.Tags)
	}
	if rec.Notes != "re-read in spring" {
		t.Fatalf("notes = %q", rec.Notes)
	}
}

func TestStatus_ListFiltersByCategory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStatus(t)
	if err := st.Add(ctx, "/lib/Work/a.md", "Work", "", ""); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := st.Add(ctx, "/lib/Personal/b.md", "Personal", "", ""); err != nil {
		t.Fatalf("Add: %v", err)
	}

	all, err := st.List(ctx, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("List all = %d records; want 2", len(all))
	}

	work, err := st.List(ctx, "Work")
	if err != nil {
		t.Fatalf("List(Work): %v", err)
	}
	if len(work) != 1 || work[0].LibraryPath != "/lib/Work/a.md" {
		t.Fatalf("List(Work) = %#v", work)
	}
}

func TestStatus_DeleteAbsentIsNoError(t *testing.T) {
	t.Parallel()

	st := newTestStatus(t)
	if err := st.Delete(context.Background(), "/lib/absent.md"); err != nil {
		t.Fatalf("Delete absent: %v", err)
	}
}

func TestStatus_PruneRemovesOnlyOrphans(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStatus(t)
	if err := st.Add(ctx, "/lib/General/live.md", "General", "", ""); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := st.Add(ctx, "/lib/General/gone.md", "General", "", ""); err != nil {
		t.Fatalf("Add: %v", err)
	}

	removed, err := st.Prune(ctx, map[string]bool{"/lib/General/live.md": true})
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d; want 1", removed)
	}
	if rec, _ := st.Info(ctx, "/lib/General/live.md"); rec == nil {
		t.Fatalf("live record pruned")
	}
	if rec, _ := st.Info(ctx, "/lib/General/gone.md"); rec != nil {
		t.Fatalf("orphan survived prune")
	}
}

func TestStatus_Stats(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStatus(t)
	st.Add(ctx, "/lib/Work/a.md", "Work", "", "")
	st.Add(ctx, "/lib/Work/b.md", "Work", "", "")
	st.Add(ctx, "/lib/Personal/c.md", "Personal", "", "")
	st.MarkRead(ctx, "/lib/Work/a.md")

	stats, err := st.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 3 || stats.Read != 1 {
		t.Fatalf("stats = %#v", stats)
	}
	if len(stats.ByCategory) != 2 || stats.ByCategory[0].Category != "Work" || stats.ByCategory[0].Count != 2 {
		t.Fatalf("by-category = %#v", stats.ByCategory)
	}
}

func TestStatus_RenameCarriesRecord(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStatus(t)
	old := "/lib/General/doc.md"
	dst := "/lib/Work/doc.md"

	if err := st.Add(ctx, old, "General", "/tmp/doc.md", "Doc"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := st.MarkRead(ctx, old); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	// A stale record at the destination must not block the rename.
	if err := st.Add(ctx, dst, "Work", "", ""); err != nil {
		t.Fatalf("Add (stale dest): %v", err)
	}

	if err := st.Rename(ctx, old, dst, "Work"); err != nil {
		t.Fatalf("Rename: %v", err)
	}

	if rec, _ := st.Info(ctx, old); rec != nil {
		t.Fatalf("old path still has a record")
	}
	rec, err := st.Info(ctx, dst)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if rec == nil || !rec.Read || rec.Category != "Work" || rec.OriginalPath != "/tmp/doc.md" {
		t.Fatalf("renamed record = %#v", rec)
	}
}
