package tui

import (
	"context"
	"strings"
	"testing"

	"folio-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestApp(t *testing.T) (appModel, store.Store) {
	t.Helper()
	// Keep persisted navigation state away from the real config dir.
	t.Setenv("FOLIO_CONFIG_DIR", t.TempDir())
	lib, status := newTestStores(t)
	return newAppModel(lib, status), lib
}

func press(t *testing.T, m appModel, key string) appModel {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return next.(appModel)
}

func TestApp_SpaceFoldsCursorCategory(t *testing.T) {
	m, lib := newTestApp(t)
	addDoc(t, lib, "A", "a1.md", "a1\n")
	m.refresh()

	catPath := m.tree.roots[0].path
	m.tree.selectPath(catPath)
	if !m.tree.nodes[catPath].expanded {
		t.Fatalf("non-empty category should start expanded")
	}

	m = press(t, m, " ")
	if m.tree.nodes[catPath].expanded {
		t.Fatalf("space should fold the category under the cursor")
	}
}

func TestApp_ReadToggleKeyRoundTrips(t *testing.T) {
	m, lib := newTestApp(t)
	docPath := addDoc(t, lib, "A", "a1.md", "a1\n")
	m.refresh()
	m.tree.selectPath(docPath)

	ctx := context.Background()
	m = press(t, m, "r")
	if read, err := m.status.IsRead(ctx, docPath); err != nil || !read {
		t.Fatalf("IsRead after toggle = %v, %v; want true", read, err)
	}
	if !m.tree.nodes[docPath].read {
		t.Fatalf("tree node should reflect the read flag")
	}

	m = press(t, m, "r")
	if read, err := m.status.IsRead(ctx, docPath); err != nil || read {
		t.Fatalf("IsRead after second toggle = %v, %v; want false", read, err)
	}
}

func TestApp_BusyBlocksMutatingKeysUntilResult(t *testing.T) {
	m, lib := newTestApp(t)
	docPath := addDoc(t, lib, "A", "a1.md", "a1\n")
	m.refresh()
	m.tree.selectPath(docPath)
	m.busy = true

	m = press(t, m, "D")
	if m.modal != modalNone {
		t.Fatalf("delete confirm should be blocked while busy")
	}
	m = press(t, m, "n")
	if m.modal != modalNone {
		t.Fatalf("new-category modal should be blocked while busy")
	}

	// Navigation stays live.
	before := m.tree.cursorPath
	m = press(t, m, "g")
	if m.tree.cursorPath == before {
		t.Fatalf("navigation should not be blocked while busy")
	}

	next, _ := m.Update(addDoneMsg{outcome: store.Outcome{OK: true, Message: "Added", Path: docPath}})
	m = next.(appModel)
	if m.busy {
		t.Fatalf("result message should clear the busy flag")
	}
	m = press(t, m, "D")
	if m.modal != modalConfirmDelete {
		t.Fatalf("mutating keys should work again after the result lands")
	}
}

func TestApp_DuplicateAddResultIsNotAnErrorFlash(t *testing.T) {
	m, lib := newTestApp(t)
	docPath := addDoc(t, lib, "A", "a1.md", "a1\n")
	m.refresh()
	m.busy = true

	out := store.Outcome{Message: "document already exists in library", Path: docPath}
	next, _ := m.Update(addDoneMsg{outcome: out})
	m = next.(appModel)

	if m.flashErr {
		t.Fatalf("identical-content duplicate should flash as information, not error")
	}
	if !strings.Contains(m.flash, "already exists") {
		t.Fatalf("flash = %q; want already-exists notice", m.flash)
	}
	if m.tree.cursorPath != docPath {
		t.Fatalf("cursor should land on the existing document")
	}
}

func TestApp_ImportResultOpensReport(t *testing.T) {
	m, lib := newTestApp(t)
	addDoc(t, lib, "A", "a1.md", "a1\n")
	m.refresh()
	m.busy = true

	next, _ := m.Update(importDoneMsg{dir: "/tmp/in", added: 2, failed: 1, messages: []string{"ok", "ok", "bad"}})
	m = next.(appModel)

	if m.busy {
		t.Fatalf("import result should clear the busy flag")
	}
	if m.modal != modalMessage {
		t.Fatalf("import result should open the report modal")
	}
	if !strings.Contains(m.msgBody, "Imported 2 document(s)") || !strings.Contains(m.msgBody, "1 failed") {
		t.Fatalf("report body = %q", m.msgBody)
	}
}
