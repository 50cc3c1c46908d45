package tui

import (
	"context"
	"os"
	"path/filepath"

	"folio-cli/internal/model"
	"folio-cli/internal/store"
)

type nodeKind int

const (
	nodeCategory nodeKind = iota
	nodeDocument
)

// treeNode is one entry of the navigable hierarchy. Nodes carry no pointers to
// their previous incarnation: identity across rebuilds is the filesystem path.
type treeNode struct {
	path     string
	name     string
	kind     nodeKind
	read     bool
	expanded bool
	doc      model.Document
	children []*treeNode
}

// treeRow is a flattened, visible entry produced for rendering.
type treeRow struct {
	node        *treeNode
	depth       int
	hasChildren bool
}

// docTree presents the library and status stores as a category/document
// hierarchy. Every refresh tears the tree down and rebuilds it from the stores;
// the expanded set and cursor are snapshotted by path identity beforehand and
// restored afterwards, so rebuilds look stateless to the user.
//
// Nodes live in an arena keyed by path rather than linking to each other across
// generations, which keeps the snapshot/restore free of dangling references.
type docTree struct {
	lib    store.Store
	status store.StatusStore

	nodes map[string]*treeNode
	roots []*treeNode

	cursorPath string
	built      bool

	savedExpanded map[string]bool
	// savedKnown records every path present in the previous build. A rebuilt node
	// outside this set is new to the session and gets the auto-expand default; a
	// known node follows the snapshot, so an explicit collapse survives refreshes.
	savedKnown map[string]bool
}

func newDocTree(lib store.Store, status store.StatusStore) *docTree {
	return &docTree{
		lib:           lib,
		status:        status,
		nodes:         map[string]*treeNode{},
		savedExpanded: map[string]bool{},
		savedKnown:    map[string]bool{},
	}
}

// restoreState seeds the snapshot from persisted navigation state, as if the
// previous session's tree had just been snapshotted.
func (t *docTree) restoreState(expanded, known []string, selected string) {
	for _, p := range expanded {
		t.savedExpanded[p] = true
	}
	for _, p := range known {
		t.savedKnown[p] = true
	}
	if len(t.savedKnown) > 0 {
		t.built = true
	}
	t.cursorPath = selected
}

// snapshot records the expanded set, the known-node set and the cursor of the
// current tree before it is discarded.
func (t *docTree) snapshot() {
	t.savedExpanded = map[string]bool{}
	t.savedKnown = map[string]bool{}
	for path, n := range t.nodes {
		t.savedKnown[path] = true
		if n.expanded {
			t.savedExpanded[path] = true
		}
	}
}

// Refresh rebuilds the tree from the stores.
//
// Order matters: snapshot the navigation state, reconcile the status store
// against the library (one-directional: unknown documents are inserted unread,
// stale records are never purged here), then rebuild and restore. Documents
// whose file vanished between listing and rebuild are silently skipped; a
// vanished cursor falls back to no-selection.
func (t *docTree) Refresh(ctx context.Context) error {
	// Snapshot only when a previous build exists. A snapshot over an empty
	// arena would wipe state seeded by restoreState before it is applied.
	if len(t.nodes) > 0 {
		t.snapshot()
	}

	docs, err := t.lib.ListDocuments("")
	if err != nil {
		return err
	}
	readMap, err := t.status.ReadMap(ctx)
	if err != nil {
		return err
	}
	for _, d := range docs {
		if _, ok := readMap[d.Path]; ok {
			continue
		}
		if err := t.status.Add(ctx, d.Path, d.Category, "", ""); err != nil {
			return err
		}
		readMap[d.Path] = false
	}

	cats, err := t.lib.ListCategories()
	if err != nil {
		return err
	}

	t.nodes = map[string]*treeNode{}
	t.roots = nil
	for _, cat := range cats {
		catPath := filepath.Join(t.lib.LibraryDir, cat)
		catNode := &treeNode{path: catPath, name: cat, kind: nodeCategory}

		catDocs, err := t.lib.ListDocuments(cat)
		if err != nil {
			continue
		}
		for _, d := range catDocs {
			if _, err := os.Stat(d.Path); err != nil {
				continue
			}
			docNode := &treeNode{
				path: d.Path,
				name: d.Name,
				kind: nodeDocument,
				read: readMap[d.Path],
				doc:  d,
			}
			catNode.children = append(catNode.children, docNode)
			t.nodes[docNode.path] = docNode
		}

		switch {
		case t.built && t.savedKnown[catPath]:
			// Restoration wins over the auto-expand default.
			catNode.expanded = t.savedExpanded[catPath]
		default:
			catNode.expanded = len(catNode.children) > 0
		}

		t.nodes[catNode.path] = catNode
		t.roots = append(t.roots, catNode)
	}

	if t.cursorPath != "" {
		if _, ok := t.nodes[t.cursorPath]; !ok {
			t.cursorPath = ""
		}
	}
	t.built = true
	return nil
}

// Rows flattens the tree into its visible entries: category rows, then their
// documents when expanded.
func (t *docTree) Rows() []treeRow {
	var out []treeRow
	for _, cat := range t.roots {
		out = append(out, treeRow{node: cat, depth: 0, hasChildren: len(cat.children) > 0})
		if !cat.expanded {
			continue
		}
		for _, doc := range cat.children {
			out = append(out, treeRow{node: doc, depth: 1})
		}
	}
	return out
}

func (t *docTree) cursorNode() *treeNode {
	if t.cursorPath == "" {
		return nil
	}
	return t.nodes[t.cursorPath]
}

// cursorIndex returns the cursor's position in the visible rows, or -1.
func (t *docTree) cursorIndex(rows []treeRow) int {
	for i, r := range rows {
		if r.node.path == t.cursorPath {
			return i
		}
	}
	return -1
}

// moveCursor shifts the cursor by delta visible rows, clamping at the ends. A
// cleared cursor starts from the top.
func (t *docTree) moveCursor(delta int) {
	rows := t.Rows()
	if len(rows) == 0 {
		t.cursorPath = ""
		return
	}
	idx := t.cursorIndex(rows)
	if idx < 0 {
		t.cursorPath = rows[0].node.path
		return
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx > len(rows)-1 {
		idx = len(rows) - 1
	}
	t.cursorPath = rows[idx].node.path
}

func (t *docTree) selectPath(path string) bool {
	if _, ok := t.nodes[path]; !ok {
		return false
	}
	t.cursorPath = path
	return true
}

func (t *docTree) selectFirst() {
	rows := t.Rows()
	if len(rows) > 0 {
		t.cursorPath = rows[0].node.path
	}
}

func (t *docTree) selectLast() {
	rows := t.Rows()
	if len(rows) > 0 {
		t.cursorPath = rows[len(rows)-1].node.path
	}
}

// toggleExpand flips a category's expansion. Document nodes are ignored.
func (t *docTree) toggleExpand(path string) {
	if n, ok := t.nodes[path]; ok && n.kind == nodeCategory {
		n.expanded = !n.expanded
	}
}

func (t *docTree) setExpanded(path string, expanded bool) {
	if n, ok := t.nodes[path]; ok && n.kind == nodeCategory {
		n.expanded = expanded
	}
}

// markRead updates a document node's glyph in place (the durable flag lives in
// the status store; callers persist first, then annotate).
func (t *docTree) markRead(path string, read bool) {
	if n, ok := t.nodes[path]; ok && n.kind == nodeDocument {
		n.read = read
	}
}

// expandedPaths lists the currently expanded category paths, for persistence.
func (t *docTree) expandedPaths() []string {
	var out []string
	for _, cat := range t.roots {
		if cat.expanded {
			out = append(out, cat.path)
		}
	}
	return out
}

// knownPaths lists every node path of the current build, for persistence.
func (t *docTree) knownPaths() []string {
	var out []string
	for _, cat := range t.roots {
		out = append(out, cat.path)
		for _, doc := range cat.children {
			out = append(out, doc.path)
		}
	}
	return out
}
