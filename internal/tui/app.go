package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"folio-cli/internal/store"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalNewCategory
	modalPickFile
	modalPickAddCategory
	modalPickMoveCategory
	modalConfirmDelete
	modalMessage
	modalHelp
)

type appModel struct {
	tree   *docTree
	status store.StatusStore

	width  int
	height int
	// The very first WindowSizeMsg is initial sizing, not a user-driven resize;
	// without the flag we'd briefly flash an empty reader on startup.
	seenWindowSize bool

	reader    viewport.Model
	readerFor string

	categoryList list.Model
	picker       filepicker.Model
	input        textinput.Model
	confirmFocus confirmModalFocus

	modal        modalKind
	modalForPath string
	msgTitle     string
	msgBody      string

	// pendingAddPath holds the file or directory picked in the add flow while
	// the category picker is still open.
	pendingAddPath string

	// busy is set while an add or import runs in a background command; it
	// blocks structural mutations until the result message lands.
	busy bool

	flash    string
	flashErr bool
}

// addDoneMsg carries the result of a background single-file add.
type addDoneMsg struct {
	outcome store.Outcome
}

// importDoneMsg carries the aggregate result of a background directory import.
type importDoneMsg struct {
	dir      string
	added    int
	failed   int
	messages []string
}

func newAppModel(lib store.Store, status store.StatusStore) appModel {
	input := textinput.New()
	input.CharLimit = 120
	input.Prompt = ""

	picker := filepicker.New()
	picker.AllowedTypes = []string{".md"}
	picker.DirAllowed = true
	picker.FileAllowed = true
	// The picker lives inside a modal and never sees WindowSizeMsg, so size it
	// explicitly instead of letting it autosize.
	picker.AutoHeight = false
	picker.Height = 16
	picker.Styles.Cursor = lipgloss.NewStyle().Foreground(colorAccent)
	picker.Styles.Selected = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	picker.Styles.Directory = lipgloss.NewStyle().Foreground(colorAccent)
	picker.Styles.DisabledFile = styleMuted()
	picker.Styles.DisabledSelected = styleMuted()
	if home, err := os.UserHomeDir(); err == nil {
		picker.CurrentDirectory = home
	}

	m := appModel{
		tree:         newDocTree(lib, status),
		status:       status,
		reader:       viewport.New(0, 0),
		categoryList: newCategoryList(),
		picker:       picker,
		input:        input,
	}

	if st, err := store.LoadTUIState(); err == nil && st != nil {
		m.tree.lib.ShowHidden = st.ShowHidden
		m.tree.restoreState(st.Expanded, st.Known, st.SelectedPath)
	}
	// The first build happens here, before the program loop starts, so View
	// never observes a half-built tree.
	m.refresh()
	return m
}

func (m appModel) Init() tea.Cmd {
	return nil
}

func (m *appModel) setFlash(format string, args ...any) {
	m.flash = fmt.Sprintf(format, args...)
	m.flashErr = false
}

func (m *appModel) setFlashErr(format string, args ...any) {
	m.flash = fmt.Sprintf(format, args...)
	m.flashErr = true
}

func (m *appModel) refresh() {
	if err := m.tree.Refresh(context.Background()); err != nil {
		debugLogf("refresh failed: %v", err)
		m.setFlashErr("refresh failed: %v", err)
	}
}

func (m *appModel) saveState() {
	st := &store.TUIState{
		Version:      1,
		Expanded:     m.tree.expandedPaths(),
		Known:        m.tree.knownPaths(),
		SelectedPath: m.tree.cursorPath,
		ShowHidden:   m.tree.lib.ShowHidden,
	}
	if err := store.SaveTUIState(st); err != nil {
		debugLogf("save tui state: %v", err)
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.seenWindowSize = true
		m.reader.Width = m.readerWidth()
		m.reader.Height = m.bodyHeight()
		m.rerenderReader()
		return m, nil

	case tea.KeyMsg:
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		return m.updateBrowse(msg)

	case addDoneMsg:
		m.busy = false
		out := msg.outcome
		// OK=false with a path is the identical-content duplicate: the document
		// is already in the library, which is information, not an error.
		if !out.OK && out.Path == "" {
			m.setFlashErr("%s", out.Message)
			return m, nil
		}
		m.refresh()
		m.tree.selectPath(out.Path)
		m.setFlash("%s", out.Message)
		return m, nil

	case importDoneMsg:
		m.busy = false
		m.refresh()
		m.msgTitle = "Import report"
		m.msgBody = importReport(msg.dir, msg.added, msg.failed, msg.messages)
		m.modal = modalMessage
		return m, nil
	}

	if m.modal == modalPickFile {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A running add or import owns structural mutation until its result message
	// lands; navigation, reader scrolling and quitting stay live.
	if m.busy {
		switch msg.String() {
		case "q", "ctrl+c", "j", "down", "k", "up", "g", "home", "G", "end",
			"pgdown", "ctrl+d", "pgup", "ctrl+u", "J", "K":
		default:
			return m, nil
		}
	} else {
		m.flash = ""
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.saveState()
		return m, tea.Quit

	case "j", "down":
		m.tree.moveCursor(1)
	case "k", "up":
		m.tree.moveCursor(-1)
	case "g", "home":
		m.tree.selectFirst()
	case "G", "end":
		m.tree.selectLast()

	case "enter":
		return m.activateCursor()

	case " ", "tab":
		if n := m.tree.cursorNode(); n != nil {
			switch n.kind {
			case nodeCategory:
				m.tree.toggleExpand(n.path)
			case nodeDocument:
				m.tree.toggleExpand(filepath.Dir(n.path))
			}
		}

	case "r":
		m.toggleRead()

	case "n":
		m.input.SetValue("")
		m.input.Focus()
		m.modal = modalNewCategory
		return m, textinput.Blink

	case "a":
		m.modal = modalPickFile
		return m, m.picker.Init()

	case "m":
		if n := m.tree.cursorNode(); n != nil && n.kind == nodeDocument {
			m.modalForPath = n.path
			m.startCategoryPicker("Move to category")
			m.modal = modalPickMoveCategory
		}

	case "D":
		if n := m.tree.cursorNode(); n != nil && n.kind == nodeDocument {
			m.modalForPath = n.path
			m.confirmFocus = confirmFocusCancel
			m.modal = modalConfirmDelete
		}

	case "R", "f5":
		m.refresh()
		m.setFlash("library refreshed")

	case ".":
		m.tree.lib.ShowHidden = !m.tree.lib.ShowHidden
		m.refresh()

	case "?":
		m.modal = modalHelp

	case "pgdown", "ctrl+d":
		m.reader.HalfViewDown()
	case "pgup", "ctrl+u":
		m.reader.HalfViewUp()
	case "J":
		m.reader.LineDown(1)
	case "K":
		m.reader.LineUp(1)
	}
	return m, nil
}

// activateCursor opens a document (marking it read) or toggles a category fold.
func (m appModel) activateCursor() (tea.Model, tea.Cmd) {
	n := m.tree.cursorNode()
	if n == nil {
		return m, nil
	}
	if n.kind == nodeCategory {
		m.tree.toggleExpand(n.path)
		return m, nil
	}

	ctx := context.Background()
	if err := m.status.MarkRead(ctx, n.path); err != nil {
		m.setFlashErr("could not mark read: %v", err)
	} else {
		m.tree.markRead(n.path, true)
	}
	if err := m.status.UpdateLastOpened(ctx, n.path); err != nil {
		m.setFlashErr("could not record open: %v", err)
	}

	m.readerFor = n.path
	m.rerenderReader()
	m.reader.GotoTop()
	return m, nil
}

func (m *appModel) toggleRead() {
	n := m.tree.cursorNode()
	if n == nil || n.kind != nodeDocument {
		return
	}
	ctx := context.Background()
	if n.read {
		if err := m.status.MarkUnread(ctx, n.path); err != nil {
			m.setFlashErr("could not mark unread: %v", err)
			return
		}
		m.tree.markRead(n.path, false)
		m.setFlash("marked unread: %s", n.name)
		return
	}
	if err := m.status.MarkRead(ctx, n.path); err != nil {
		m.setFlashErr("could not mark read: %v", err)
		return
	}
	m.tree.markRead(n.path, true)
	m.setFlash("marked read: %s", n.name)
}

func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalNewCategory:
		switch msg.String() {
		case "esc", "ctrl+g":
			m.modal = modalNone
			m.input.Blur()
			return m, nil
		case "enter":
			name := strings.TrimSpace(m.input.Value())
			m.modal = modalNone
			m.input.Blur()
			out := m.tree.lib.CreateCategory(name)
			if out.OK {
				m.refresh()
				m.setFlash("%s", out.Message)
			} else {
				m.setFlashErr("%s", out.Message)
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case modalPickFile:
		switch msg.String() {
		case "esc", "ctrl+g", "q":
			m.modal = modalNone
			return m, nil
		case "s":
			// Enter descends into directories, so importing the directory the
			// picker is currently showing needs its own key.
			if dir := strings.TrimSpace(m.picker.CurrentDirectory); dir != "" {
				m.pendingAddPath = dir
				m.startCategoryPicker("Import to category")
				m.modal = modalPickAddCategory
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
			m.pendingAddPath = path
			m.startCategoryPicker("Add to category")
			m.modal = modalPickAddCategory
			return m, nil
		}
		return m, cmd

	case modalPickAddCategory:
		switch msg.String() {
		case "esc", "ctrl+g":
			m.modal = modalNone
			m.pendingAddPath = ""
			return m, nil
		case "enter":
			cat, ok := m.pickedCategory()
			if !ok {
				return m, nil
			}
			m.modal = modalNone
			cmd := m.startAdd(m.pendingAddPath, cat)
			m.pendingAddPath = ""
			return m, cmd
		}
		var cmd tea.Cmd
		m.categoryList, cmd = m.categoryList.Update(msg)
		return m, cmd

	case modalPickMoveCategory:
		switch msg.String() {
		case "esc", "ctrl+g":
			m.modal = modalNone
			m.modalForPath = ""
			return m, nil
		case "enter":
			cat, ok := m.pickedCategory()
			if !ok {
				return m, nil
			}
			m.modal = modalNone
			m.runMove(m.modalForPath, cat)
			m.modalForPath = ""
			return m, nil
		}
		var cmd tea.Cmd
		m.categoryList, cmd = m.categoryList.Update(msg)
		return m, cmd

	case modalConfirmDelete:
		switch msg.String() {
		case "esc", "ctrl+g":
			m.modal = modalNone
			m.modalForPath = ""
		case "tab", "left", "right":
			if m.confirmFocus == confirmFocusConfirm {
				m.confirmFocus = confirmFocusCancel
			} else {
				m.confirmFocus = confirmFocusConfirm
			}
		case "enter":
			path := m.modalForPath
			m.modal = modalNone
			m.modalForPath = ""
			if m.confirmFocus == confirmFocusConfirm {
				m.runDelete(path)
			}
		}
		return m, nil

	case modalMessage:
		switch msg.String() {
		case "enter", "esc", "q", "ctrl+g":
			m.modal = modalNone
			m.msgTitle = ""
			m.msgBody = ""
		}
		return m, nil

	case modalHelp:
		switch msg.String() {
		case "enter", "esc", "q", "?", "ctrl+g":
			m.modal = modalNone
		}
		return m, nil
	}

	m.modal = modalNone
	return m, nil
}

// startAdd dispatches the add or import off the program loop. The library
// store is a plain value over the filesystem, safe to call from the command
// goroutine; all tree mutation happens back on the loop when the result
// message arrives.
func (m *appModel) startAdd(path, category string) tea.Cmd {
	info, err := os.Stat(path)
	if err != nil {
		m.setFlashErr("could not add %s: %v", path, err)
		return nil
	}
	lib := m.tree.lib
	m.busy = true
	if info.IsDir() {
		m.setFlash("importing %s…", path)
		return func() tea.Msg {
			added, failed, messages := lib.ImportDirectory(path, category, true)
			return importDoneMsg{dir: path, added: added, failed: failed, messages: messages}
		}
	}
	m.setFlash("adding %s…", filepath.Base(path))
	return func() tea.Msg {
		return addDoneMsg{outcome: lib.AddDocument(path, category, "")}
	}
}

func (m *appModel) runMove(path, category string) {
	out := m.tree.lib.MoveDocument(path, category)
	if !out.OK {
		m.setFlashErr("%s", out.Message)
		return
	}
	// Keep the status record in step with the file move.
	if err := m.status.Rename(context.Background(), path, out.Path, category); err != nil {
		debugLogf("status rename %s -> %s: %v", path, out.Path, err)
	}
	m.refresh()
	m.tree.selectPath(out.Path)
	m.setFlash("%s", out.Message)
}

func (m *appModel) runDelete(path string) {
	out := m.tree.lib.DeleteDocument(path)
	if !out.OK {
		m.setFlashErr("%s", out.Message)
		return
	}
	_ = m.status.Delete(context.Background(), path)
	if m.readerFor == path {
		m.readerFor = ""
		m.rerenderReader()
	}
	m.refresh()
	m.setFlash("%s", out.Message)
}

func importReport(dir string, added, failed int, messages []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Imported %d document(s) from %s.", added, dir)
	if failed > 0 {
		fmt.Fprintf(&b, " %d failed.", failed)
	}
	max := 12
	if len(messages) < max {
		max = len(messages)
	}
	if max > 0 {
		b.WriteString("\n")
		for _, msg := range messages[:max] {
			b.WriteString("\n")
			b.WriteString(msg)
		}
		if len(messages) > max {
			fmt.Fprintf(&b, "\n… and %d more", len(messages)-max)
		}
	}
	return b.String()
}
