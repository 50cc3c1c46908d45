package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	headerHeight = 2
	footerHeight = 1
	minTreeWidth = 24
)

func (m *appModel) treeWidth() int {
	w := m.width / 3
	if w < minTreeWidth {
		w = minTreeWidth
	}
	if w > 48 {
		w = 48
	}
	if w > m.width {
		w = m.width
	}
	return w
}

func (m *appModel) readerWidth() int {
	w := m.width - m.treeWidth() - 1
	if w < 0 {
		w = 0
	}
	return w
}

func (m *appModel) bodyHeight() int {
	h := m.height - headerHeight - footerHeight
	if h < 0 {
		h = 0
	}
	return h
}

func (m *appModel) rerenderReader() {
	if m.readerFor == "" {
		m.reader.SetContent(welcomeView(m.reader.Width))
		return
	}
	n := m.tree.nodes[m.readerFor]
	if n == nil || n.kind != nodeDocument {
		m.readerFor = ""
		m.reader.SetContent(welcomeView(m.reader.Width))
		return
	}
	m.reader.SetContent(loadDocument(n.doc, m.reader.Width))
}

func (m appModel) View() string {
	if !m.seenWindowSize || m.width < 20 || m.height < 6 {
		return "Loading…"
	}

	header := m.renderHeader()
	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		normalizePane(m.renderTree(), m.treeWidth(), m.bodyHeight()),
		normalizePane(" ", 1, m.bodyHeight()),
		normalizePane(m.reader.View(), m.readerWidth(), m.bodyHeight()),
	)
	footer := m.renderFooter()

	screen := header + "\n" + body + "\n" + footer

	if m.modal != modalNone {
		return m.placeCentered(m.renderModal())
	}
	return screen
}

func (m appModel) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("folio")
	where := styleMuted().Render(" " + m.tree.lib.LibraryDir)
	rule := styleMuted().Render(strings.Repeat(glyphHRule(), m.width))
	return normalizePane(title+where, m.width, 1) + "\n" + rule
}

func (m appModel) renderFooter() string {
	if m.flash != "" {
		st := styleMuted()
		if m.flashErr {
			st = lipgloss.NewStyle().Foreground(colorError)
		}
		return normalizePane(st.Render(m.flash), m.width, 1)
	}
	hint := "enter: open   space: fold   r: read/unread   a: add   ?: help   q: quit"
	return normalizePane(styleMuted().Render(hint), m.width, 1)
}

func (m appModel) renderTree() string {
	rows := m.tree.Rows()
	if len(rows) == 0 {
		return styleMuted().Render("Library is empty.\n\nPress a to add a document.")
	}

	width := m.treeWidth()
	cursor := m.tree.cursorIndex(rows)

	// Keep the cursor visible when the tree is taller than the pane.
	height := m.bodyHeight()
	top := 0
	if cursor >= 0 && cursor >= height {
		top = cursor - height + 1
	}
	if top > len(rows)-height {
		top = len(rows) - height
	}
	if top < 0 {
		top = 0
	}
	end := top + height
	if end > len(rows) {
		end = len(rows)
	}

	var b strings.Builder
	for i := top; i < end; i++ {
		if i > top {
			b.WriteString("\n")
		}
		b.WriteString(m.renderTreeRow(rows[i], i == cursor, width))
	}
	return b.String()
}

func (m appModel) renderTreeRow(row treeRow, selected bool, width int) string {
	indent := strings.Repeat("  ", row.depth)

	var marker, name string
	switch row.node.kind {
	case nodeCategory:
		if row.node.expanded {
			marker = glyphTwistyExpanded()
		} else {
			marker = glyphTwistyCollapsed()
		}
		name = row.node.name
		if !selected {
			name = lipgloss.NewStyle().Bold(true).Render(name)
		}
		if n := len(row.node.children); n > 0 && !row.node.expanded {
			name += styleMuted().Render(fmt.Sprintf(" (%d)", n))
		}
	default:
		if row.node.read {
			marker = lipgloss.NewStyle().Foreground(colorRead).Render(glyphRead())
		} else {
			marker = lipgloss.NewStyle().Foreground(colorUnread).Render(glyphUnread())
		}
		name = strings.TrimSuffix(row.node.name, ".md")
	}

	line := indent + marker + " " + name
	if selected {
		return lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(row.node.kind == nodeCategory).
			Render(normalizePane(line, width, 1))
	}
	return line
}

func (m appModel) renderModal() string {
	switch m.modal {
	case modalNewCategory:
		return renderInputModal(m.width, "New category", m.input.View(), "")
	case modalPickFile:
		body := m.picker.View() + "\n\n" +
			styleMuted().Render("enter: select file   s: import this folder   esc/ctrl+g: cancel")
		return renderModalBox(m.width, "Add to library", body)
	case modalPickAddCategory, modalPickMoveCategory:
		return renderModalBox(m.width, m.categoryList.Title,
			m.categoryList.View()+"\n\nenter: select   esc/ctrl+g: cancel")
	case modalConfirmDelete:
		name := m.modalForPath
		if n := m.tree.nodes[m.modalForPath]; n != nil {
			name = n.name
		}
		return renderConfirmModal(m.width, "Delete document",
			fmt.Sprintf("Delete %s from the library?", name),
			"Delete", "Cancel", m.confirmFocus)
	case modalMessage:
		return renderMessageModal(m.width, m.msgTitle, m.msgBody)
	case modalHelp:
		return renderModalBox(m.width, "Keys", helpText())
	}
	return ""
}

func (m appModel) placeCentered(content string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func helpText() string {
	lines := []string{
		"j/k, ↑/↓      move",
		"g/G           first/last row",
		"enter         open document / fold category",
		"space         fold category",
		"J/K           scroll reader by line",
		"ctrl+d/ctrl+u scroll reader by half page",
		"",
		"a             add file or folder",
		"n             new category",
		"m             move document to another category",
		"r             toggle read/unread",
		"D             delete document",
		"",
		"R             refresh from disk",
		".             show/hide hidden categories",
		"?             this help",
		"q             quit",
	}
	return strings.Join(lines, "\n")
}
