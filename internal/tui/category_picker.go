package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type categoryItem struct {
	name string
	docs int
}

func (i categoryItem) Title() string {
	if i.docs == 1 {
		return fmt.Sprintf("%s (1 document)", i.name)
	}
	return fmt.Sprintf("%s (%d documents)", i.name, i.docs)
}

func (i categoryItem) FilterValue() string {
	return strings.ToLower(i.name)
}

type compactItemDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newCompactItemDelegate() compactItemDelegate {
	return compactItemDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d compactItemDelegate) Height() int  { return 1 }
func (d compactItemDelegate) Spacing() int { return 0 }
func (d compactItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d compactItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	style := d.normal
	if index == m.Index() {
		style = d.selected
	}

	txt := ""
	if t, ok := item.(interface{ Title() string }); ok {
		txt = t.Title()
	} else {
		txt = fmt.Sprint(item)
	}

	line := txt
	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Cut(line, 0, contentW)
	}

	fmt.Fprint(w, style.Render(line))
}

func newCategoryList() list.Model {
	l := list.New(nil, newCompactItemDelegate(), 0, 0)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowTitle(true)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	return l
}

// startCategoryPicker fills and sizes the picker. What "enter" does with the
// chosen category is decided by the modal kind the caller sets afterwards.
func (m *appModel) startCategoryPicker(title string) {
	counts := make(map[string]int)
	if docs, err := m.tree.lib.ListDocuments(""); err == nil {
		for _, d := range docs {
			counts[d.Category]++
		}
	}
	cats, err := m.tree.lib.ListCategories()
	if err != nil {
		cats = nil
	}

	items := make([]list.Item, 0, len(cats))
	for _, c := range cats {
		items = append(items, categoryItem{name: c, docs: counts[c]})
	}
	m.categoryList.Title = strings.TrimSpace(title)
	m.categoryList.SetItems(items)
	m.categoryList.Select(0)

	modalW := modalBoxWidth(m.width)
	h := len(cats) + 2
	if h > 18 {
		h = 18
	}
	if h < 8 {
		h = 8
	}
	m.categoryList.SetSize(modalW-6, h)
}

func (m *appModel) pickedCategory() (string, bool) {
	it, ok := m.categoryList.SelectedItem().(categoryItem)
	if !ok {
		return "", false
	}
	return it.name, true
}
