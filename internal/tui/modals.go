package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

// modalBoxWidth returns the outer width of a modal for the given terminal width.
func modalBoxWidth(termW int) int {
	w := termW - 8
	if w > 72 {
		w = 72
	}
	if w < 30 {
		w = 30
	}
	return w
}

// modalBodyWidth is the usable content width inside the modal box
// (border + horizontal padding on both sides).
func modalBodyWidth(termW int) int {
	return modalBoxWidth(termW) - 6
}

func renderModalBox(termW int, title string, content string) string {
	boxW := modalBoxWidth(termW)
	bodyW := modalBodyWidth(termW)

	header := lipgloss.NewStyle().
		Width(bodyW).
		Padding(0, 1).
		Bold(true).
		Foreground(colorModalHeaderFg).
		Background(colorModalHeaderBg).
		Render(title)

	body := lipgloss.NewStyle().
		Width(bodyW).
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorSurfaceBg).
		Render(content)

	return lipgloss.NewStyle().
		Width(boxW).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		Render(header + "\n\n" + body)
}

func renderConfirmModal(termW int, title string, body string, confirmLabel string, cancelLabel string, focus confirmModalFocus) string {
	// Avoid borders on the buttons: some terminals show background artifacts when
	// nesting bordered components inside a modal with a background color.
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorAccentFg).
		Background(colorAccent).
		Bold(true)

	confirm := btnBase.Render(confirmLabel)
	cancel := btnBase.Render(cancelLabel)
	if focus == confirmFocusConfirm {
		confirm = btnActive.Render(confirmLabel)
	}
	if focus == confirmFocusCancel {
		cancel = btnActive.Render(cancelLabel)
	}

	sep := lipgloss.NewStyle().Background(colorControlBg).Render(" ")
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, sep, cancel)

	bodyW := modalBodyWidth(termW)
	help := styleMuted().Width(bodyW).Render("tab: focus   enter: select   esc/ctrl+g: cancel")

	content := strings.Join([]string{
		body,
		"",
		controls,
		"",
		help,
	}, "\n")
	return renderModalBox(termW, title, content)
}

func renderInputModal(termW int, title string, inputView string, help string) string {
	bodyW := modalBodyWidth(termW)
	if help == "" {
		help = "enter: confirm   esc/ctrl+g: cancel"
	}
	content := strings.Join([]string{
		renderInputLine(bodyW, inputView),
		"",
		styleMuted().Width(bodyW).Render(help),
	}, "\n")
	return renderModalBox(termW, title, content)
}

func renderMessageModal(termW int, title string, body string) string {
	bodyW := modalBodyWidth(termW)
	content := strings.Join([]string{
		body,
		"",
		styleMuted().Width(bodyW).Render("enter/esc: close"),
	}, "\n")
	return renderModalBox(termW, title, content)
}
