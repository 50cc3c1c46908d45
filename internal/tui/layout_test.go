package tui

import (
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"
)

func TestNormalizePane_WidthAndHeight(t *testing.T) {
	t.Parallel()

	got := normalizePane("ab\nlonger than ten cols", 10, 4)
	lines := strings.Split(got, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines; got %d", len(lines))
	}
	for i, ln := range lines {
		if w := xansi.StringWidth(ln); w != 10 {
			t.Fatalf("line %d width = %d; want 10", i, w)
		}
	}
	if !strings.HasSuffix(lines[1], "…") {
		t.Fatalf("overflowing line should be cut with an ellipsis; got %q", lines[1])
	}
}

func TestNormalizePane_TruncatesExtraLines(t *testing.T) {
	t.Parallel()

	got := normalizePane("a\nb\nc", 3, 2)
	if lines := strings.Split(got, "\n"); len(lines) != 2 {
		t.Fatalf("expected 2 lines; got %d", len(lines))
	}
}
