package tui

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// debugLogf appends a timestamped line to the file named by FOLIO_TUI_DEBUG_LOG.
// It is a no-op unless the user provided a log path; failures are swallowed since
// diagnostics must never take down the TUI.
func debugLogf(format string, args ...any) {
	path := strings.TrimSpace(os.Getenv("FOLIO_TUI_DEBUG_LOG"))
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "%s %s\n", time.Now().Format("15:04:05.000"), fmt.Sprintf(format, args...))
}
