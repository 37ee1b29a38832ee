package diag

import (
	"fmt"
	"strings"
)

// FormatShort renders diagnostics one per line as
// "severity CODE path:line:col message", followed by note lines when
// includeNotes is set. Diagnostics must already be located and sorted.
func FormatShort(diags []Diagnostic, path string, includeNotes bool, resolve func(Note) (line, col uint32)) string {
	var b strings.Builder
	for i, d := range diags {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Severity.Label(), d.Code.ID(), path, d.Start.Line, d.Start.Col, sanitizeMessage(d.Message))
		if !includeNotes || resolve == nil {
			continue
		}
		for _, n := range d.Notes {
			line, col := resolve(n)
			fmt.Fprintf(&b, "\nnote %s %s:%d:%d %s", d.Code.ID(), path, line, col, sanitizeMessage(n.Msg))
		}
	}
	return b.String()
}

func sanitizeMessage(msg string) string {
	return strings.Join(strings.Fields(msg), " ")
}
