package diag

import (
	"pseudo/internal/source"
)

type Note struct {
	Span source.Span `json:"span"`
	Msg  string      `json:"message"`
}

// Diagnostic is a classified finding ready to be published.
// Start and End are filled by Locate; Classify leaves them zero.
type Diagnostic struct {
	Span     source.Span    `json:"span"`
	Start    source.LineCol `json:"start"`
	End      source.LineCol `json:"end"`
	Severity Severity       `json:"severity"`
	Code     Code           `json:"code"`
	Message  string         `json:"message"`
	Notes    []Note         `json:"notes,omitempty"`
}

// Locate fills line/column positions of diags from file.
func Locate(file *source.File, diags []Diagnostic) {
	if file == nil {
		return
	}
	for i := range diags {
		diags[i].Start, diags[i].End = file.Resolve(diags[i].Span)
	}
}

// HasErrors reports whether any diagnostic is an error.
func HasErrors(diags []Diagnostic) bool {
	for i := range diags {
		if diags[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics with severity sev.
func Count(diags []Diagnostic, sev Severity) int {
	n := 0
	for i := range diags {
		if diags[i].Severity == sev {
			n++
		}
	}
	return n
}
