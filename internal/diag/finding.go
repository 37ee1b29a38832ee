package diag

import (
	"fmt"

	"pseudo/internal/source"
)

// Origin names the phase that produced a finding.
type Origin uint8

const (
	OriginLexer Origin = iota
	OriginParser
	// OriginSemantic is reserved; no phase produces it yet.
	OriginSemantic
)

func (o Origin) String() string {
	switch o {
	case OriginLexer:
		return "lexer"
	case OriginParser:
		return "parser"
	case OriginSemantic:
		return "semantic"
	}
	return "unknown"
}

// Finding is a raw observation of a phase, before the classifier assigns severity.
type Finding struct {
	Origin   Origin
	Code     Code
	Template string // fmt format with %s verbs, one per Args entry
	Args     []string
	Span     source.Span
	Proposed Severity
	Notes    []Note
}

// Message renders Template with Args.
func (f Finding) Message() string {
	if len(f.Args) == 0 {
		return f.Template
	}
	args := make([]any, len(f.Args))
	for i, a := range f.Args {
		args[i] = a
	}
	return fmt.Sprintf(f.Template, args...)
}
