// Package diag defines findings, diagnostics and the severity policy shared
// by the lexer, the parser and every consumer.
//
// # Data model
//
// A Finding is what a phase observed: origin, numeric Code, a message
// template with arguments, a span and a proposed severity. Phases emit
// findings through a Reporter and never decide final severity.
//
// Classify turns findings into Diagnostics by a fixed table: only an
// unterminated string (LEX1002) or block comment (LEX1003) is an error,
// everything else is a warning, including codes the table does not know.
// The classifier never escalates on context. Its output is sorted and
// deduplicated, so it is stable across runs.
//
// Codes have a stable string form (Code.ID): LEX1xxx for the lexer,
// SYN2xxx for the parser, SEM3xxx reserved for future semantic checks.
//
// # Scope
//
// Package diag does not format for terminals or perform IO. Rendering
// lives in internal/diagfmt; FormatShort is the one plain-text form kept
// here because golden tests in several packages share it.
package diag
