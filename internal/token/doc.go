// Package token defines the lexical tokens of pseudocode sources.
// Invariants:
//   - The token stream of a file covers every byte exactly once: spans are
//     non-empty, contiguous and non-overlapping. Whitespace, newlines and
//     comments are kept as trivia kinds rather than dropped.
//   - Token.Text is the exact source slice of Token.Span.
//   - Keyword, NatOp, SymOp and word literals carry the canonical
//     keywords.Concept; the surface spelling is only kept in Text.
//   - A multi-word surface ("end if", "is greater than") is one token whose
//     span includes the inner whitespace.
package token
