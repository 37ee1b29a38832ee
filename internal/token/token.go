package token

import (
	"pseudo/internal/keywords"
	"pseudo/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind    Kind
	Concept keywords.Concept
	Lit     LitKind
	Text    string
	Span    source.Span
	Pos     source.LineCol
	// Indent is the width of the leading whitespace of the token's line (tab = 4).
	Indent int
	Flags  Flags
}

// IsTrivia reports whether the token carries no syntax (space, newline, comment).
func (t Token) IsTrivia() bool {
	switch t.Kind {
	case Space, Newline, Comment:
		return true
	default:
		return false
	}
}

// IsOperator reports whether the token is a symbolic or natural-language operator.
func (t Token) IsOperator() bool {
	return t.Kind == SymOp || t.Kind == NatOp
}

// Is reports whether the token resolved to concept c.
func (t Token) Is(c keywords.Concept) bool {
	return t.Concept == c && t.Concept != keywords.None
}

// IsPunct reports whether the token is the punctuation text p.
func (t Token) IsPunct(p string) bool {
	return t.Kind == Punct && t.Text == p
}

// IsError reports whether the lexer flagged the token as unterminated.
func (t Token) IsError() bool { return t.Flags&FlagError != 0 }

// LineStart reports whether the token is the first significant token of its line.
func (t Token) LineStart() bool { return t.Flags&FlagLineStart != 0 }

// IsLiteral reports whether the token is a literal.
func (t Token) IsLiteral() bool { return t.Kind == Literal }

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// Significant returns the non-trivia tokens of toks, in order.
func Significant(toks []Token) []Token {
	out := make([]Token, 0, len(toks)/2+1)
	for _, t := range toks {
		if !t.IsTrivia() {
			out = append(out, t)
		}
	}
	return out
}
