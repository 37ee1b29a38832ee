package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid is never produced by the lexer; it marks a zero Token.
	Invalid Kind = iota
	// Keyword is a registered keyword surface resolved to a concept.
	Keyword
	// Ident is any other word.
	Ident
	// Literal is a number, string or literal word (true, none, ...).
	Literal
	// SymOp is a symbolic operator such as ">=" or "<-".
	SymOp
	// NatOp is a natural-language operator such as "is greater than".
	NatOp
	// Comment is a line or block comment of any supported syntax.
	Comment
	// Punct is a bracket, separator, or an unrecognized character.
	Punct
	// Space is a run of spaces and tabs.
	Space
	// Newline is a single '\n'.
	Newline
)

var kindNames = [...]string{
	Invalid: "Invalid",
	Keyword: "Keyword",
	Ident:   "Ident",
	Literal: "Literal",
	SymOp:   "SymOp",
	NatOp:   "NatOp",
	Comment: "Comment",
	Punct:   "Punct",
	Space:   "Space",
	Newline: "Newline",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// LitKind refines Literal tokens.
type LitKind uint8

const (
	LitNone LitKind = iota
	LitNumber
	LitString
	LitBool
	LitNull
)

func (k LitKind) String() string {
	switch k {
	case LitNumber:
		return "number"
	case LitString:
		return "string"
	case LitBool:
		return "bool"
	case LitNull:
		return "null"
	default:
		return ""
	}
}

// Flags carries per-token lexical facts.
type Flags uint8

const (
	// FlagError marks an unterminated string or block comment.
	FlagError Flags = 1 << iota
	// FlagLineStart marks the first significant token of a line.
	FlagLineStart
	// FlagBlockComment marks a comment that may span lines.
	FlagBlockComment
)
