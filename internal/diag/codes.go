package diag

import (
	"fmt"
	"strconv"
)

type Code uint16

const (
	// Неизвестный код - классифицируется как предупреждение
	UnknownCode Code = 0
	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004

	// Парсерные
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynMissingCloser    Code = 2002
	SynStrayCloser      Code = 2003
	SynUnclosedParen    Code = 2004
	SynExpectExpression Code = 2005
	SynExpectIdentifier Code = 2006
	SynForBadHeader     Code = 2007
	SynMissingCondition Code = 2008
	SynTooManyFindings  Code = 2009
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed number literal",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynMissingCloser:            "Missing block closer",
	SynStrayCloser:              "Closer without an open block",
	SynUnclosedParen:            "Unclosed parenthesis",
	SynExpectExpression:         "Expected expression",
	SynExpectIdentifier:         "Expected identifier",
	SynForBadHeader:             "Malformed loop header",
	SynMissingCondition:         "Missing condition",
	SynTooManyFindings:          "Too many findings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// MarshalText encodes the stable string id ("LEX1002").
func (c Code) MarshalText() ([]byte, error) {
	return []byte(c.ID()), nil
}

// UnmarshalText parses an id produced by MarshalText.
func (c *Code) UnmarshalText(b []byte) error {
	s := string(b)
	if s == "E0000" {
		*c = UnknownCode
		return nil
	}
	if len(s) != 7 {
		return fmt.Errorf("diag: bad code %q", s)
	}
	n, err := strconv.ParseUint(s[3:], 10, 16)
	if err != nil {
		return fmt.Errorf("diag: bad code %q: %w", s, err)
	}
	parsed := Code(n)
	if parsed.ID() != s {
		return fmt.Errorf("diag: bad code prefix %q", s)
	}
	*c = parsed
	return nil
}
