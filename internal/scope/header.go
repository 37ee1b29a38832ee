package scope

import (
	"pseudo/internal/keywords"
	"pseudo/internal/token"
)

type termKind uint8

const (
	termLine  termKind = iota // header runs to the end of the line
	termBrace                 // '{'
	termWord                  // then / do / ':'
	termNone                  // body starts on the header line without a separator
)

type terminator struct {
	kind termKind
	idx  int
}

// header finds where the body of the construct or branch at i starts.
// Header tokens are marked consumed so keywords inside them ("do" in
// "while x do") never open constructs of their own.
func (d *detector) header(i int) (int, terminator) {
	c := d.toks[i].Concept

	if c == keywords.Else || c == keywords.Do {
		j := i + 1
		switch {
		case j >= d.n || !d.sameLine(i, j):
			return j, terminator{kind: termLine, idx: -1}
		case d.toks[j].IsPunct("{"):
			return d.consume(i, j+1), terminator{kind: termBrace, idx: j}
		case d.toks[j].IsPunct(":"):
			return d.consume(i, j+1), terminator{kind: termWord, idx: j}
		}
		return j, terminator{kind: termNone, idx: -1}
	}

	depth := 0
	j := i + 1
	for ; j < d.n && d.sameLine(i, j); j++ {
		t := d.toks[j]
		switch {
		case t.IsPunct("(") || t.IsPunct("["):
			depth++
			continue
		case t.IsPunct(")") || t.IsPunct("]"):
			if depth > 0 {
				depth--
			}
			continue
		case depth > 0:
			continue
		}
		switch {
		case t.IsPunct("{"):
			return d.consume(i, j+1), terminator{kind: termBrace, idx: j}
		case t.IsPunct(":"),
			t.Is(keywords.Then) && (c == keywords.If || c == keywords.ElseIf),
			t.Is(keywords.Do) && (c == keywords.While || c == keywords.For):
			return d.consume(i, j+1), terminator{kind: termWord, idx: j}
		case t.Kind == token.Keyword && keywords.IsCloser(t.Concept):
			return d.consume(i, j), terminator{kind: termNone, idx: -1}
		case t.Kind == token.Keyword && keywords.StartsStatement(t.Concept) && bodyMayStart(c, i, j):
			return d.consume(i, j), terminator{kind: termNone, idx: -1}
		}
	}
	return d.consume(i, j), terminator{kind: termLine, idx: -1}
}

// bodyMayStart reports whether a statement keyword at j ends the header of
// the construct at i. Declarations keep their name slot, so "function print()"
// names a function "print".
func bodyMayStart(c keywords.Concept, i, j int) bool {
	switch c {
	case keywords.FunctionDecl, keywords.ComponentDecl:
		return j > i+1
	default:
		return true
	}
}

func (d *detector) consume(i, end int) int {
	for k := i + 1; k < end && k < d.n; k++ {
		d.consumed[k] = true
	}
	return end
}
