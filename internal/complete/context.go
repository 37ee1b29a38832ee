package complete

import (
	"sort"
	"unicode"
	"unicode/utf8"

	"pseudo/internal/keywords"
	"pseudo/internal/token"
)

type site struct {
	prefix    string // partial word before the cursor
	start     uint32 // offset where prefix begins
	stmtStart bool
	inert     bool // inside a comment or string
}

func classify(tokens []token.Token, offset uint32) site {
	ctx := site{start: offset}
	idx := sort.Search(len(tokens), func(i int) bool { return tokens[i].Span.End >= offset })
	from := idx // first token to inspect when looking back for a separator
	if idx < len(tokens) && tokens[idx].Span.Start < offset {
		tok := tokens[idx]
		if insideInert(tok, offset) {
			return site{start: offset, inert: true}
		}
		if isWordToken(tok) {
			// phrase tokens ("end for") complete as a whole
			ctx.prefix = tok.Text[:offset-tok.Span.Start]
			ctx.start = tok.Span.Start
			from = idx - 1
		}
	} else {
		from = idx - 1
	}
	ctx.stmtStart = atStatementStart(tokens, from)
	return ctx
}

// WordStart returns the offset where the word under the cursor begins, the
// start of the range a completion replaces.
func WordStart(tokens []token.Token, offset uint32) uint32 {
	return classify(tokens, offset).start
}

func insideInert(tok token.Token, offset uint32) bool {
	switch {
	case tok.Kind == token.Comment:
		if offset < tok.Span.End || tok.IsError() {
			return true
		}
		// line comments run to the end of the line
		return tok.Flags&token.FlagBlockComment == 0
	case tok.Kind == token.Literal && tok.Lit == token.LitString:
		return offset < tok.Span.End || tok.IsError()
	}
	return false
}

func isWordToken(tok token.Token) bool {
	switch tok.Kind {
	case token.Ident, token.Keyword:
		return true
	case token.NatOp, token.Literal:
		r, _ := utf8.DecodeRuneInString(tok.Text)
		return unicode.IsLetter(r) || r == '_'
	}
	return false
}

// atStatementStart walks back from tokens[i] over trivia: a newline or the
// start of input, or a block separator, means a statement may begin here.
func atStatementStart(tokens []token.Token, i int) bool {
	for ; i >= 0; i-- {
		t := tokens[i]
		switch t.Kind {
		case token.Space:
			continue
		case token.Comment:
			if t.Flags&token.FlagBlockComment == 0 {
				return true
			}
			continue
		case token.Newline:
			return true
		}
		return isSeparator(t)
	}
	return true
}

func isSeparator(t token.Token) bool {
	if t.Kind == token.Punct {
		switch t.Text {
		case "{", "}", ";", ":":
			return true
		}
		return false
	}
	return t.Kind == token.Keyword && (t.Is(keywords.Then) || t.Is(keywords.Do) || t.Is(keywords.Else))
}
