package lexer

import (
	"pseudo/internal/diag"
	"pseudo/internal/token"
)

// blockComment is one recognized block comment bracket pair.
type blockComment struct {
	open, close string
	// needSpace requires whitespace after open, so "{-1}" stays code.
	needSpace bool
}

// Порядок важен: сначала длинные открывающие последовательности.
var blockComments = []blockComment{
	{open: "--[[", close: "]]"},
	{open: "<!--", close: "-->"},
	{open: "/*", close: "*/"},
	{open: "(*", close: "*)"},
	{open: "{-", close: "-}", needSpace: true},
}

// scanSpace коалесцирует пробелы и табы в один токен.
func (lx *Lexer) scanSpace() token.Token {
	start := lx.cursor.Mark()
	for isSpace(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return lx.emit(token.Space, start)
}

// atComment reports whether a comment of any supported syntax starts at the cursor.
func (lx *Lexer) atComment() bool {
	return lx.matchBlockComment() != nil || lx.lineCommentLen() > 0
}

func (lx *Lexer) matchBlockComment() *blockComment {
	for i := range blockComments {
		bc := &blockComments[i]
		if !lx.cursor.HasPrefix(bc.open) {
			continue
		}
		if bc.needSpace {
			next := lx.cursor.PeekAt(uint32(len(bc.open)))
			if next != 0 && !isSpace(next) && next != '\n' {
				continue
			}
		}
		return bc
	}
	return nil
}

// lineCommentLen returns the opener length of a line comment at the cursor, or 0.
// "--" only counts between whitespace so "x--" and "a--b" stay operators.
func (lx *Lexer) lineCommentLen() int {
	switch {
	case lx.cursor.HasPrefix("//"):
		return 2
	case lx.cursor.Peek() == '#':
		return 1
	case lx.cursor.HasPrefix("--"):
		prev := lx.cursor.Prev()
		if prev != 0 && !isSpace(prev) && prev != '\n' {
			return 0
		}
		next := lx.cursor.PeekAt(2)
		if next != 0 && !isSpace(next) && next != '\n' {
			return 0
		}
		return 2
	}
	return 0
}

// scanComment consumes a line or block comment. An unterminated block
// comment runs to EOF and is flagged.
func (lx *Lexer) scanComment() token.Token {
	start := lx.cursor.Mark()
	if bc := lx.matchBlockComment(); bc != nil {
		lx.cursor.BumpN(len(bc.open))
		for !lx.cursor.EOF() {
			if lx.cursor.Eat(bc.close) {
				tok := lx.emit(token.Comment, start)
				tok.Flags |= token.FlagBlockComment
				return tok
			}
			lx.cursor.Bump()
		}
		tok := lx.emit(token.Comment, start)
		tok.Flags |= token.FlagBlockComment | token.FlagError
		lx.report(diag.LexUnterminatedBlockComment, diag.SevError, tok.Span,
			"unterminated block comment: missing %s", bc.close)
		return tok
	}

	lx.cursor.BumpN(lx.lineCommentLen())
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
	return lx.emit(token.Comment, start)
}
