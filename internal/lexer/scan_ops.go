package lexer

import (
	"unicode"
	"unicode/utf8"

	"pseudo/internal/diag"
	"pseudo/internal/token"
)

// scanOperatorOrPunct: сначала самый длинный символьный оператор из реестра,
// затем пунктуация, затем любой другой символ как одиночный Punct.
// Управляющие байты и битый UTF-8 коалесцируются и дают предупреждение.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	if concept, n := lx.reg.MatchSymbol(lx.cursor.Rest()); n > 0 {
		lx.cursor.BumpN(n)
		tok := lx.emit(token.SymOp, start)
		tok.Concept = concept
		return tok
	}

	if lx.isBadRune() {
		for !lx.cursor.EOF() && lx.isBadRune() {
			lx.bumpRune()
		}
		tok := lx.emit(token.Punct, start)
		lx.report(diag.LexUnknownChar, diag.SevWarning, tok.Span, "unknown character %s", quoteBytes(tok.Text))
		return tok
	}

	lx.bumpRune()
	return lx.emit(token.Punct, start)
}

func (lx *Lexer) isBadRune() bool {
	r, sz := lx.peekRune()
	if sz == 0 {
		return false
	}
	if r == utf8.RuneError && sz <= 1 {
		return true
	}
	return unicode.IsControl(r) && r != '\n' && !isSpace(lx.cursor.Peek())
}

func quoteBytes(s string) string {
	const hex = "0123456789ABCDEF"
	out := make([]byte, 0, len(s)*4)
	for i := 0; i < len(s); i++ {
		b := s[i]
		out = append(out, '\\', 'x', hex[b>>4], hex[b&0xF])
	}
	return string(out)
}
