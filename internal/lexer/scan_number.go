package lexer

import (
	"pseudo/internal/diag"
	"pseudo/internal/token"
)

// Поддержка: 0, 1_000, 0x1F, 1.5, .5, 1e-3, 2.5E+10.
// Экспонента съедается только если за ней есть цифра, иначе "e": начало слова.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	if lx.cursor.Peek() == '0' && (lx.cursor.PeekAt(1) == 'x' || lx.cursor.PeekAt(1) == 'X') {
		lx.cursor.BumpN(2)
		digits := 0
		for isHex(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
			digits++
		}
		tok := lx.numberToken(start)
		if digits == 0 {
			lx.report(diag.LexBadNumber, diag.SevWarning, tok.Span, "hex literal %s has no digits", tok.Text)
		}
		return tok
	}

	// десятичная целая часть (может быть пустой для ".5")
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}

	// дробная часть только если после точки цифра: "1.x": это 1, '.', x
	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
	}

	// экспонента
	if e := lx.cursor.Peek(); e == 'e' || e == 'E' {
		n := uint32(1)
		if s := lx.cursor.PeekAt(1); s == '+' || s == '-' {
			n = 2
		}
		if isDec(lx.cursor.PeekAt(n)) {
			lx.cursor.BumpN(int(n))
			for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
				lx.cursor.Bump()
			}
		}
	}

	return lx.numberToken(start)
}

func (lx *Lexer) numberToken(start Mark) token.Token {
	tok := lx.emit(token.Literal, start)
	tok.Lit = token.LitNumber
	return tok
}
