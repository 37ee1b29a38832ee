package lexer

import (
	"pseudo/internal/diag"
	"pseudo/internal/token"
)

// atString reports whether a string literal starts at the cursor.
// A quote right after an identifier is an apostrophe ("user's"), not a string.
func (lx *Lexer) atString() bool {
	switch lx.cursor.Peek() {
	case '"', '`':
		return true
	case '\'':
		return !lx.prevIsIdent()
	}
	return false
}

// scanString сканирует "...", '...', `...` и """...""".
// Однострочные строки обрываются на переводе строки: ошибочный токен
// заканчивается перед '\n', следующие строки лексятся как обычно.
// Многострочные ("""...""" и `...`) при отсутствии закрытия идут до EOF.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()

	if lx.cursor.Eat(`"""`) {
		for !lx.cursor.EOF() {
			if lx.cursor.Eat(`"""`) {
				return lx.stringToken(start, false)
			}
			lx.cursor.Bump()
		}
		return lx.unterminatedString(start, `"""`)
	}

	quote := lx.cursor.Bump()
	multiline := quote == '`'
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == quote:
			lx.cursor.Bump()
			return lx.stringToken(start, false)
		case b == '\\' && !multiline:
			// грубая обработка escape: съесть '\' и следующий байт, если это не перевод строки
			lx.cursor.Bump()
			if lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		case b == '\n' && !multiline:
			return lx.unterminatedString(start, string(quote))
		default:
			lx.cursor.Bump()
		}
	}
	return lx.unterminatedString(start, string(quote))
}

func (lx *Lexer) stringToken(start Mark, bad bool) token.Token {
	tok := lx.emit(token.Literal, start)
	tok.Lit = token.LitString
	if bad {
		tok.Flags |= token.FlagError
	}
	return tok
}

func (lx *Lexer) unterminatedString(start Mark, quote string) token.Token {
	tok := lx.stringToken(start, true)
	lx.report(diag.LexUnterminatedString, diag.SevError, tok.Span,
		"unterminated string literal: missing closing %s", quote)
	return tok
}
