package lexer

import (
	"unicode"
	"unicode/utf8"
)

const utf8RuneSelf = 0x80

// ===== Работа с рунами поверх Cursor =====

// peekRune читает текущую руну; size == 0 на EOF.
func (lx *Lexer) peekRune() (r rune, size int) {
	if lx.cursor.EOF() {
		return utf8.RuneError, 0
	}
	b := lx.cursor.Peek()
	if b < utf8.RuneSelf { // fast-path ASCII
		return rune(b), 1
	}
	return utf8.DecodeRune(lx.cursor.Rest())
}

// bumpRune перемещает курсор на размер текущей руны (минимум один байт)
func (lx *Lexer) bumpRune() {
	_, sz := lx.peekRune()
	if sz == 0 {
		return
	}
	lx.cursor.BumpN(sz)
}

func (lx *Lexer) startsIdentRune() bool {
	r, sz := lx.peekRune()
	return sz > 0 && r != utf8.RuneError && isIdentStartRune(r)
}

// prevIsIdent reports whether the rune before the cursor continues an identifier.
func (lx *Lexer) prevIsIdent() bool {
	if lx.cursor.Off == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRune(lx.file.Content[:lx.cursor.Off])
	return isIdentContinueRune(r)
}

// ===== Классификаторы =====

// ASCII fast-path для идентификаторов; Unicode: через isIdentStartRune/Continue.
func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || (b >= '0' && b <= '9')
}

func isIdentStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinueRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\f' || b == '\v'
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'f') ||
		(b >= 'A' && b <= 'F')
}

// Проверка для кейса ".5": текущая точка, дальше цифра?
func (lx *Lexer) isNumberAfterDot() bool {
	return lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1))
}
