package lexer

import (
	"unicode"
	"unicode/utf8"

	"pseudo/internal/keywords"
	"pseudo/internal/token"
)

// scanWordEnd returns the end offset of the identifier-like word starting at off.
// An apostrophe between letters stays in the word: "user's", "don't".
func (lx *Lexer) scanWordEnd(off uint32) uint32 {
	content := lx.file.Content[:lx.cursor.Limit]
	start := off
	for int(off) < len(content) {
		b := content[off]
		if b == '\'' && off > start && lx.letterAt(off+1) {
			off++
			continue
		}
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) {
				break
			}
			off++
			continue
		}
		r, sz := utf8.DecodeRune(content[off:])
		if r == utf8.RuneError || !isIdentContinueRune(r) {
			break
		}
		off += uint32(sz) // #nosec G115 -- sz <= utf8.UTFMax
	}
	return off
}

// scanWord сканирует слово и пытается сопоставить его (и следующие слова
// той же строки) с фразой из реестра. Совпадение точное после свёртки регистра;
// "functional" остаётся идентификатором.
func (lx *Lexer) scanWord() token.Token {
	start := lx.cursor.Mark()
	firstEnd := lx.scanWordEnd(lx.cursor.Off)

	// границы слов фразы: ends[i] это конец i-го слова
	ends := []uint32{firstEnd}
	words := []string{keywords.Fold(string(lx.file.Content[start:firstEnd]))}
	next := func(i int) (string, bool) {
		for len(words) <= i {
			off := ends[len(ends)-1]
			// между словами только пробелы и табы
			gap := off
			for gap < lx.cursor.Limit && (lx.file.Content[gap] == ' ' || lx.file.Content[gap] == '\t') {
				gap++
			}
			if gap == off || gap >= lx.cursor.Limit {
				return "", false
			}
			b := lx.file.Content[gap]
			if !isIdentStartByte(b) && b < utf8RuneSelf {
				return "", false
			}
			end := lx.scanWordEnd(gap)
			if end == gap {
				return "", false
			}
			ends = append(ends, end)
			words = append(words, keywords.Fold(string(lx.file.Content[gap:end])))
		}
		return words[i], true
	}

	concept, n, ok := lx.reg.MatchWords(next)
	if !ok {
		lx.cursor.Off = firstEnd
		return lx.emit(token.Ident, start)
	}
	lx.cursor.Off = ends[n-1]
	tok := lx.emit(token.Ident, start)
	tok.Concept = concept
	switch lx.reg.ClassOf(concept) {
	case keywords.ClassOperator:
		tok.Kind = token.NatOp
	case keywords.ClassLiteral:
		tok.Kind = token.Literal
		if concept == keywords.Null {
			tok.Lit = token.LitNull
		} else {
			tok.Lit = token.LitBool
		}
	default:
		tok.Kind = token.Keyword
	}
	return tok
}

// letterAt reports whether a letter starts at off.
func (lx *Lexer) letterAt(off uint32) bool {
	content := lx.file.Content[:lx.cursor.Limit]
	if int(off) >= len(content) {
		return false
	}
	r, _ := utf8.DecodeRune(content[off:])
	return r != utf8.RuneError && unicode.IsLetter(r)
}
