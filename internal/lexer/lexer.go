package lexer

import (
	"pseudo/internal/keywords"
	"pseudo/internal/source"
	"pseudo/internal/token"
)

const tabWidth = 4

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	reg    *keywords.Registry

	lineStart  bool // ещё не было значимого токена на текущей строке
	lineIndent int
}

func New(file *source.File, opts Options) *Lexer {
	reg := opts.Registry
	if reg == nil {
		reg = keywords.Default()
	}
	lx := &Lexer{
		file:      file,
		cursor:    NewCursor(file),
		opts:      opts,
		reg:       reg,
		lineStart: true,
	}
	lx.lineIndent = lx.measureIndent()
	return lx
}

// Tokenize returns the full token stream of file, trivia included.
// It never fails: malformed input becomes error-flagged tokens plus findings.
func Tokenize(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	out := make([]token.Token, 0, len(file.Content)/3+1)
	for {
		tok, ok := lx.Next()
		if !ok {
			return out
		}
		out = append(out, tok)
	}
}

// Next возвращает следующий токен, включая trivia.
// После конца файла возвращает false.
func (lx *Lexer) Next() (token.Token, bool) {
	if lx.cursor.EOF() {
		return token.Token{}, false
	}

	start := lx.cursor.Mark()
	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case ch == '\n':
		lx.cursor.Bump()
		tok = lx.emit(token.Newline, start)
	case isSpace(ch):
		tok = lx.scanSpace()
	case lx.atComment():
		tok = lx.scanComment()
	case isIdentStartByte(ch):
		tok = lx.scanWord()
	case ch >= utf8RuneSelf && lx.startsIdentRune():
		tok = lx.scanWord()
	case isDec(ch), ch == '.' && lx.isNumberAfterDot():
		tok = lx.scanNumber()
	case lx.atString():
		tok = lx.scanString()
	default:
		tok = lx.scanOperatorOrPunct()
	}

	// позиция и отступ строки
	tok.Pos = lx.file.Position(tok.Span.Start)
	tok.Indent = lx.lineIndent
	switch {
	case tok.Kind == token.Newline:
		lx.lineStart = true
		lx.lineIndent = lx.measureIndent()
	case !tok.IsTrivia() && lx.lineStart:
		tok.Flags |= token.FlagLineStart
		lx.lineStart = false
	}
	return tok, true
}

func (lx *Lexer) emit(kind token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// measureIndent считает ширину ведущих пробелов строки, начинающейся с курсора.
func (lx *Lexer) measureIndent() int {
	width := 0
	for i := lx.cursor.Off; i < lx.cursor.Limit; i++ {
		switch lx.file.Content[i] {
		case ' ':
			width++
		case '\t':
			width += tabWidth
		default:
			return width
		}
	}
	return width
}
