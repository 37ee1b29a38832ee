package lexer

import (
	"bytes"
	"fmt"

	"pseudo/internal/source"

	"fortio.org/safecast"
)

// Cursor представляет собой позицию в файле
type Cursor struct {
	File  *source.File
	Off   uint32
	Limit uint32 // exclusive upper bound for Off
}

// NewCursor creates a new cursor for the provided file.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{File: f, Limit: limit}
}

// EOF проверяет, достигнут ли конец файла
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Peek читает текущий байт, если есть, иначе возвращает 0
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// PeekAt читает байт со смещением n от текущей позиции, или 0 за пределами файла.
func (c *Cursor) PeekAt(n uint32) byte {
	if c.Off+n >= c.Limit {
		return 0
	}
	return c.File.Content[c.Off+n]
}

// Prev возвращает байт перед курсором, или 0 в начале файла.
func (c *Cursor) Prev() byte {
	if c.Off == 0 {
		return 0
	}
	return c.File.Content[c.Off-1]
}

// Bump перемещает курсор на один байт вперед и возвращает прочитанный байт
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	return b
}

// BumpN сдвигает курсор на n байт, не выходя за Limit.
func (c *Cursor) BumpN(n int) {
	un, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("bump overflow: %w", err))
	}
	c.Off = min(c.Off+un, c.Limit)
}

// Rest возвращает непрочитанный остаток файла.
func (c *Cursor) Rest() []byte {
	return c.File.Content[c.Off:c.Limit]
}

// HasPrefix reports whether the unread input starts with s.
func (c *Cursor) HasPrefix(s string) bool {
	return bytes.HasPrefix(c.Rest(), []byte(s))
}

// Eat consumes s if the unread input starts with it.
func (c *Cursor) Eat(s string) bool {
	if !c.HasPrefix(s) {
		return false
	}
	c.BumpN(len(s))
	return true
}

// Mark это метка, что бы быстро получать Span читаемого фрагмента
type Mark uint32

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom получает Span для фрагмента, начиная с метки
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}
