package lexer

import (
	"testing"

	"pseudo/internal/source"
)

// helper function to create a file
func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.pseudo", []byte(content))
	return fs.Get(id)
}

// TestSequentialReading проверяет последовательное чтение: "a\nb" → a, \n, b, EOF
func TestSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\nb"))
	for _, want := range []byte{'a', '\n', 'b'} {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := cursor.Bump(); got != want {
			t.Fatalf("Bump() = %q, want %q", got, want)
		}
	}
	if !cursor.EOF() || cursor.Peek() != 0 || cursor.Bump() != 0 {
		t.Fatalf("expected EOF behaviour at end")
	}
}

func TestPeekAtAndPrev(t *testing.T) {
	cursor := NewCursor(createFile("abc"))
	if cursor.Prev() != 0 {
		t.Fatalf("Prev at start must be 0")
	}
	if cursor.PeekAt(2) != 'c' || cursor.PeekAt(3) != 0 {
		t.Fatalf("PeekAt misbehaves")
	}
	cursor.Bump()
	if cursor.Prev() != 'a' {
		t.Fatalf("Prev = %q", cursor.Prev())
	}
}

func TestEatPrefix(t *testing.T) {
	cursor := NewCursor(createFile("<!-- x -->"))
	if cursor.Eat("<--") {
		t.Fatalf("Eat must fail on mismatch")
	}
	if cursor.Off != 0 {
		t.Fatalf("failed Eat moved the cursor")
	}
	if !cursor.Eat("<!--") || cursor.Peek() != ' ' {
		t.Fatalf("Eat(<!--) failed")
	}
	cursor.BumpN(100)
	if !cursor.EOF() {
		t.Fatalf("BumpN must clamp at limit")
	}
}

// TestMarkReset проверяет работу Mark и Reset
func TestMarkReset(t *testing.T) {
	cursor := NewCursor(createFile("α\nβ"))
	mark := cursor.Mark()
	cursor.BumpN(2)
	span := cursor.SpanFrom(mark)
	if span.Start != 0 || span.End != 2 {
		t.Fatalf("span = %v", span)
	}
	cursor.Reset(mark)
	if cursor.Off != 0 {
		t.Fatalf("Reset did not rewind")
	}
}
