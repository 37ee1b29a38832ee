package diag

import (
	"testing"

	"pseudo/internal/source"
)

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("sample.pseudo", []byte("a\nb\n")))

	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     LexUnterminatedString,
			Message:  "first line\nsecond",
			Span:     source.Span{Start: 0, End: 1},
			Notes:    []Note{{Span: source.Span{Start: 2, End: 3}, Msg: "note line"}},
		},
		{
			Severity: SevWarning,
			Code:     SynMissingCloser,
			Message:  "another",
			Span:     source.Span{Start: 2, End: 3},
		},
	}
	Locate(file, diags)
	resolve := func(n Note) (uint32, uint32) {
		pos := file.Position(n.Span.Start)
		return pos.Line, pos.Col
	}

	expected := "error LEX1002 sample.pseudo:1:1 first line second\n" +
		"note LEX1002 sample.pseudo:2:1 note line\n" +
		"warning SYN2002 sample.pseudo:2:1 another"

	if got := FormatShort(diags, "sample.pseudo", true, resolve); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}
