package fuzztests

import (
	"testing"

	"pseudo/internal/diag"
	"pseudo/internal/lexer"
	"pseudo/internal/source"
	"pseudo/internal/testkit"
)

// FuzzLexerTokens checks that the full token stream tiles the input:
// tokens are contiguous, non-empty and end exactly at the end of the file.
func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.pseudo", input)
		file := fs.Get(fileID)

		col := &diag.Collector{Max: 256}
		toks := lexer.Tokenize(file, lexer.Options{Reporter: col})
		if err := testkit.CheckTokens(toks, file); err != nil {
			t.Fatal(err)
		}
		for _, fd := range col.Findings {
			if fd.Span.End > file.Size() || fd.Span.Start > fd.Span.End {
				t.Fatalf("finding %s has span %v outside the file", fd.Code.ID(), fd.Span)
			}
		}
	})
}
