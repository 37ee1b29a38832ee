package fuzztests

import (
	"context"
	"reflect"
	"testing"
	"time"

	"pseudo/internal/analysis"
	"pseudo/internal/testkit"
)

// parseTimeout is the maximum time allowed for analyzing a single input.
// If analysis takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

// FuzzAnalyzeBuildsProgram checks that any input yields a Program root whose
// node spans stay inside the file, and that analysis is deterministic.
func FuzzAnalyzeBuildsProgram(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		text := string(clampInput(input))

		res := analysis.Analyze(text, 1, analysis.Options{MaxFindings: 128})
		if err := testkit.CheckTree(res.Tree, res.Root, res.File); err != nil {
			t.Fatal(err)
		}
		size := res.File.Size()
		for _, d := range res.Diagnostics {
			if d.Span.End > size || d.Start.Line == 0 {
				t.Fatalf("diagnostic %s at %v is not located", d.Code.ID(), d.Span)
			}
		}

		again := analysis.Analyze(text, 1, analysis.Options{MaxFindings: 128})
		if !reflect.DeepEqual(res.Diagnostics, again.Diagnostics) {
			t.Fatalf("analysis is not deterministic:\n%+v\n%+v", res.Diagnostics, again.Diagnostics)
		}
	})
}

// FuzzParserNoHang tests that analysis doesn't hang on any input.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)

	// Add specific edge cases around recovery
	f.Add([]byte("function test() var x to 1"))                // missing closer at end of file
	f.Add([]byte("if x then if y then if z then"))              // nested openers without closers
	f.Add([]byte("}}}} end end endif endwhile"))                // stray closers
	f.Add([]byte("while while while do do do"))                 // repeated openers
	f.Add([]byte("x = ((((((((1"))                              // unbalanced parens
	f.Add([]byte("repeat\n  print 1\nuntil"))                   // until without condition
	f.Add([]byte("function f() {\n  if a {\n} else if {\n}\n")) // empty else-if condition

	f.Fuzz(func(t *testing.T, input []byte) {
		text := string(clampInput(input))

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			res := analysis.Analyze(text, 1, analysis.Options{})
			// completion over the same tree must terminate as well
			for _, off := range []uint32{0, res.File.Size() / 2, res.File.Size()} {
				_ = res.CompleteAt(off)
			}
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("analysis hang detected: took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
