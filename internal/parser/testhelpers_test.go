package parser_test

import (
	"fmt"
	"strings"
	"testing"

	"pseudo/internal/ast"
	"pseudo/internal/diag"
	"pseudo/internal/lexer"
	"pseudo/internal/parser"
	"pseudo/internal/scope"
	"pseudo/internal/source"
)

type parsed struct {
	res      parser.Result
	findings []diag.Finding
	dump     string
	size     uint32
}

func parse(t *testing.T, input string) parsed {
	t.Helper()
	return parseWith(t, input, parser.Options{})
}

func parseWith(t *testing.T, input string, opts parser.Options) parsed {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.pseudo", []byte(input)))
	col := &diag.Collector{}
	toks := lexer.Tokenize(file, lexer.Options{Reporter: col})
	opts.Reporter = col
	res := parser.Parse(file, scope.Detect(toks), opts)
	var sb strings.Builder
	if err := ast.Dump(&sb, res.Tree); err != nil {
		t.Fatalf("dump: %v", err)
	}
	return parsed{res: res, findings: col.Findings, dump: sb.String(), size: file.Size()}
}

func findingsSummary(fs []diag.Finding) string {
	if len(fs) == 0 {
		return "<none>"
	}
	lines := make([]string, len(fs))
	for i, f := range fs {
		lines[i] = fmt.Sprintf("[%s] %s", f.Code.ID(), f.Message())
	}
	return strings.Join(lines, "; ")
}

// top returns the i-th statement of the program.
func (p parsed) top(i int) *ast.Node {
	return p.res.Tree.Get(p.res.Tree.Get(p.res.Root).Child(i))
}
