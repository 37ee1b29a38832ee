package testkit_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pseudo/internal/analysis"
	"pseudo/internal/ast"
	"pseudo/internal/source"
	"pseudo/internal/testkit"
)

func TestSamplesHoldInvariants(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "testdata", "samples", "*.pseudo"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Skip("no samples")
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			data, err := os.ReadFile(path) // #nosec G304 -- fixed testdata location
			if err != nil {
				t.Fatal(err)
			}
			res := analysis.Analyze(string(data), 0, analysis.Options{Name: path})
			if err := testkit.CheckTokens(res.Tokens, res.File); err != nil {
				t.Fatalf("tokens: %v", err)
			}
			if err := testkit.CheckTree(res.Tree, res.Root, res.File); err != nil {
				t.Fatalf("tree: %v", err)
			}
		})
	}
}

func TestCheckTreeRejectsBrokenTrees(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.pseudo", []byte("print 1")))

	cases := []struct {
		name  string
		build func(tree *ast.Tree) ast.NodeID
		want  string
	}{
		{"not a program", func(tree *ast.Tree) ast.NodeID {
			return tree.New(ast.KindBlock, source.Span{End: 7})
		}, "want Program"},
		{"short root", func(tree *ast.Tree) ast.NodeID {
			return tree.New(ast.KindProgram, source.Span{End: 3})
		}, "does not cover"},
		{"shared child", func(tree *ast.Tree) ast.NodeID {
			root := tree.New(ast.KindProgram, source.Span{End: 7})
			child := tree.New(ast.KindIdent, source.Span{Start: 6, End: 7})
			tree.Push(root, child)
			tree.Push(root, child)
			return root
		}, "reachable twice"},
		{"span out of file", func(tree *ast.Tree) ast.NodeID {
			root := tree.New(ast.KindProgram, source.Span{End: 7})
			tree.Push(root, tree.New(ast.KindIdent, source.Span{Start: 6, End: 9}))
			return root
		}, "outside"},
		{"dangling child", func(tree *ast.Tree) ast.NodeID {
			root := tree.New(ast.KindProgram, source.Span{End: 7})
			tree.Push(root, ast.NodeID(42))
			return root
		}, "dangling"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tree := ast.NewTree(0)
			root := tc.build(tree)
			err := testkit.CheckTree(tree, root, file)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestCheckTokensRejectsGaps(t *testing.T) {
	res := analysis.Analyze("print 1", 0, analysis.Options{})
	toks := append(res.Tokens[:0:0], res.Tokens...)
	if err := testkit.CheckTokens(toks, res.File); err != nil {
		t.Fatalf("valid stream rejected: %v", err)
	}
	if err := testkit.CheckTokens(toks[1:], res.File); err == nil {
		t.Fatal("stream with a gap accepted")
	}
	if err := testkit.CheckTokens(toks[:len(toks)-1], res.File); err == nil {
		t.Fatal("short stream accepted")
	}
}
