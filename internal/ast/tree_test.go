package ast_test

import (
	"strings"
	"testing"

	"pseudo/internal/ast"
	"pseudo/internal/keywords"
	"pseudo/internal/source"
)

// build: Program { VarDecl x [BinaryExpr add [1, 2]] }
func build() (*ast.Tree, map[string]ast.NodeID) {
	t := ast.NewTree(0)
	ids := map[string]ast.NodeID{}
	ids["root"] = t.New(ast.KindProgram, source.Span{Start: 0, End: 20})
	t.Root = ids["root"]
	ids["var"] = t.New(ast.KindVarDecl, source.Span{Start: 0, End: 14})
	t.Get(ids["var"]).Name = "x"
	ids["bin"] = t.New(ast.KindBinaryExpr, source.Span{Start: 8, End: 14})
	t.Get(ids["bin"]).Op = keywords.Add
	ids["lhs"] = t.New(ast.KindLiteral, source.Span{Start: 8, End: 9})
	t.Get(ids["lhs"]).Text = "1"
	ids["rhs"] = t.New(ast.KindLiteral, source.Span{Start: 13, End: 14})
	t.Get(ids["rhs"]).Text = "2"
	t.Push(ids["bin"], ids["lhs"])
	t.Push(ids["bin"], ids["rhs"])
	t.Push(ids["var"], ids["bin"])
	t.Push(ids["root"], ids["var"])
	return t, ids
}

func TestParents(t *testing.T) {
	tree, ids := build()
	parents := tree.Parents()
	if got := parents.Parent(ids["lhs"]); got != ids["bin"] {
		t.Fatalf("parent(lhs) = %d, want %d", got, ids["bin"])
	}
	if got := parents.Parent(ids["root"]); got.IsValid() {
		t.Fatalf("root has parent %d", got)
	}
	chain := parents.Ancestors(ids["rhs"])
	if len(chain) != 3 || chain[2] != ids["root"] {
		t.Fatalf("ancestors = %v", chain)
	}
}

func TestNodeAt(t *testing.T) {
	tree, ids := build()
	cases := []struct {
		off  uint32
		want string
	}{
		{8, "lhs"},
		{11, "bin"},
		{3, "var"},
		{18, "root"},
	}
	for _, tc := range cases {
		if got := tree.NodeAt(tc.off); got != ids[tc.want] {
			t.Fatalf("NodeAt(%d) = %d, want %s", tc.off, got, tc.want)
		}
	}
	if got := tree.NodeAt(40); got.IsValid() {
		t.Fatalf("NodeAt past end = %d", got)
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	tree, _ := build()
	var kinds []string
	ast.Walk(tree, tree.Root, func(_ ast.NodeID, n *ast.Node) bool {
		kinds = append(kinds, n.Kind.String())
		return n.Kind != ast.KindBinaryExpr
	})
	if got := strings.Join(kinds, ","); got != "Program,VarDecl,BinaryExpr" {
		t.Fatalf("walk order = %s", got)
	}
}

func TestDump(t *testing.T) {
	tree, _ := build()
	var sb strings.Builder
	if err := ast.Dump(&sb, tree); err != nil {
		t.Fatal(err)
	}
	want := "Program\n  VarDecl x\n    BinaryExpr add\n      Literal 1\n      Literal 2\n"
	if sb.String() != want {
		t.Fatalf("dump:\n%s\nwant:\n%s", sb.String(), want)
	}
}
