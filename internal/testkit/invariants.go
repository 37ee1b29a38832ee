package testkit

import (
	"fmt"

	"pseudo/internal/ast"
	"pseudo/internal/source"
	"pseudo/internal/token"
)

// CheckTokens verifies that a full token stream tiles the file: every
// token is non-empty, starts where the previous one ended, carries the
// text of its span, and the last one ends at the end of the file.
func CheckTokens(toks []token.Token, file *source.File) error {
	if file == nil {
		return fmt.Errorf("nil file")
	}
	var off uint32
	for i, tok := range toks {
		if tok.Span.Start != off {
			return fmt.Errorf("token %d %v starts at %d, want %d", i, tok.Kind, tok.Span.Start, off)
		}
		if tok.Span.Empty() {
			return fmt.Errorf("token %d %v is empty", i, tok.Kind)
		}
		if tok.Span.End > file.Size() {
			return fmt.Errorf("token %d ends at %d beyond %d bytes", i, tok.Span.End, file.Size())
		}
		if tok.Text != string(file.Content[tok.Span.Start:tok.Span.End]) {
			return fmt.Errorf("token %d text %q does not match its span %v", i, tok.Text, tok.Span)
		}
		off = tok.Span.End
	}
	if off != file.Size() {
		return fmt.Errorf("tokens end at %d, file has %d bytes", off, file.Size())
	}
	return nil
}

// CheckTree runs the structural invariants of a parse:
// 1) root is a Program spanning the whole file
// 2) every child id resolves and each node has at most one parent
// 3) every span is ordered and within the file
func CheckTree(tree *ast.Tree, root ast.NodeID, file *source.File) error {
	if tree == nil || file == nil {
		return fmt.Errorf("nil tree or file")
	}
	r := tree.Get(root)
	if r == nil {
		return fmt.Errorf("root %d not found", root)
	}
	if r.Kind != ast.KindProgram {
		return fmt.Errorf("root kind is %v, want Program", r.Kind)
	}
	if r.Span.Start != 0 || r.Span.End != file.Size() {
		return fmt.Errorf("root span %v does not cover %d bytes", r.Span, file.Size())
	}

	seen := make(map[ast.NodeID]struct{}, tree.Len())
	stack := []ast.NodeID{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, dup := seen[id]; dup {
			return fmt.Errorf("node %d is reachable twice", id)
		}
		seen[id] = struct{}{}
		n := tree.Get(id)
		if n.Span.Start > n.Span.End || n.Span.End > file.Size() {
			return fmt.Errorf("node %d (%v) span %v outside %d bytes", id, n.Kind, n.Span, file.Size())
		}
		for _, c := range n.Children {
			if !c.IsValid() {
				continue // optional child slot
			}
			if tree.Get(c) == nil {
				return fmt.Errorf("node %d (%v) has dangling child %d", id, n.Kind, c)
			}
			stack = append(stack, c)
		}
	}
	return nil
}
