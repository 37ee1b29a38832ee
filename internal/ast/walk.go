package ast

import (
	"fmt"
	"io"
	"strings"
)

// Walk visits id and its descendants in pre-order. Returning false from fn
// skips the children of that node.
func Walk(t *Tree, id NodeID, fn func(id NodeID, n *Node) bool) {
	n := t.Get(id)
	if n == nil {
		return
	}
	if !fn(id, n) {
		return
	}
	// fn may allocate; re-read children through the tree
	for i := 0; i < len(t.Get(id).Children); i++ {
		Walk(t, t.Get(id).Children[i], fn)
	}
}

// ParentIndex maps a node to its parent. The root maps to NoNodeID.
type ParentIndex []NodeID

// Parents builds the parent relation for the whole tree.
func (t *Tree) Parents() ParentIndex {
	idx := make(ParentIndex, t.Len()+1)
	for i, n := range t.Nodes.Slice() {
		parent := NodeID(i + 1) // #nosec G115
		for _, c := range n.Children {
			if c.IsValid() && int(c) < len(idx) {
				idx[c] = parent
			}
		}
	}
	return idx
}

func (p ParentIndex) Parent(id NodeID) NodeID {
	if int(id) >= len(p) {
		return NoNodeID
	}
	return p[id]
}

// Ancestors returns the chain from the parent of id up to the root.
func (p ParentIndex) Ancestors(id NodeID) []NodeID {
	var out []NodeID
	for cur := p.Parent(id); cur.IsValid(); cur = p.Parent(cur) {
		out = append(out, cur)
	}
	return out
}

// NodeAt returns the innermost node whose span contains off. A span end
// counts as inside, so a cursor right after a word still hits it.
func (t *Tree) NodeAt(off uint32) NodeID {
	best := NoNodeID
	Walk(t, t.Root, func(id NodeID, n *Node) bool {
		if off < n.Span.Start || off > n.Span.End {
			return false
		}
		best = id
		return true
	})
	return best
}

// Dump writes an indented outline of the tree, one node per line.
func Dump(w io.Writer, t *Tree) error {
	var sb strings.Builder
	var rec func(id NodeID, depth int)
	rec = func(id NodeID, depth int) {
		sb.WriteString(strings.Repeat("  ", depth))
		n := t.Get(id)
		if n == nil {
			sb.WriteString("-\n")
			return
		}
		sb.WriteString(Describe(n))
		sb.WriteByte('\n')
		for _, c := range n.Children {
			rec(c, depth+1)
		}
	}
	if t.Root.IsValid() {
		rec(t.Root, 0)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Describe renders the header line of a node without its children.
func Describe(n *Node) string {
	var sb strings.Builder
	sb.WriteString(n.Kind.String())
	if n.Name != "" {
		fmt.Fprintf(&sb, " %s", n.Name)
	}
	switch n.Kind {
	case KindLiteral:
		fmt.Fprintf(&sb, " %s", n.Text)
	case KindBinaryExpr, KindUnaryExpr:
		if n.Op == 0 {
			sb.WriteString(" index")
			break
		}
		fmt.Fprintf(&sb, " %s", n.Op)
		if n.Has(FlagPostfix) {
			sb.WriteString(" postfix")
		}
	case KindCallExpr:
		if n.Op != 0 {
			fmt.Fprintf(&sb, " %s", n.Op)
		}
	case KindUnknown:
		fmt.Fprintf(&sb, " %q", n.Text)
	case KindForStmt:
		fmt.Fprintf(&sb, " %s", n.For)
	}
	switch n.Kind {
	case KindFunctionDecl, KindComponentDecl, KindIfStmt, KindForStmt, KindWhileStmt:
		fmt.Fprintf(&sb, " [%s]", n.Style)
	}
	if n.Has(FlagInline) {
		sb.WriteString(" inline")
	}
	if n.Has(FlagPostTest) {
		sb.WriteString(" post")
	}
	if n.Has(FlagNegated) {
		sb.WriteString(" until")
	}
	if !n.Closed {
		sb.WriteString(" unclosed")
	}
	return sb.String()
}
