package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"pseudo/internal/ast"
	"pseudo/internal/source"
)

// ASTNodeOutput is one node of the json tree dump.
type ASTNodeOutput struct {
	Kind     string          `json:"kind"`
	Name     string          `json:"name,omitempty"`
	Op       string          `json:"op,omitempty"`
	Text     string          `json:"text,omitempty"`
	Style    string          `json:"style,omitempty"`
	Loop     string          `json:"loop,omitempty"`
	Closed   *bool           `json:"closed,omitempty"`
	Flags    []string        `json:"flags,omitempty"`
	Span     source.Span     `json:"span"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

type treeNode struct {
	label    string
	children []*treeNode
}

func nodeFlags(n *ast.Node) []string {
	var out []string
	for _, f := range [...]struct {
		flag ast.Flags
		name string
	}{
		{ast.FlagPostTest, "post-test"},
		{ast.FlagNegated, "negated"},
		{ast.FlagInline, "inline"},
		{ast.FlagPostfix, "postfix"},
		{ast.FlagConst, "const"},
	} {
		if n.Has(f.flag) {
			out = append(out, f.name)
		}
	}
	return out
}

func hasStyle(k ast.Kind) bool {
	switch k {
	case ast.KindFunctionDecl, ast.KindComponentDecl, ast.KindIfStmt, ast.KindForStmt, ast.KindWhileStmt:
		return true
	}
	return false
}

func buildASTJSON(tree *ast.Tree, id ast.NodeID) ASTNodeOutput {
	n := tree.Get(id)
	if n == nil {
		return ASTNodeOutput{Kind: "<nil>"}
	}
	out := ASTNodeOutput{
		Kind:  n.Kind.String(),
		Name:  n.Name,
		Text:  n.Text,
		Flags: nodeFlags(n),
		Span:  n.Span,
	}
	if n.Op != 0 {
		out.Op = n.Op.String()
	}
	if hasStyle(n.Kind) {
		out.Style = n.Style.String()
	}
	if n.Kind == ast.KindForStmt {
		out.Loop = n.For.String()
	}
	if n.Kind == ast.KindBlock {
		closed := n.Closed
		out.Closed = &closed
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, buildASTJSON(tree, c))
	}
	return out
}

// FormatASTJSON writes the tree under root as nested json objects.
func FormatASTJSON(w io.Writer, tree *ast.Tree, root ast.NodeID) error {
	if tree == nil || !root.IsValid() {
		return fmt.Errorf("empty tree")
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildASTJSON(tree, root))
}

func buildTreeNode(tree *ast.Tree, id ast.NodeID, file *source.File) *treeNode {
	n := tree.Get(id)
	if n == nil {
		return &treeNode{label: "<nil>"}
	}
	node := &treeNode{label: fmt.Sprintf("%s (span: %s)", ast.Describe(n), formatSpan(n.Span, file))}
	for _, c := range n.Children {
		node.children = append(node.children, buildTreeNode(tree, c, file))
	}
	return node
}

// FormatASTPretty writes the tree as an outline with box-drawing branches.
// file may be nil; spans are then printed as byte offsets.
func FormatASTPretty(w io.Writer, tree *ast.Tree, root ast.NodeID, file *source.File) error {
	if tree == nil || !root.IsValid() {
		return fmt.Errorf("empty tree")
	}
	var sb strings.Builder
	top := buildTreeNode(tree, root, file)
	sb.WriteString(top.label)
	sb.WriteByte('\n')
	writeChildren(&sb, top.children, "")
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeChildren(sb *strings.Builder, children []*treeNode, prefix string) {
	for i, c := range children {
		branch, next := "├─ ", "│  "
		if i == len(children)-1 {
			branch, next = "└─ ", "   "
		}
		sb.WriteString(prefix)
		sb.WriteString(branch)
		sb.WriteString(c.label)
		sb.WriteByte('\n')
		writeChildren(sb, c.children, prefix+next)
	}
}

func formatSpan(span source.Span, file *source.File) string {
	if file != nil {
		start, end := file.Resolve(span)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}
