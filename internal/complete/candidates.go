package complete

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"pseudo/internal/ast"
	"pseudo/internal/keywords"
	"pseudo/internal/scope"
	"pseudo/internal/snippets"
	"pseudo/internal/token"
)

// fuzzyMinPrefix is the shortest prefix that enables fuzzy containment.
const fuzzyMinPrefix = 2

type keywordFilter func(g keywords.Group) bool

func statementKeyword(g keywords.Group) bool {
	return g.Class == keywords.ClassKeyword
}

func expressionKeyword(g keywords.Group) bool {
	return g.Class == keywords.ClassLiteral || g.Class == keywords.ClassOperator
}

// keywordItems offers one item per concept with a surface starting with
// prefix; the label is the first such surface in registration order.
func keywordItems(reg *keywords.Registry, prefix string, keep keywordFilter) []Item {
	folded := keywords.Fold(prefix)
	var items []Item
	for _, g := range reg.Groups() {
		if !keep(g) {
			continue
		}
		for _, s := range g.Surfaces {
			if !isWordSurface(s) || !strings.HasPrefix(keywords.Fold(s), folded) {
				continue
			}
			items = append(items, Item{
				Label:   s,
				Kind:    KindKeyword,
				Detail:  g.Concept.String(),
				Insert:  s,
				Concept: g.Concept,
				order:   reg.Order(g.Concept),
			})
			break
		}
	}
	return items
}

func isWordSurface(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLetter(r) || r == '_'
}

func snippetItems(lib *snippets.Library, prefix string) []Item {
	var items []Item
	for _, s := range lib.All() {
		trigger, ok := s.Trigger(prefix)
		fuzzyHit := false
		if !ok && len(prefix) >= fuzzyMinPrefix {
			for _, p := range s.Prefixes {
				if fuzzy.MatchFold(prefix, p) {
					trigger, fuzzyHit = p, true
					break
				}
			}
		}
		if !ok && !fuzzyHit {
			continue
		}
		items = append(items, Item{
			Label:        trigger,
			Kind:         KindSnippet,
			Detail:       s.Name,
			Insert:       s.Body,
			Snippet:      true,
			Placeholders: s.Placeholder,
			Fuzzy:        fuzzyHit,
			order:        s.Order,
		})
	}
	return items
}

// matchName reports whether name matches prefix exactly (by prefix) or fuzzily.
func matchName(prefix, name string) (ok, fuzzyHit bool) {
	if prefix == "" || strings.HasPrefix(keywords.Fold(name), keywords.Fold(prefix)) {
		return true, false
	}
	if len(prefix) >= fuzzyMinPrefix && fuzzy.MatchFold(prefix, name) {
		return true, true
	}
	return false, false
}

type decl struct {
	name string
	kind Kind
	id   ast.NodeID
}

// variableItems offers names visible at offset: the innermost scope first,
// declarations before the cursor, functions and components anywhere.
func variableItems(tree *ast.Tree, offset uint32, ctx site, lay layout) []Item {
	if tree == nil || !tree.Root.IsValid() || strings.ContainsAny(ctx.prefix, " \t") {
		return nil
	}
	parents := tree.Parents()
	inner := tree.NodeAt(offset)
	if !inner.IsValid() {
		inner = tree.Root
	}
	if open := lay.openBody(tree, offset); open.IsValid() && (open == inner || slices.Contains(parents.Ancestors(open), inner)) {
		inner = open
	}
	if body := bodyBefore(tree, inner, offset); body.IsValid() {
		inner = body
	}
	chain := append([]ast.NodeID{inner}, parents.Ancestors(inner)...)

	seen := make(map[string]struct{})
	var items []Item
	for _, scopeID := range chain {
		for _, d := range declsIn(tree, scopeID, offset) {
			if _, dup := seen[d.name]; dup || d.name == "" {
				continue
			}
			seen[d.name] = struct{}{}
			ok, fz := matchName(ctx.prefix, d.name)
			if !ok {
				continue
			}
			items = append(items, Item{
				Label:  d.name,
				Kind:   d.kind,
				Detail: tree.Kind(d.id).String(),
				Insert: d.name,
				Fuzzy:  fz,
				order:  len(items),
			})
		}
	}
	return items
}

// bodyBefore returns the last block child of id starting at or before
// offset. Block spans end at their last statement, so a cursor on a blank
// line before the closer still belongs to the body.
func bodyBefore(tree *ast.Tree, id ast.NodeID, offset uint32) ast.NodeID {
	n := tree.Get(id)
	if n == nil || n.Kind == ast.KindBlock || n.Kind == ast.KindProgram {
		return ast.NoNodeID
	}
	found := ast.NoNodeID
	for _, c := range n.Children {
		if b := tree.Get(c); b != nil && b.Kind == ast.KindBlock && b.Span.Start <= offset {
			found = c
		}
	}
	return found
}

// lineHead is the first significant token of a line, at a tree offset.
type lineHead struct {
	off    uint32
	indent int
}

// layout describes the lines before the cursor: where each starts in the
// tree and how deep the cursor line is indented.
type layout struct {
	heads  []lineHead
	indent int
}

func newLayout(tokens []token.Token, offset uint32, treeOff func(uint32) uint32) layout {
	var lay layout
	lineStart := 0
	for i, t := range tokens {
		if t.Span.Start >= offset {
			break
		}
		if t.Kind == token.Newline {
			lineStart = i + 1
			continue
		}
		if t.LineStart() {
			lay.heads = append(lay.heads, lineHead{off: treeOff(t.Span.Start), indent: t.Indent})
		}
	}
	for _, t := range tokens[lineStart:] {
		if t.Span.Start >= offset {
			break
		}
		if t.Kind != token.Space {
			lay.indent = t.Indent
			return lay
		}
		for _, r := range t.Text[:min(len(t.Text), int(offset-t.Span.Start))] {
			if r == '\t' {
				lay.indent += 4
			} else {
				lay.indent++
			}
		}
	}
	return lay
}

// headIndent returns the indent of the line holding off.
func (l layout) headIndent(off uint32) int {
	indent := 0
	for _, h := range l.heads {
		if h.off > off {
			break
		}
		indent = h.indent
	}
	return indent
}

// openBody returns the innermost indentation block the cursor line still
// belongs to: it is indented deeper than the block's header and no line
// between the block's end and the cursor went back to the header's depth.
// Such a cursor sits past the span of the block, on a blank line.
func (l layout) openBody(tree *ast.Tree, offset uint32) ast.NodeID {
	found := ast.NoNodeID
	ast.Walk(tree, tree.Root, func(id ast.NodeID, n *ast.Node) bool {
		if n.Span.Start >= offset {
			return false
		}
		if n.Style != scope.Indentation || n.Kind == ast.KindBlock || n.Has(ast.FlagInline) {
			return true
		}
		header := l.headIndent(n.Span.Start)
		if l.indent <= header {
			return true
		}
		for _, h := range l.heads {
			if h.off >= n.Span.End && h.off < offset && h.indent <= header {
				return true
			}
		}
		found = id
		return true
	})
	return found
}

// declsIn lists the names a node makes visible to code inside it at offset.
func declsIn(tree *ast.Tree, id ast.NodeID, offset uint32) []decl {
	n := tree.Get(id)
	if n == nil {
		return nil
	}
	var out []decl
	switch n.Kind {
	case ast.KindFunctionDecl:
		for _, c := range n.Children {
			if p := tree.Get(c); p != nil && p.Kind == ast.KindParam {
				out = append(out, decl{name: p.Name, kind: KindVariable, id: c})
			}
		}
	case ast.KindForStmt:
		if n.Name != "" {
			out = append(out, decl{name: n.Name, kind: KindVariable, id: id})
		} else if name := assignTarget(tree, n.Child(0)); name != "" {
			out = append(out, decl{name: name, kind: KindVariable, id: id})
		}
	case ast.KindProgram, ast.KindBlock:
		for _, c := range n.Children {
			out = append(out, stmtDecl(tree, c, offset)...)
		}
	}
	return out
}

func stmtDecl(tree *ast.Tree, id ast.NodeID, offset uint32) []decl {
	n := tree.Get(id)
	if n == nil {
		return nil
	}
	switch n.Kind {
	case ast.KindFunctionDecl:
		return []decl{{name: n.Name, kind: KindFunction, id: id}}
	case ast.KindComponentDecl:
		return []decl{{name: n.Name, kind: KindComponent, id: id}}
	}
	// variables are visible once declared
	if n.Span.End >= offset {
		return nil
	}
	switch n.Kind {
	case ast.KindVarDecl:
		return []decl{{name: n.Name, kind: KindVariable, id: id}}
	case ast.KindExprStmt:
		if name := assignTarget(tree, n.Child(0)); name != "" {
			return []decl{{name: name, kind: KindVariable, id: id}}
		}
	}
	return nil
}

// assignTarget returns x for an expression of the form "x = ...".
func assignTarget(tree *ast.Tree, id ast.NodeID) string {
	x := tree.Get(id)
	if x == nil || x.Kind != ast.KindBinaryExpr || x.Op != keywords.Assign {
		return ""
	}
	if lhs := tree.Get(x.Child(0)); lhs != nil && lhs.Kind == ast.KindIdent {
		return lhs.Name
	}
	return ""
}
