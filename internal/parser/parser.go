package parser

import (
	"pseudo/internal/ast"
	"pseudo/internal/diag"
	"pseudo/internal/scope"
	"pseudo/internal/source"
	"pseudo/internal/token"
)

type Options struct {
	Reporter diag.Reporter
	// MaxFindings caps the findings reported by one parse; 0 means unlimited.
	MaxFindings uint
}

type Result struct {
	Tree *ast.Tree
	Root ast.NodeID
	// Truncated is set when MaxFindings suppressed further findings.
	Truncated bool
}

// Parser хранит состояние разбора одного файла.
type Parser struct {
	file  *source.File
	sc    *scope.Result
	toks  []token.Token // значимые токены из scope.Result
	tree  *ast.Tree
	opts  Options
	pos   int
	limit int // tokens at or past limit are out of reach of the current block

	findings  uint
	truncated bool

	// expression modes
	cond      bool // '=' means equality
	noAssign  bool // stop before any assignment operator (range headers)
	parenDeep int  // expressions may cross lines inside parentheses
}

// Parse builds a tree from the significant tokens of sc. It never fails:
// whatever cannot be parsed ends up in Unknown nodes.
func Parse(file *source.File, sc *scope.Result, opts Options) Result {
	if sc == nil {
		sc = scope.Detect(nil)
	}
	p := &Parser{
		file:  file,
		sc:    sc,
		toks:  sc.Tokens,
		tree:  ast.NewTree(uint(len(sc.Tokens))),
		opts:  opts,
		limit: len(sc.Tokens),
	}

	var span source.Span
	if file != nil {
		span = source.Span{File: file.ID, Start: 0, End: file.Size()}
	} else if len(p.toks) > 0 {
		span = p.toks[0].Span.Cover(p.toks[len(p.toks)-1].Span)
	}
	root := p.tree.New(ast.KindProgram, span)
	p.tree.Root = root
	for _, id := range p.parseStmts(len(p.toks)) {
		p.tree.Push(root, id)
	}
	return Result{Tree: p.tree, Root: root, Truncated: p.truncated}
}

// parseStmts parses statements up to end (exclusive) and leaves pos at end.
func (p *Parser) parseStmts(end int) []ast.NodeID {
	saved := p.limit
	p.limit = min(end, saved)
	defer func() { p.limit = saved }()

	var out []ast.NodeID
	for p.pos < p.limit {
		start := p.pos
		if p.at().IsPunct(";") {
			p.pos++
			continue
		}
		if id := p.parseStmt(); id.IsValid() {
			out = append(out, id)
		}
		if p.pos == start {
			// защита от зацикливания
			out = append(out, p.unexpected())
			continue
		}
		if id := p.stmtEnd(); id.IsValid() {
			out = append(out, id)
		}
	}
	p.pos = max(p.pos, p.limit)
	return out
}
