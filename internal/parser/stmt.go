package parser

import (
	"pseudo/internal/ast"
	"pseudo/internal/diag"
	"pseudo/internal/keywords"
	"pseudo/internal/token"
)

// parseStmt выбирает распознаватель по первому токену.
func (p *Parser) parseStmt() ast.NodeID {
	tok := p.at()
	if c := p.sc.Construct(p.pos); c != nil {
		return p.parseConstruct(c)
	}
	if tok.IsPunct("}") {
		p.report(diag.SynStrayCloser, tok.Span, "'}' without an open block")
		p.advance()
		return ast.NoNodeID
	}
	if tok.Kind != token.Keyword {
		return p.parseExprStmt()
	}

	switch tok.Concept {
	case keywords.VarDecl:
		return p.parseVarDecl()
	case keywords.Return:
		return p.parseReturn()
	case keywords.Break, keywords.Continue:
		p.advance()
		kind := ast.KindBreakStmt
		if tok.Is(keywords.Continue) {
			kind = ast.KindContinueStmt
		}
		return p.tree.New(kind, tok.Span)
	case keywords.Output, keywords.Input:
		return p.parseBuiltin()
	}
	if keywords.IsCloser(tok.Concept) {
		p.report(diag.SynStrayCloser, tok.Span, "'%s' without an open block", tok.Text)
		p.advance()
		return ast.NoNodeID
	}
	return p.unexpected()
}

func (p *Parser) parseExprStmt() ast.NodeID {
	start := p.pos
	x := p.parseExpr()
	if !x.IsValid() {
		if p.pos == start {
			return p.wrapUnknown()
		}
		return ast.NoNodeID
	}
	id := p.tree.New(ast.KindExprStmt, p.tree.Get(x).Span)
	p.tree.Get(id).Children = []ast.NodeID{x}
	return id
}

// parseVarDecl: var x [: type | as type] [to|= init]
func (p *Parser) parseVarDecl() ast.NodeID {
	kw := p.advance()
	start := p.pos - 1
	name := ""
	if p.at().Kind == token.Ident {
		name = p.advance().Text
	} else {
		p.report(diag.SynExpectIdentifier, p.curSpan(), "expected variable name after '%s'", kw.Text)
	}
	// type annotations are prose; skip them up to the initializer
	for !p.atStmtEnd() && !p.at().Is(keywords.Assign) {
		p.advance()
	}
	init := ast.NoNodeID
	if p.eat(keywords.Assign) {
		saved := p.noAssign
		p.noAssign = true
		init = p.parseExpr()
		p.noAssign = saved
	}
	id := p.tree.New(ast.KindVarDecl, p.span(start, p.pos))
	n := p.tree.Get(id)
	n.Name = name
	n.Text = kw.Text
	if keywords.Fold(kw.Text) == "const" {
		n.Flags |= ast.FlagConst
	}
	n.Children = []ast.NodeID{init}
	return id
}

func (p *Parser) parseReturn() ast.NodeID {
	start := p.pos
	p.advance()
	value := ast.NoNodeID
	if !p.atStmtEnd() {
		value = p.parseExpr()
	}
	id := p.tree.New(ast.KindReturnStmt, p.span(start, p.pos))
	p.tree.Get(id).Children = []ast.NodeID{value}
	return id
}

// parseBuiltin parses "print a, b" / "read x" into a call of the builtin.
func (p *Parser) parseBuiltin() ast.NodeID {
	start := p.pos
	kw := p.advance()
	callee := p.tree.New(ast.KindIdent, kw.Span)
	p.tree.Get(callee).Name = kw.Text
	p.tree.Get(callee).Op = kw.Concept

	var args []ast.NodeID
	for !p.atStmtEnd() {
		before := p.pos
		if arg := p.parseExpr(); arg.IsValid() {
			args = append(args, arg)
		} else if p.pos == before {
			break
		}
		if !p.eatPunct(",") {
			break
		}
	}
	call := p.call(callee, args, p.span(start, p.pos))
	p.tree.Get(call).Op = kw.Concept
	id := p.tree.New(ast.KindExprStmt, p.tree.Get(call).Span)
	p.tree.Get(id).Children = []ast.NodeID{call}
	return id
}
