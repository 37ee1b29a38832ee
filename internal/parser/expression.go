package parser

import (
	"pseudo/internal/ast"
	"pseudo/internal/diag"
	"pseudo/internal/keywords"
	"pseudo/internal/source"
	"pseudo/internal/token"
)

// parseExpr - главная точка входа для парсинга выражений.
func (p *Parser) parseExpr() ast.NodeID {
	return p.parseBinaryExpr(0)
}

// parseCond parses a condition; '=' there means equality.
func (p *Parser) parseCond() ast.NodeID {
	saved := p.cond
	p.cond = true
	defer func() { p.cond = saved }()
	return p.parseExpr()
}

// parseOperand parses an expression that stops before assignment
// operators, so "to" can separate range bounds.
func (p *Parser) parseOperand() ast.NodeID {
	saved := p.noAssign
	p.noAssign = true
	defer func() { p.noAssign = saved }()
	return p.parseExpr()
}

// parseBinaryExpr реализует Pratt parsing для бинарных операторов.
func (p *Parser) parseBinaryExpr(minPrec int) ast.NodeID {
	left := p.parseUnaryExpr()
	if !left.IsValid() {
		return ast.NoNodeID
	}
	for !p.done() {
		tok := p.at()
		if tok.LineStart() && p.parenDeep == 0 {
			break
		}
		if tok.IsOperator() && (tok.Is(keywords.Inc) || tok.Is(keywords.Dec)) {
			p.advance()
			left = p.unary(tok, left, ast.FlagPostfix)
			continue
		}
		if tok.IsPunct("[") {
			left = p.parseIndex(left)
			continue
		}
		op, prec, rightAssoc := p.binaryOp(tok)
		if prec < 0 || prec < minPrec {
			break
		}
		p.advance()
		next := prec + 1
		if rightAssoc {
			next = prec
		}
		right := p.parseBinaryExpr(next)
		sp := p.tree.Get(left).Span.Cover(tok.Span)
		if right.IsValid() {
			sp = sp.Cover(p.tree.Get(right).Span)
		}
		id := p.tree.New(ast.KindBinaryExpr, sp)
		n := p.tree.Get(id)
		n.Op = op
		n.Children = []ast.NodeID{left, right}
		left = id
	}
	return left
}

// parseUnaryExpr обрабатывает унарные операторы (префиксы).
func (p *Parser) parseUnaryExpr() ast.NodeID {
	tok := p.at()
	if p.done() || !prefixOp(tok) {
		return p.parsePrimary()
	}
	p.advance()
	x := p.parseBinaryExpr(precPrefix)
	return p.unary(tok, x, 0)
}

func (p *Parser) unary(op token.Token, x ast.NodeID, flags ast.Flags) ast.NodeID {
	sp := op.Span
	if n := p.tree.Get(x); n != nil {
		sp = sp.Cover(n.Span)
	}
	id := p.tree.New(ast.KindUnaryExpr, sp)
	n := p.tree.Get(id)
	n.Op = op.Concept
	n.Flags = flags
	n.Children = []ast.NodeID{x}
	return id
}

func (p *Parser) parsePrimary() ast.NodeID {
	// parsePrimary reports every missing operand, callers only propagate NoNodeID
	if p.done() {
		p.report(diag.SynExpectExpression, p.curSpan(), "expected expression")
		return ast.NoNodeID
	}
	tok := p.at()
	switch {
	case tok.Kind == token.Literal:
		p.advance()
		id := p.tree.New(ast.KindLiteral, tok.Span)
		n := p.tree.Get(id)
		n.Lit = tok.Lit
		n.Op = tok.Concept
		n.Text = tok.Text
		return id

	case tok.Kind == token.Ident:
		return p.parseCallTail(p.parseName())

	case tok.Is(keywords.Input):
		p.advance()
		callee := p.tree.New(ast.KindIdent, tok.Span)
		p.tree.Get(callee).Name = tok.Text
		p.tree.Get(callee).Op = keywords.Input
		id := p.parseCallTail(callee)
		if p.tree.Kind(id) != ast.KindCallExpr {
			id = p.call(callee, nil, tok.Span)
		}
		p.tree.Get(id).Op = keywords.Input
		return id

	case tok.IsPunct("("):
		open := p.advance()
		p.parenDeep++
		x := p.parseExpr()
		p.parenDeep--
		if !p.eatPunct(")") {
			p.report(diag.SynUnclosedParen, open.Span, "unclosed '('")
		}
		return x
	}
	p.report(diag.SynExpectExpression, tok.Span, "expected expression, found %s", describe(tok))
	return ast.NoNodeID
}

// parseName parses an identifier, folding "a.b.c" into one name.
func (p *Parser) parseName() ast.NodeID {
	tok := p.advance()
	sp, name := tok.Span, tok.Text
	for p.at().IsPunct(".") && p.at().Span.Start == sp.End {
		next := p.peekAt(p.pos + 1)
		if next.Kind != token.Ident || next.Span.Start != p.at().Span.End {
			break
		}
		p.pos += 2
		name += "." + next.Text
		sp = sp.Cover(next.Span)
	}
	id := p.tree.New(ast.KindIdent, sp)
	p.tree.Get(id).Name = name
	return id
}

// parseCallTail parses "(args)" after callee when the paren is on the same line.
func (p *Parser) parseCallTail(callee ast.NodeID) ast.NodeID {
	if !p.at().IsPunct("(") || p.at().LineStart() {
		return callee
	}
	open := p.advance()
	p.parenDeep++
	var args []ast.NodeID
	for !p.done() && !p.at().IsPunct(")") {
		if p.at().LineStart() && isStmtKeyword(p.at()) {
			break
		}
		before := p.pos
		if arg := p.parseExpr(); arg.IsValid() {
			args = append(args, arg)
		} else if p.pos == before {
			p.advance()
		}
		if !p.eatPunct(",") {
			break
		}
	}
	p.parenDeep--
	end := open.Span
	if p.at().IsPunct(")") {
		end = p.advance().Span
	} else {
		p.report(diag.SynUnclosedParen, open.Span, "unclosed '(' in call")
	}
	return p.call(callee, args, end)
}

func (p *Parser) call(callee ast.NodeID, args []ast.NodeID, end source.Span) ast.NodeID {
	sp := p.tree.Get(callee).Span.Cover(end)
	for _, a := range args {
		sp = sp.Cover(p.tree.Get(a).Span)
	}
	id := p.tree.New(ast.KindCallExpr, sp)
	n := p.tree.Get(id)
	n.Name = p.tree.Get(callee).Name
	n.Children = append([]ast.NodeID{callee}, args...)
	return id
}

// parseIndex parses x[i] as a binary node without an operator.
func (p *Parser) parseIndex(x ast.NodeID) ast.NodeID {
	open := p.advance()
	p.parenDeep++
	idx := p.parseExpr()
	p.parenDeep--
	sp := p.tree.Get(x).Span.Cover(open.Span)
	if idx.IsValid() {
		sp = sp.Cover(p.tree.Get(idx).Span)
	}
	if p.at().IsPunct("]") {
		sp = sp.Cover(p.advance().Span)
	} else {
		p.report(diag.SynUnclosedParen, open.Span, "unclosed '['")
	}
	id := p.tree.New(ast.KindBinaryExpr, sp)
	n := p.tree.Get(id)
	n.Text = "[]"
	n.Children = []ast.NodeID{x, idx}
	return id
}
