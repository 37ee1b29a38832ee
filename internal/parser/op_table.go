package parser

import (
	"pseudo/internal/keywords"
	"pseudo/internal/token"
)

// Таблица приоритетов для бинарных операторов.
// Чем больше число, тем выше приоритет.
const (
	precAssignment     = 1 // to, =, :=, <-
	precLogicalOr      = 2
	precLogicalAnd     = 3
	precEquality       = 4 // equals, is, is not
	precComparison     = 5 // less than, >=, ...
	precAdditive       = 6
	precMultiplicative = 7
	precPower          = 8 // to the power of, right associative
	precPrefix         = 9
)

// binaryOp returns the canonical operator, its precedence and associativity
// for tok in the current expression mode. prec < 0 means "not binary here".
func (p *Parser) binaryOp(tok token.Token) (op keywords.Concept, prec int, rightAssoc bool) {
	if !tok.IsOperator() {
		return keywords.None, -1, false
	}
	switch tok.Concept {
	case keywords.Assign:
		if p.noAssign {
			return keywords.None, -1, false
		}
		if p.cond && tok.Text == "=" {
			return keywords.Eq, precEquality, false
		}
		return keywords.Assign, precAssignment, true
	case keywords.Or:
		return keywords.Or, precLogicalOr, false
	case keywords.And:
		return keywords.And, precLogicalAnd, false
	case keywords.Eq, keywords.Ne:
		return tok.Concept, precEquality, false
	case keywords.Lt, keywords.Le, keywords.Gt, keywords.Ge:
		return tok.Concept, precComparison, false
	case keywords.Add, keywords.Sub:
		return tok.Concept, precAdditive, false
	case keywords.Mul, keywords.Div, keywords.Mod:
		return tok.Concept, precMultiplicative, false
	case keywords.Pow:
		return keywords.Pow, precPower, true
	}
	return keywords.None, -1, false
}

// prefixOp reports whether tok may start a unary expression.
func prefixOp(tok token.Token) bool {
	if !tok.IsOperator() {
		return false
	}
	switch tok.Concept {
	case keywords.Not, keywords.Sub, keywords.Add, keywords.Inc, keywords.Dec:
		return true
	}
	return false
}
