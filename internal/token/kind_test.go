package token_test

import (
	"testing"

	"pseudo/internal/keywords"
	"pseudo/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k}
}

func TestIsTrivia(t *testing.T) {
	for _, k := range []token.Kind{token.Space, token.Newline, token.Comment} {
		if !tok(k).IsTrivia() {
			t.Fatalf("%v should be trivia", k)
		}
	}
	for _, k := range []token.Kind{token.Keyword, token.Ident, token.Literal, token.SymOp, token.NatOp, token.Punct} {
		if tok(k).IsTrivia() {
			t.Fatalf("%v must NOT be trivia", k)
		}
	}
}

func TestIsConcept(t *testing.T) {
	kw := token.Token{Kind: token.Keyword, Concept: keywords.If, Text: "IF"}
	if !kw.Is(keywords.If) {
		t.Fatalf("expected if concept")
	}
	ident := token.Token{Kind: token.Ident, Text: "x"}
	if ident.Is(keywords.None) {
		t.Fatalf("None must never match")
	}
}

func TestPunctAndFlags(t *testing.T) {
	brace := token.Token{Kind: token.Punct, Text: "{", Flags: token.FlagLineStart}
	if !brace.IsPunct("{") || brace.IsPunct("}") {
		t.Fatalf("IsPunct misbehaves")
	}
	if !brace.LineStart() || brace.IsError() {
		t.Fatalf("flags misreported")
	}
	op := token.Token{Kind: token.NatOp, Concept: keywords.Gt}
	if !op.IsOperator() {
		t.Fatalf("NatOp is an operator")
	}
}

func TestKindString(t *testing.T) {
	if got := token.NatOp.String(); got != "NatOp" {
		t.Fatalf("NatOp.String() = %q", got)
	}
	if got := token.Kind(200).String(); got != "Kind(?)" {
		t.Fatalf("unknown kind = %q", got)
	}
}
