package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"pseudo/internal/keywords"
	"pseudo/internal/token"
)

// TokenOutput is one token of the json dump.
type TokenOutput struct {
	Kind    string   `json:"kind"`
	Concept string   `json:"concept,omitempty"`
	Lit     string   `json:"lit,omitempty"`
	Text    string   `json:"text"`
	Start   uint32   `json:"start"`
	End     uint32   `json:"end"`
	Line    uint32   `json:"line"`
	Col     uint32   `json:"col"`
	Flags   []string `json:"flags,omitempty"`
	Indent  int      `json:"indent,omitempty"`
}

func tokenFlags(f token.Flags) []string {
	var out []string
	if f&token.FlagError != 0 {
		out = append(out, "error")
	}
	if f&token.FlagLineStart != 0 {
		out = append(out, "line-start")
	}
	if f&token.FlagBlockComment != 0 {
		out = append(out, "block")
	}
	return out
}

func toTokenOutput(tok token.Token) TokenOutput {
	out := TokenOutput{
		Kind:  tok.Kind.String(),
		Lit:   tok.Lit.String(),
		Text:  tok.Text,
		Start: tok.Span.Start,
		End:   tok.Span.End,
		Line:  tok.Pos.Line,
		Col:   tok.Pos.Col,
		Flags: tokenFlags(tok.Flags),
	}
	if tok.Concept != keywords.None {
		out.Concept = tok.Concept.String()
	}
	if tok.LineStart() {
		out.Indent = tok.Indent
	}
	return out
}

func selectTokens(tokens []token.Token, trivia bool) []token.Token {
	if trivia {
		return tokens
	}
	return token.Significant(tokens)
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, trivia bool) error {
	var sb strings.Builder
	for i, tok := range selectTokens(tokens, trivia) {
		out := toTokenOutput(tok)
		fmt.Fprintf(&sb, "%4d: %-8s", i+1, out.Kind)
		switch {
		case out.Concept != "":
			fmt.Fprintf(&sb, " %-16s", out.Concept)
		case out.Lit != "":
			fmt.Fprintf(&sb, " %-16s", out.Lit)
		default:
			fmt.Fprintf(&sb, " %-16s", "")
		}
		fmt.Fprintf(&sb, " %q at %d:%d", tok.Text, out.Line, out.Col)
		if len(out.Flags) > 0 {
			fmt.Fprintf(&sb, " [%s]", strings.Join(out.Flags, ","))
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token, trivia bool) error {
	selected := selectTokens(tokens, trivia)
	output := make([]TokenOutput, 0, len(selected))
	for _, tok := range selected {
		output = append(output, toTokenOutput(tok))
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
