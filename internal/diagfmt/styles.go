package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"pseudo/internal/scope"
)

// ConstructOutput is one block opener with its resolved style.
type ConstructOutput struct {
	Keyword  string      `json:"keyword"`
	Concept  string      `json:"concept"`
	Line     uint32      `json:"line"`
	Col      uint32      `json:"col"`
	Style    scope.Style `json:"style"`
	Inline   bool        `json:"inline,omitempty"`
	Missing  bool        `json:"missing_closer,omitempty"`
	Depth    int         `json:"depth"`
	Branches int         `json:"branches"`
}

// StylesOutput summarizes scope-style detection for one file.
type StylesOutput struct {
	File       scope.Style       `json:"file"`
	Confidence float64           `json:"confidence"`
	RunnerUp   scope.Style       `json:"runner_up"`
	Constructs []ConstructOutput `json:"constructs"`
}

// BuildStylesOutput lists constructs in source order.
func BuildStylesOutput(sc *scope.Result) StylesOutput {
	out := StylesOutput{Constructs: []ConstructOutput{}}
	if sc == nil {
		return out
	}
	out.File = sc.File
	out.Confidence = sc.Summary.Confidence
	out.RunnerUp = sc.Summary.RunnerUp

	openers := make([]int, 0, len(sc.Constructs))
	for i := range sc.Constructs {
		openers = append(openers, i)
	}
	sort.Ints(openers)
	for _, i := range openers {
		c := sc.Constructs[i]
		tok := sc.Tokens[c.Opener]
		out.Constructs = append(out.Constructs, ConstructOutput{
			Keyword:  tok.Text,
			Concept:  c.Concept.String(),
			Line:     tok.Pos.Line,
			Col:      tok.Pos.Col,
			Style:    c.Style,
			Inline:   c.Inline,
			Missing:  c.Missing,
			Depth:    c.Depth,
			Branches: len(c.Segments),
		})
	}
	return out
}

// FormatStylesPretty prints one construct per line, indented by depth.
func FormatStylesPretty(w io.Writer, sc *scope.Result) error {
	out := BuildStylesOutput(sc)
	if _, err := fmt.Fprintf(w, "file style: %s (confidence %.2f, runner-up %s)\n", out.File, out.Confidence, out.RunnerUp); err != nil {
		return err
	}
	for _, c := range out.Constructs {
		extra := ""
		if c.Inline {
			extra += " inline"
		}
		if c.Missing {
			extra += " missing-closer"
		}
		if _, err := fmt.Fprintf(w, "%4d:%-3d %*s%s %s%s\n", c.Line, c.Col, c.Depth*2, "", c.Keyword, c.Style, extra); err != nil {
			return err
		}
	}
	return nil
}

// FormatStylesJSON writes BuildStylesOutput as indented JSON.
func FormatStylesJSON(w io.Writer, sc *scope.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildStylesOutput(sc))
}
