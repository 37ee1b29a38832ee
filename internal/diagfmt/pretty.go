package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"pseudo/internal/diag"
	"pseudo/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, code, gutter, caret, note func(a ...any) string
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgBlue, color.Bold),
		code:   mk(color.FgCyan),
		gutter: mk(color.FgHiBlack),
		caret:  mk(color.FgGreen, color.Bold),
		note:   mk(color.FgCyan, color.Bold),
	}
}

func (p palette) severity(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return p.err(s.String())
	case diag.SevWarning:
		return p.warn(s.String())
	}
	return p.info(s.String())
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Ожидается bag.Sort() заранее. Для каждой диагностики печатает
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// затем строку исходника с подчёркиванием ^~~~ по Span и заметки.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	var sb strings.Builder
	for i, d := range bag.Items() {
		if i > 0 {
			sb.WriteByte('\n')
		}
		f := fs.Get(d.Span.File)
		start, end := fs.Resolve(d.Span)
		path := formatPath(f, opts.PathMode, fs.BaseDir())
		fmt.Fprintf(&sb, "%s:%d:%d: %s %s: %s\n", path, start.Line, start.Col, p.severity(d.Severity), p.code(d.Code.ID()), d.Message)
		if f != nil {
			writeSnippet(&sb, f, start, end, int(opts.Context), p)
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			ns, _ := fs.Resolve(n.Span)
			fmt.Fprintf(&sb, "  %s %s:%d:%d: %s\n", p.note("note:"), path, ns.Line, ns.Col, n.Msg)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// writeSnippet prints the primary line with context and a caret line under
// the span. Multi-line spans are underlined to the end of the first line.
func writeSnippet(sb *strings.Builder, f *source.File, start, end source.LineCol, context int, p palette) {
	primary := int(start.Line)
	from := max(primary-max(context, 0), 1)
	to := min(primary+max(context, 0), len(f.LineIdx)+1)
	width := len(strconv.Itoa(to))

	for ln := from; ln <= to; ln++ {
		text := f.GetLine(uint32(ln)) // #nosec G115 -- ln is bounded by the line count
		fmt.Fprintf(sb, "%s %s\n", p.gutter(fmt.Sprintf("%*d |", width, ln)), expandTabs(text))
		if ln != primary {
			continue
		}
		before, under := caretExtent(text, start, end)
		marks := "^" + strings.Repeat("~", under-1)
		fmt.Fprintf(sb, "%s %s%s\n", p.gutter(strings.Repeat(" ", width)+" |"), strings.Repeat(" ", before), p.caret(marks))
	}
}

// caretExtent returns the display width before the span on its first line
// and the display width of the underlined part (at least 1).
func caretExtent(line string, start, end source.LineCol) (before, under int) {
	col := clampCol(line, start.Col)
	stop := len(line)
	if end.Line == start.Line {
		stop = max(clampCol(line, end.Col), col)
	}
	before = displayWidth(line[:col])
	under = displayWidth(line[col:stop])
	return before, max(under, 1)
}

func clampCol(line string, col uint32) int {
	if col == 0 {
		return 0
	}
	return min(int(col-1), len(line))
}

func displayWidth(s string) int {
	return runewidth.StringWidth(expandTabs(s))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
