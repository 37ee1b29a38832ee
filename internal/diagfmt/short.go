package diagfmt

import (
	"io"
	"strings"

	"pseudo/internal/diag"
	"pseudo/internal/source"
)

// Short writes one line per diagnostic, grouped by file in bag order.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode, includeNotes bool) error {
	items := bag.Items()
	var sb strings.Builder
	for start := 0; start < len(items); {
		file := items[start].Span.File
		end := start + 1
		for end < len(items) && items[end].Span.File == file {
			end++
		}
		group := make([]diag.Diagnostic, end-start)
		copy(group, items[start:end])
		f := fs.Get(file)
		diag.Locate(f, group)
		resolve := func(n diag.Note) (line, col uint32) {
			pos, _ := fs.Resolve(n.Span)
			return pos.Line, pos.Col
		}
		sb.WriteString(diag.FormatShort(group, formatPath(f, mode, fs.BaseDir()), includeNotes, resolve))
		sb.WriteByte('\n')
		start = end
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
