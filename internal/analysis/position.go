package analysis

import (
	"sort"
	"unicode/utf8"

	"fortio.org/safecast"

	"pseudo/internal/source"
)

// Position is a 0-based line and a 0-based column in UTF-16 code units.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

func toUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return ^uint32(0)
	}
	return v
}

// Offset converts a 0-based line/UTF-16 column to a byte offset, clamped
// to the line and the file.
func (r *Result) Offset(line, col int) uint32 {
	if r == nil {
		return 0
	}
	return OffsetOf(r.File, Position{Line: line, Character: col})
}

// PositionOf converts a byte offset back to an editor position.
func (r *Result) PositionOf(off uint32) Position {
	if r == nil {
		return Position{}
	}
	return PositionAt(r.File, off)
}

// OffsetOf converts an editor position in file to a byte offset.
func OffsetOf(file *source.File, pos Position) uint32 {
	if file == nil || pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	content := file.Content
	size := toUint32(len(content))
	if pos.Line > len(file.LineIdx) {
		return size
	}
	var start uint32
	if pos.Line > 0 {
		start = file.LineIdx[pos.Line-1] + 1
	}
	end := size
	if pos.Line < len(file.LineIdx) {
		end = file.LineIdx[pos.Line]
	}
	units := 0
	off := start
	for off < end && units < pos.Character {
		r, n := utf8.DecodeRune(content[off:end])
		need := 1
		if r > 0xFFFF {
			need = 2
		}
		if units+need > pos.Character {
			break
		}
		units += need
		off += toUint32(n)
	}
	return off
}

// PositionAt converts a byte offset in file to an editor position.
func PositionAt(file *source.File, off uint32) Position {
	if file == nil {
		return Position{}
	}
	off = min(off, toUint32(len(file.Content)))
	lineIdx := file.LineIdx
	line := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= off })
	var start uint32
	if line > 0 {
		start = lineIdx[line-1] + 1
	}
	units := 0
	for p := start; p < off; {
		r, n := utf8.DecodeRune(file.Content[p:off])
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
		p += toUint32(n)
	}
	return Position{Line: line, Character: units}
}

// Range converts a span to a pair of editor positions.
func Range(file *source.File, sp source.Span) (start, end Position) {
	return PositionAt(file, sp.Start), PositionAt(file, sp.End)
}
