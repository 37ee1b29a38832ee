package source

import (
	"fmt"
)

type Span struct {
	File  FileID `json:"file"`
	Start uint32 `json:"start"` // в байтах включительно
	End   uint32 `json:"end"`   // в байтах не включительно
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Contains reports whether off lies in [Start, End].
// The end is inclusive so a cursor right after the last byte still belongs to the span.
func (s Span) Contains(off uint32) bool {
	return s.Start <= off && off <= s.End
}

func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// ZeroideToEnd returns an empty span positioned at s.End.
func (s Span) ZeroideToEnd() Span {
	return Span{File: s.File, Start: s.End, End: s.End}
}

// ZeroideToStart returns an empty span positioned at s.Start.
func (s Span) ZeroideToStart() Span {
	return Span{File: s.File, Start: s.Start, End: s.Start}
}
