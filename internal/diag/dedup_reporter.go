package diag

import "pseudo/internal/source"

type findingKey struct {
	code Code
	span source.Span
	msg  string
}

// DedupReporter forwards each distinct (code, span, message) finding once.
// The lexer and the parser may both flag the same broken region; only the
// first report survives.
type DedupReporter struct {
	next    Reporter
	seen    map[findingKey]struct{}
	dropped int
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[findingKey]struct{})}
}

func (r *DedupReporter) Report(f Finding) {
	if r == nil {
		return
	}
	key := findingKey{code: f.Code, span: f.Span, msg: f.Message()}
	if _, dup := r.seen[key]; dup {
		r.dropped++
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(f)
	}
}

// Dropped reports how many duplicates were swallowed.
func (r *DedupReporter) Dropped() int {
	if r == nil {
		return 0
	}
	return r.dropped
}
