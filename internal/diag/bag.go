package diag

import (
	"sort"
)

type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag creates a bag holding at most max diagnostics; max <= 0 means unlimited.
func NewBag(limit int) *Bag {
	return &Bag{
		items: make([]Diagnostic, 0, max(limit, 0)),
		max:   limit,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() int {
	return b.max
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	return HasErrors(b.items)
}

// HasWarnings возвращает true, если есть хотя бы одна диагностика с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge объединяет диагностики из другого Bag, соблюдая лимит.
func (b *Bag) Merge(other *Bag) {
	for _, d := range other.items {
		if !b.Add(d) {
			return
		}
	}
}

// Sort сортирует диагностики по: file, start, end, severity (desc), code (asc)
// для стабильного и детерминированного порядка вывода.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Span.File != dj.Span.File {
			return di.Span.File < dj.Span.File
		}
		if di.Span.Start != dj.Span.Start {
			return di.Span.Start < dj.Span.Start
		}
		if di.Span.End != dj.Span.End {
			return di.Span.End < dj.Span.End
		}
		// по severity (по убыванию: Error > Warning > Info)
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return di.Message < dj.Message
	})
}

// Dedup drops diagnostics repeating an earlier (code, span, message).
func (b *Bag) Dedup() {
	type key struct {
		code Code
		span [3]uint32
		msg  string
	}
	seen := make(map[key]struct{}, len(b.items))
	newitems := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		k := key{d.Code, [3]uint32{uint32(d.Span.File), d.Span.Start, d.Span.End}, d.Message}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		newitems = append(newitems, d)
	}
	b.items = newitems
}
