package observ

import (
	"pseudo/internal/trace"
)

// Recorder is a tracer that turns finished phase spans into Timer phases
// and forwards every event the wrapped tracer would accept.
type Recorder struct {
	timer *Timer
	next  trace.Tracer
}

// NewRecorder wraps next; a nil next records only.
func NewRecorder(next trace.Tracer) *Recorder {
	if next == nil {
		next = trace.Nop
	}
	return &Recorder{timer: NewTimer(), next: next}
}

func (r *Recorder) Emit(ev *trace.Event) {
	if ev.Kind == trace.KindSpanEnd && ev.Scope == trace.ScopePhase {
		r.timer.Record(ev.Name, ev.Elapsed, ev.Detail)
	}
	if r.next.Enabled() && r.next.Level().ShouldEmit(ev.Scope) {
		r.next.Emit(ev)
	}
}

func (r *Recorder) Flush() error { return r.next.Flush() }

// Close flushes; the wrapped tracer is owned by the caller.
func (r *Recorder) Close() error { return r.next.Flush() }

// Level is at least detail so phase spans are opened.
func (r *Recorder) Level() trace.Level {
	return max(r.next.Level(), trace.LevelDetail)
}

func (r *Recorder) Enabled() bool { return true }

func (r *Recorder) Timer() *Timer { return r.timer }

func (r *Recorder) Report() Report { return r.timer.Report() }
