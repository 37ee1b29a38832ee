package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	// KindPoint is an instant event without duration.
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope is the granularity of an event. Lower values are coarser.
type Scope uint8

const (
	ScopeDriver   Scope = iota + 1 // one CLI command
	ScopeDocument                  // one analyzed document version
	ScopePhase                     // lex, scope, parse, classify
	ScopeRequest                   // one editor request
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopeDocument:
		return "document"
	case ScopePhase:
		return "phase"
	case ScopeRequest:
		return "request"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	GID      uint64
	Name     string // "analyze", "parse", "file:main.pseudo"
	Detail   string
	Elapsed  time.Duration // set on KindSpanEnd
	Extra    map[string]string
}
