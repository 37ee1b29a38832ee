package diag

import "pseudo/internal/source"

// Reporter принимает находки от фаз.
// Реализации: Collector (копит в срез), DedupReporter (фильтр дублей).
type Reporter interface {
	Report(f Finding)
}

// ReportBuilder accumulates finding details before emitting to Reporter.
type ReportBuilder struct {
	reporter Reporter
	finding  Finding
	emitted  bool
}

// NewReportBuilder constructs a builder bound to Reporter.
func NewReportBuilder(r Reporter, origin Origin, sev Severity, code Code, span source.Span, tmpl string, args ...string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		finding: Finding{
			Origin:   origin,
			Code:     code,
			Template: tmpl,
			Args:     args,
			Span:     span,
			Proposed: sev,
		},
	}
}

// ReportError is a shortcut for findings that propose SevError.
func ReportError(r Reporter, origin Origin, code Code, span source.Span, tmpl string, args ...string) *ReportBuilder {
	return NewReportBuilder(r, origin, SevError, code, span, tmpl, args...)
}

// ReportWarning is a shortcut for findings that propose SevWarning.
func ReportWarning(r Reporter, origin Origin, code Code, span source.Span, tmpl string, args ...string) *ReportBuilder {
	return NewReportBuilder(r, origin, SevWarning, code, span, tmpl, args...)
}

// WithNote appends a note to the finding.
func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.finding.Notes = append(b.finding.Notes, Note{Span: sp, Msg: msg})
	return b
}

// Emit sends the finding to the underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.finding)
	}
	b.emitted = true
}

// Finding returns the accumulated finding without emitting.
func (b *ReportBuilder) Finding() Finding {
	if b == nil {
		return Finding{}
	}
	return b.finding
}

// Collector is a Reporter that appends findings to a slice.
// Max > 0 caps the number kept; further findings set Truncated.
type Collector struct {
	Findings  []Finding
	Max       int
	Truncated bool
}

func (c *Collector) Report(f Finding) {
	if c == nil {
		return
	}
	if c.Max > 0 && len(c.Findings) >= c.Max {
		c.Truncated = true
		return
	}
	c.Findings = append(c.Findings, f)
}

// Full reports whether the cap has been reached.
func (c *Collector) Full() bool {
	return c != nil && c.Max > 0 && len(c.Findings) >= c.Max
}

// NopReporter drops every finding.
type NopReporter struct{}

func (NopReporter) Report(Finding) {}
