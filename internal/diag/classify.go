package diag

// fatal is the complete set of codes classified as errors.
// Every other code, including unknown ones, is a warning.
var fatal = map[Code]struct{}{
	LexUnterminatedString:       {},
	LexUnterminatedBlockComment: {},
}

// SeverityOf returns the fixed severity for code.
func SeverityOf(code Code) Severity {
	if _, ok := fatal[code]; ok {
		return SevError
	}
	return SevWarning
}

// Classify maps findings to diagnostics by the fixed severity table.
// The proposed severity of a finding is advisory and never raises the result.
// Output is sorted by (start, end, severity desc, code) and free of
// duplicates by (code, span, message), so classifying the same findings
// twice yields identical output.
func Classify(findings []Finding) []Diagnostic {
	b := NewBag(len(findings))
	for i := range findings {
		f := &findings[i]
		b.Add(Diagnostic{
			Span:     f.Span,
			Severity: SeverityOf(f.Code),
			Code:     f.Code,
			Message:  f.Message(),
			Notes:    f.Notes,
		})
	}
	b.Sort()
	b.Dedup()
	return b.Items()
}
