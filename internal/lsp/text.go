package lsp

import "unicode/utf8"

// applyChanges applies incremental or full-text changes in order.
func applyChanges(text string, changes []textDocumentContentChangeEvent) string {
	for _, change := range changes {
		if change.Range == nil {
			text = change.Text
			continue
		}
		start := offsetForPosition(text, change.Range.Start)
		end := max(offsetForPosition(text, change.Range.End), start)
		text = text[:start] + change.Text + text[end:]
	}
	return text
}

// offsetForPosition maps an LSP position (UTF-16 columns) into text,
// clamping to the line and the text.
func offsetForPosition(text string, pos position) int {
	if pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	i := 0
	for line := 0; line < pos.Line; i++ {
		if i >= len(text) {
			return len(text)
		}
		if text[i] == '\n' {
			line++
		}
	}
	units := 0
	for i < len(text) && text[i] != '\n' {
		r, size := utf8.DecodeRuneInString(text[i:])
		need := 1
		if r > 0xFFFF {
			need = 2
		}
		if units+need > pos.Character {
			break
		}
		units += need
		i += size
	}
	return i
}
