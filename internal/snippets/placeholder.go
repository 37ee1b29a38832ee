package snippets

import (
	"strconv"
	"strings"
)

// Placeholder is a tab stop of a snippet body. Offset and Len refer to the
// rendered plain text; Index 0 is the final cursor position.
type Placeholder struct {
	Index   int
	Default string
	Offset  int
	Len     int
}

// ParseBody renders a snippet body to plain text and collects its tab stops.
// Supported forms: $1, ${1}, ${1:default}, ${1|one,two|} and the escapes \$ \} \\.
// Malformed placeholders are kept as literal text.
func ParseBody(body string) (string, []Placeholder) {
	var (
		out strings.Builder
		ph  []Placeholder
	)
	for i := 0; i < len(body); {
		c := body[i]
		if c == '\\' && i+1 < len(body) && strings.IndexByte(`$}\`, body[i+1]) >= 0 {
			out.WriteByte(body[i+1])
			i += 2
			continue
		}
		if c != '$' || i+1 >= len(body) {
			out.WriteByte(c)
			i++
			continue
		}
		if p, n, ok := parsePlaceholder(body[i:]); ok {
			p.Offset = out.Len()
			out.WriteString(p.Default)
			p.Len = len(p.Default)
			ph = append(ph, p)
			i += n
			continue
		}
		out.WriteByte(c)
		i++
	}
	return out.String(), ph
}

// parsePlaceholder parses a placeholder at the start of s and returns it with
// the number of bytes consumed.
func parsePlaceholder(s string) (Placeholder, int, bool) {
	if len(s) < 2 {
		return Placeholder{}, 0, false
	}
	if isDigit(s[1]) {
		j := 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		idx, _ := strconv.Atoi(s[1:j])
		return Placeholder{Index: idx}, j, true
	}
	if s[1] != '{' {
		return Placeholder{}, 0, false
	}
	j := 2
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	if j == 2 || j >= len(s) {
		return Placeholder{}, 0, false
	}
	idx, _ := strconv.Atoi(s[2:j])
	switch s[j] {
	case '}':
		return Placeholder{Index: idx}, j + 1, true
	case ':':
		def, n, ok := scanDefault(s[j+1:])
		if !ok {
			return Placeholder{}, 0, false
		}
		return Placeholder{Index: idx, Default: def}, j + 1 + n, true
	case '|':
		end := strings.Index(s[j+1:], "|}")
		if end < 0 {
			return Placeholder{}, 0, false
		}
		choices := strings.Split(s[j+1:j+1+end], ",")
		return Placeholder{Index: idx, Default: choices[0]}, j + 1 + end + 2, true
	}
	return Placeholder{}, 0, false
}

// scanDefault reads a default value up to its closing brace. Nested
// placeholders are flattened into their own defaults.
func scanDefault(s string) (string, int, bool) {
	var out strings.Builder
	for i := 0; i < len(s); {
		switch {
		case s[i] == '\\' && i+1 < len(s):
			out.WriteByte(s[i+1])
			i += 2
		case s[i] == '}':
			return out.String(), i + 1, true
		case s[i] == '$':
			if p, n, ok := parsePlaceholder(s[i:]); ok {
				out.WriteString(p.Default)
				i += n
				continue
			}
			out.WriteByte(s[i])
			i++
		default:
			out.WriteByte(s[i])
			i++
		}
	}
	return "", 0, false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
