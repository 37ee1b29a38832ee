package scope

import "fmt"

// Style is the convention used to delimit a block.
type Style uint8

const (
	// Mixed means no single rule resolved the block (or a file's blocks disagree).
	Mixed Style = iota
	Braces
	KeywordDelimited
	Indentation

	styleCount
)

func (s Style) String() string {
	switch s {
	case Braces:
		return "braces"
	case KeywordDelimited:
		return "keyword"
	case Indentation:
		return "indentation"
	default:
		return "mixed"
	}
}

func (s Style) GoString() string {
	return fmt.Sprintf("Style(%s)", s.String())
}

// MarshalText keeps json output readable.
func (s Style) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
