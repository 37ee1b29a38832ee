// Package scope classifies how blocks are delimited: by braces, by closing
// keywords ("end", "endif"), by indentation, or by none of them (Mixed).
//
// Detection works per construct. Each block-opening keyword is resolved
// in order: a '{' ending its header with a matching '}' gives Braces (a
// redundant "endif" after the brace wins nothing), a matching closing
// keyword gives KeywordDelimited, a strictly deeper indented next line
// gives Indentation, and anything else is Mixed. Nested constructs are
// resolved first, so a generic "end" closes the innermost open block whose
// line is not indented deeper than the "end" itself.
//
// The file style is the common style of the top-level constructs, or
// Mixed when they disagree. The parser consumes the per-construct result;
// the file style and Evidence are reporting aids.
//
// A one-line if/while/for ("if x then print x") whose body starts on the
// header line and has no closer on that line is marked Inline. Inline
// constructs do not vote on the file style.
package scope
