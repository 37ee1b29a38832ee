// Package parser builds an ast.Tree from the significant tokens of a file.
//
// Block extents come from the scope detector; the parser only reads the
// headers and the statements inside each segment. It never aborts: tokens
// it cannot place are reported once and wrapped in Unknown nodes.
package parser
