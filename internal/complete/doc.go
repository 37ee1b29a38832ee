// Package complete ranks completion candidates for a cursor position.
//
// Candidates come from three places: keyword surfaces of the registry,
// the snippet library, and names declared in the enclosing scopes of the
// tree. Exact prefix matches always rank before fuzzy ones; within a
// match class keywords come first, then snippets, then declared names,
// each in registration or declaration order.
package complete
