// Package workspace keeps the documents of an editor session.
//
// Each edit delivers an immutable (text, version) pair. Analyses are not
// interrupted; a result whose version is no longer the latest when it
// completes is dropped instead of published. Completion reads Snapshot,
// the most recently completed result, so it never waits for an analysis
// in flight.
package workspace
