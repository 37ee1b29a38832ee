// Package analysis runs the front end over one document version.
//
// Analyze is a pure function of (text, version, options): it lexes, detects
// block styles, parses and classifies findings, and always returns a
// Result. A Result is immutable once returned, so completion requests may
// run against it while a newer version is still being analyzed.
package analysis
