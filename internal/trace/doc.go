// Package trace records where time goes inside the pseudo front end.
//
// A Tracer receives begin/end events for spans. Spans are nested by
// parent id: the driver opens a span per command, each analyzed document
// gets its own span, and the pipeline phases (lex, scope, parse,
// classify) hang below it.
//
//	t, _ := trace.New(trace.Config{Level: trace.LevelDetail, OutputPath: "-"})
//	span := trace.Begin(t, trace.ScopeDocument, "analyze", 0)
//	defer span.End("")
//
// # Levels
//
//   - LevelOff: nothing
//   - LevelError: reserved for failures reported by the caller
//   - LevelPhase: driver and document spans
//   - LevelDetail: plus pipeline phases
//   - LevelDebug: plus editor requests
//
// Tracers travel through context.Context with WithTracer/FromContext.
package trace
