// Package trace records what the crust pipeline is doing.
//
// Phases of a compilation (lex, parse, resolve, eval) open spans; the CLI
// decides where the events go:
//
//	crust run --trace=- --trace-level=phase prog.cr
//
// # Tracers
//
//   - Nop: zero overhead when disabled
//   - StreamTracer: writes each event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events for a dump after a failure
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// A level decides which scopes are emitted: phase shows driver and pass
// boundaries, detail adds per-file events, debug adds per-node events such
// as function calls in the evaluator.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", 0)
//	defer span.End("")
package trace
