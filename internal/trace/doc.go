// Package trace records spans and point events of an analysis run.
//
// Tracing is enabled from the command line:
//
//	bslcheck analyze --trace=- --trace-level=detail src/
//
// # Tracers
//
//   - Nop: no overhead when disabled
//   - StreamTracer: writes every event immediately (file or stderr)
//   - RingTracer: keeps the last N events for a dump after a failure
//   - Tee: fans out to several tracers
//
// # Scopes and levels
//
// Scopes go from coarse to fine: ScopeRun (one CLI command or LSP request),
// ScopeDocument, ScopePhase (parse, symbols, select, rules, filter) and
// ScopeRule. LevelPhase emits up to phases, LevelDetail adds rules,
// LevelError emits only failure events.
//
// # Context
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDocument, path, 0)
//	defer span.End("")
package trace
