// Package trace records what a lint run is doing: which files are being
// linted, how long each rule took to set up, where time goes.
//
// # Usage
//
//	airtight lint --trace=- --trace-level=file src/
//
// # Tracers
//
// New builds one of:
//
//   - Nop when tracing is off
//   - a stream tracer writing every event as it happens (file or stderr)
//   - a Ring keeping the last N events, dumped when a run fails
//   - both at once
//
// # Levels and scopes
//
// Events carry a scope (driver, file, rule, node); the level decides which
// scopes are emitted:
//
//   - LevelOff: nothing
//   - LevelError: nothing streamed, ring dumps only
//   - LevelPhase: driver events
//   - LevelFile: driver and per-file events
//   - LevelDebug: everything including per-rule events
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "lint:"+path, 0)
//	defer span.End("")
package trace
