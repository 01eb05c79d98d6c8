// Package trace records spans of verilab's work: the whole run, the
// design load, every elaborated expression and, at debug level, every
// lowered syntax node.
//
// Enable it from the command line:
//
//	verilab elab --trace=trace.ndjson --trace-level=detail design.toml
//
// Tracers are carried in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "load", 0)
//	defer span.End("")
//
// The ring tracer keeps the last events in memory so that a failed run
// can dump them; the stream tracer writes events as they happen.
package trace
