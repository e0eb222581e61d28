// Package trace records where the resolution core spends its time.
//
// Spans are opened per driver step, per compilation unit, per instantiation
// and per overload resolution; a hang inside a recursive instantiation shows
// up as an unmatched begin event followed by heartbeats.
//
//	cmres check --trace=- --trace-level=detail project/
//
// Levels gate scopes: phase emits driver and unit spans, detail adds
// instantiation spans, debug adds every resolution.
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeUnit, "unit:core", 0)
//	defer span.End("")
package trace
