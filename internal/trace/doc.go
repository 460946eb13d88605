// Package trace records crawl spans for diagnosing slow or hanging runs.
//
// A crawl opens one run span, one span per type and one per member;
// individual invocations and faults are point events. When a member under
// test never returns, the heartbeat keeps ticking while no span closes,
// which is how hangs show up in a trace.
//
// # Usage
//
//	codecrawl run --builtin samples --trace=- --trace-level=member
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: nothing is streamed; the ring keeps events for dumps
//   - LevelType: run and type boundaries
//   - LevelMember: member boundaries
//   - LevelCall: every invocation
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeType, "samples.Calculator", parentID)
//	defer span.End("")
package trace
