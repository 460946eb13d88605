// Package fault defines the failure records produced by a crawl.
//
// # Purpose
//
//   - Provide a deterministic, serialisable record for every failure the
//     crawler observes while exercising a type.
//   - Offer light-weight utilities (Reporter, Bag) that let the crawler emit
//     faults without coupling to storage or rendering.
//
// # Taxonomy
//
// Kind is a tri-level classification:
//
//   - KindConstruction – the type could not be instantiated; every member of
//     that type is skipped. Fatal for the type only.
//   - KindInvocation – the member call panicked or returned a non-nil trailing
//     error. The recorded cause is the original error, never the wrapper
//     the invoker used to carry it.
//   - KindContract – the call succeeded but a returned value does not match its
//     declared type ("Method result is not valid").
//
// Cancellation is not a fault: a cancelled crawl completes with partial
// results and no record is produced for it.
//
// # Scope
//
// Every Fault is scoped to (type, member, variant). Construction faults have
// an empty member; base invocations use variant -1.
//
// Package fault does not format or print anything. Rendering lives in
// internal/report.
package fault
