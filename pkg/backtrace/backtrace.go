// Package backtrace implements the Backtracer contract: capturing the
// current call chain at allocation time, and later resolving a captured
// instruction pointer to a human-readable symbol for a dump.
//
// Grounded on original_source/tracer/backtrace.c's FAST_BACKTRACE /
// UNWIND_BACKTRACE duality — capture-only vs. capture-and-symbolize — re-
// expressed here as two implementations of one Go interface instead of a
// compile-time #ifdef selection.
package backtrace

// Backtracer captures return-address chains and, separately, resolves one
// instruction pointer to a symbol string. Capture must be safe to call
// from the allocating goroutine and must never call back into a Tracer —
// doing so would deadlock on the Tracer's own lock.
type Backtracer interface {
	// Capture discovers the current call chain, skipping the first skip
	// frames (internal to the allocator wrapper itself), and returns up
	// to maxDepth instruction pointers ordered deepest-frame-first. The
	// returned slice is the caller's to keep; implementations must not
	// retain or mutate it afterward.
	Capture(skip, maxDepth int) ([]uintptr, error)

	// Symbolize resolves ip to a human-readable string. Implementations
	// that cannot resolve a given ip return a hex-address fallback
	// rather than an error — an unresolved frame is not a capture
	// failure.
	Symbolize(ip uintptr) string

	// Prepare brackets the start of a symbolization session (one dump).
	// Implementations that maintain no session-scoped state may no-op.
	Prepare()

	// Post brackets the end of a symbolization session.
	Post()
}
