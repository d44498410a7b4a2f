// Package allocator defines the memory-allocation contract the tracer
// wraps, and the Protecting Allocator decorator that pads every block with
// canaries to catch heap-buffer overflows at free time.
//
// Grounded on the C source's mem_allocator vtable (allocate/free pairs
// carrying an opaque context), re-expressed as a two-method Go interface
// since Go has no equivalent need for a manually-threaded user/context
// pointer — a decorator simply closes over its wrapped Allocator.
package allocator

import "errors"

// Allocator is the minimal contract the tracer wraps: acquire a block of
// raw memory and hand back its identity, release a previously acquired
// block by that identity.
//
// Implementations decide what "identity" means for their own Free calls,
// but it must be stable for the life of the block and distinct from every
// other live block's identity — the tracer relies on it as a map key.
type Allocator interface {
	// Allocate returns a freshly acquired block of exactly size bytes.
	// The returned slice's address (via unsafe.Pointer on its first byte)
	// is the block's identity.
	Allocate(size uint64) ([]byte, error)

	// Free releases the block previously returned at this address. The
	// caller — the tracer or a wrapping decorator — guarantees the
	// address was returned by a prior Allocate and not already freed;
	// implementations are free to treat a violation as a fatal bug
	// rather than a recoverable error.
	Free(ptr uintptr) error
}

// ErrOutOfMemory is returned by an Allocator that cannot satisfy a
// request. DirectAllocator never returns it in practice (Go's make rarely
// fails gracefully), but the contract exists so a bounded test allocator
// can simulate exhaustion.
var ErrOutOfMemory = errors.New("allocator: out of memory")

// ErrUnknownPointer is returned by Free when given an address the
// allocator never handed out, or already freed.
var ErrUnknownPointer = errors.New("allocator: free of unknown pointer")
