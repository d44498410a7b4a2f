package allocator

import (
	"sync"
	"unsafe"
)

// DirectAllocator is the trivial Allocator: every Allocate is a fresh Go
// byte slice, sized exactly as requested, with no padding of any kind.
//
// Go's runtime only keeps a slice's backing array alive for as long as
// something references it. Without retaining the slice itself after
// Allocate returns, the tracer's Path Record — which only ever stores the
// block's uintptr identity, never the slice — would be the block's sole
// reference, and that reference doesn't keep anything alive. DirectAllocator
// closes that gap by holding every live block in a side table until Free.
type DirectAllocator struct {
	mu     sync.Mutex
	blocks map[uintptr][]byte
}

// NewDirect constructs an empty DirectAllocator.
func NewDirect() *DirectAllocator {
	return &DirectAllocator{blocks: make(map[uintptr][]byte)}
}

// Allocate returns a fresh, zeroed block of size bytes. A zero-byte
// request still yields a distinct, trackable identity by allocating one
// byte underneath — size 0 in Go has no stable address to key on.
func (a *DirectAllocator) Allocate(size uint64) ([]byte, error) {
	n := size
	if n == 0 {
		n = 1
	}

	buf := make([]byte, n)
	ptr := uintptr(unsafe.Pointer(&buf[0]))

	a.mu.Lock()
	defer a.mu.Unlock()
	a.blocks[ptr] = buf

	return buf[:size], nil
}

// Free releases the block at ptr, dropping the tracer's last reason to
// keep the backing array alive.
func (a *DirectAllocator) Free(ptr uintptr) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.blocks[ptr]; !ok {
		return ErrUnknownPointer
	}
	delete(a.blocks, ptr)
	return nil
}

// Len reports the number of blocks DirectAllocator currently retains.
// Exposed for tests verifying Free actually released its reference.
func (a *DirectAllocator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.blocks)
}
