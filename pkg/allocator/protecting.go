package allocator

import (
	"encoding/binary"
	"sync"
	"unsafe"

	tracererrors "github.com/iamNilotpal/memtracer/pkg/errors"
)

const (
	wordSize     = 8
	headerSize   = 4 + 8 // front magic (uint32) + aligned user size (uint64)
	trailerSize  = 4     // trailing canary magic (uint32)
	canaryMagic  = uint32(0xC0FFEE5E)
)

// alignUp rounds n up to the next multiple of wordSize.
func alignUp(n uint64) uint64 {
	return (n + wordSize - 1) &^ (wordSize - 1)
}

type protectedBlock struct {
	base    uintptr // identity handed to the inner allocator
	storage []byte  // header + aligned user region + trailer, in one piece
	aligned uint64
}

// ProtectingAllocator decorates an inner Allocator, padding every block
// with a magic marker before the user region and an identical marker
// immediately after it. On free, both markers are checked; a mismatch
// means something wrote past the bounds the caller requested, and Free
// reports it via an *errors.IntegrityError without refusing to release
// the block — doing otherwise would turn a detected overflow into a
// leak on top of the corruption.
//
// Block layout (all offsets relative to the inner allocator's returned
// address):
//
//	[0:4)                front magic
//	[4:12)                aligned user size
//	[12:12+aligned)      user region (the pointer the tracer hands out
//	                      points at offset 12)
//	[12+aligned:+4)      trailing magic (the red-zone canary)
type ProtectingAllocator struct {
	inner Allocator

	mu   sync.Mutex
	live map[uintptr]*protectedBlock
}

// NewProtecting wraps inner with red-zone canary checking.
func NewProtecting(inner Allocator) *ProtectingAllocator {
	return &ProtectingAllocator{inner: inner, live: make(map[uintptr]*protectedBlock)}
}

// Allocate requests align-up(n, word) + header + trailer bytes from the
// inner allocator, stamps both magic markers, and returns a slice
// representing the user's n-byte region. The returned slice's capacity
// extends through the trailing canary rather than stopping at n — this is
// deliberate: it's what lets a caller (or a test simulating a heap
// overflow) write past the requested length and actually corrupt the
// canary Free will detect, the same way an errant memcpy would in the
// original C block.
func (p *ProtectingAllocator) Allocate(n uint64) ([]byte, error) {
	aligned := alignUp(n)
	total := headerSize + aligned + trailerSize

	storage, err := p.inner.Allocate(total)
	if err != nil {
		return nil, err
	}

	binary.LittleEndian.PutUint32(storage[0:4], canaryMagic)
	binary.LittleEndian.PutUint64(storage[4:12], aligned)
	binary.LittleEndian.PutUint32(storage[headerSize+aligned:headerSize+aligned+trailerSize], canaryMagic)

	base := uintptr(unsafe.Pointer(&storage[0]))
	userPtr := uintptr(unsafe.Pointer(&storage[headerSize]))

	p.mu.Lock()
	p.live[userPtr] = &protectedBlock{base: base, storage: storage, aligned: aligned}
	p.mu.Unlock()

	return storage[headerSize : headerSize+n : headerSize+aligned+trailerSize], nil
}

// Free validates both magic markers for the block at ptr, then always
// releases it through the inner allocator regardless of the outcome. An
// *errors.IntegrityError return means the canary check failed — the free
// still happened, but the caller (the Tracer) should treat the error as a
// corruption diagnostic, not a failure of Free itself. ErrUnknownPointer
// means ptr is not a live block of this allocator and nothing was freed;
// an error from the inner allocator's Free is returned in place of any
// canary diagnostic.
func (p *ProtectingAllocator) Free(ptr uintptr) error {
	p.mu.Lock()
	block, ok := p.live[ptr]
	if ok {
		delete(p.live, ptr)
	}
	p.mu.Unlock()

	if !ok {
		return ErrUnknownPointer
	}

	var corruption error
	frontMagic := binary.LittleEndian.Uint32(block.storage[0:4])
	if frontMagic != canaryMagic {
		corruption = tracererrors.NewCanaryCorruptedError(ptr, 0, canaryMagic, frontMagic)
	} else {
		trailerOffset := headerSize + block.aligned
		trailerMagic := binary.LittleEndian.Uint32(block.storage[trailerOffset : trailerOffset+4])
		if trailerMagic != canaryMagic {
			corruption = tracererrors.NewCanaryCorruptedError(ptr, int(trailerOffset), canaryMagic, trailerMagic)
		}
	}

	if err := p.inner.Free(block.base); err != nil {
		// Losing the underlying allocator's own bookkeeping is the more
		// serious fault; it takes priority over a canary diagnostic.
		return err
	}
	return corruption
}
