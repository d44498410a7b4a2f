package allocator_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/memtracer/pkg/allocator"
	tracererrors "github.com/iamNilotpal/memtracer/pkg/errors"
)

func TestProtectingAllocator_CleanRoundTripReportsNoCorruption(t *testing.T) {
	p := allocator.NewProtecting(allocator.NewDirect())

	block, err := p.Allocate(16)
	require.NoError(t, err)
	assert.Len(t, block, 16)

	ptr := uintptr(unsafe.Pointer(unsafe.SliceData(block)))
	assert.NoError(t, p.Free(ptr))
}

func TestProtectingAllocator_OverflowWriteIsDetectedOnFree(t *testing.T) {
	p := allocator.NewProtecting(allocator.NewDirect())

	block, err := p.Allocate(8)
	require.NoError(t, err)
	ptr := uintptr(unsafe.Pointer(unsafe.SliceData(block)))

	// The returned slice's capacity deliberately extends through the
	// trailing canary, so writing past the requested length corrupts it —
	// exactly what an errant memcpy would do to the real heap.
	full := block[:cap(block)]
	for i := range full[len(block):] {
		full[len(block)+i] = 0xFF
	}

	err = p.Free(ptr)
	require.Error(t, err)

	integrityErr, ok := tracererrors.AsIntegrityError(err)
	require.True(t, ok)
	assert.NotEqual(t, integrityErr.ExpectedMagic(), integrityErr.ActualMagic())
}

func TestProtectingAllocator_FreeUnknownPointer(t *testing.T) {
	p := allocator.NewProtecting(allocator.NewDirect())
	err := p.Free(0xdeadbeef)
	assert.ErrorIs(t, err, allocator.ErrUnknownPointer)
}

func TestProtectingAllocator_ZeroSizeAllocationDoesNotPanic(t *testing.T) {
	p := allocator.NewProtecting(allocator.NewDirect())

	assert.NotPanics(t, func() {
		block, err := p.Allocate(0)
		require.NoError(t, err)
		assert.Len(t, block, 0)
	})
}
