package allocator_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/memtracer/pkg/allocator"
)

func TestDirectAllocator_AllocateFree(t *testing.T) {
	a := allocator.NewDirect()

	block, err := a.Allocate(32)
	require.NoError(t, err)
	assert.Len(t, block, 32)
	assert.Equal(t, 1, a.Len())

	ptr := uintptr(unsafe.Pointer(unsafe.SliceData(block)))
	require.NoError(t, a.Free(ptr))
	assert.Equal(t, 0, a.Len())
}

func TestDirectAllocator_ZeroSizeAllocationDoesNotPanic(t *testing.T) {
	a := allocator.NewDirect()

	assert.NotPanics(t, func() {
		block, err := a.Allocate(0)
		require.NoError(t, err)
		assert.Len(t, block, 0)
	})
}

func TestDirectAllocator_FreeUnknownPointer(t *testing.T) {
	a := allocator.NewDirect()
	err := a.Free(0xdeadbeef)
	assert.ErrorIs(t, err, allocator.ErrUnknownPointer)
}
