package engine_test

import (
	"fmt"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/memtracer/internal/record"
	"github.com/iamNilotpal/memtracer/pkg/options"
)

// TestEngine_OverflowReportsKillerFromStillIntactPathIndex exercises the
// full Engine.Free path: two call paths are allocated so their Path Index
// nodes land as literal left-child siblings (the larger fingerprint
// allocated first becomes the bucket tree's root; the smaller one,
// allocated second, becomes its left child per pathtree's plain BST
// insertion). The root's allocation is then corrupted past its canary, the
// same unsafe.Pointer + extended-length technique pkg/allocator's own
// overflow test uses, and freeing it must report the left-child bucket as
// the killer candidate — which only works if the killer lookup runs while
// the victim's tree node (and its left child) are still present, i.e.
// before unlinkPath has torn the bucket down.
func TestEngine_OverflowReportsKillerFromStillIntactPathIndex(t *testing.T) {
	ipsA := []uintptr{0x1001}
	ipsB := []uintptr{0x2002}

	fpA := record.Fingerprint(ipsA)
	fpB := record.Fingerprint(ipsB)
	require.NotEqual(t, fpA, fpB, "test ip sequences must hash to distinct fingerprints")

	// Allocate the larger fingerprint first so it becomes the tree's root,
	// then the smaller one so it lands as the root's literal left child.
	victimIPs, killerIPs := ipsA, ipsB
	victimFP, killerFP := fpA, fpB
	if fpA < fpB {
		victimIPs, killerIPs = ipsB, ipsA
		victimFP, killerFP = fpB, fpA
	}

	opts := options.NewDefaultOptions()
	options.WithOverflowCheck()(&opts)

	bt := &scriptedBacktracer{script: victimIPs}
	eng, buf := newTestEngine(t, bt, &opts)
	defer eng.Close()

	victimPtr, err := eng.Allocate(8)
	require.NoError(t, err)

	bt.script = killerIPs
	_, err = eng.Allocate(8)
	require.NoError(t, err)

	// The Protecting Allocator aligns an 8-byte request to 8 bytes with no
	// slack, so byte index 8 (one past the user region) is the first byte
	// of the trailing canary.
	corrupted := unsafe.Slice((*byte)(unsafe.Pointer(victimPtr)), 9)
	corrupted[8] = 0xFF

	require.NoError(t, eng.Free(victimPtr))

	out := buf.String()
	assert.Contains(t, out, "Heap overflow detected")
	assert.Contains(t, out, fmt.Sprintf("victim path fingerprint: %08x", victimFP))
	assert.Contains(t, out, fmt.Sprintf("likely killer path fingerprint: %08x", killerFP))
}
