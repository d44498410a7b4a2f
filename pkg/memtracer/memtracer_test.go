package memtracer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/memtracer/pkg/allocator"
	"github.com/iamNilotpal/memtracer/pkg/memtracer"
	"github.com/iamNilotpal/memtracer/pkg/options"
	"github.com/iamNilotpal/memtracer/pkg/printer"
)

func TestNew_RequiresNonNilConfigAndAllocator(t *testing.T) {
	_, err := memtracer.New(nil)
	assert.Error(t, err)

	_, err = memtracer.New(&memtracer.Config{})
	assert.Error(t, err, "a config without an allocator must be rejected")
}

func TestNew_BuildsAWorkingTracerWithDefaults(t *testing.T) {
	tracer, err := memtracer.New(&memtracer.Config{Service: "memtracer-test", Allocator: allocator.NewDirect()})
	require.NoError(t, err)
	defer tracer.Close()

	ptr, err := tracer.Allocate(32)
	require.NoError(t, err)
	assert.NotZero(t, ptr)
	assert.Equal(t, uint64(32), tracer.Used())

	require.NoError(t, tracer.Free(ptr))
	assert.Equal(t, uint64(0), tracer.Used())
}

func TestTracer_DumpWritesToInstalledPrinter(t *testing.T) {
	tracer, err := memtracer.New(&memtracer.Config{Service: "memtracer-test", Allocator: allocator.NewDirect()})
	require.NoError(t, err)
	defer tracer.Close()

	buf := printer.NewBuffer()
	require.NoError(t, tracer.SetPrinter(buf))

	_, err = tracer.Allocate(16)
	require.NoError(t, err)

	require.NoError(t, tracer.Dump(memtracer.Sequence))
	assert.True(t, strings.Contains(buf.String(), "Memory Tracer Dump"))
	assert.True(t, strings.Contains(buf.String(), "Size: 16"))
}

func TestTracer_SetPathLimitsRejectsInvalidBounds(t *testing.T) {
	tracer, err := memtracer.New(&memtracer.Config{Service: "memtracer-test", Allocator: allocator.NewDirect()})
	require.NoError(t, err)
	defer tracer.Close()

	assert.Error(t, tracer.SetPathLimits(5, 5))
	assert.Error(t, tracer.SetPathLimits(-1, 10))
	assert.NoError(t, tracer.SetPathLimits(1, 10))
}

// depthRecorder is a Backtracer that captures nothing and remembers the
// maxDepth of its most recent Capture call.
type depthRecorder struct{ maxDepth int }

func (d *depthRecorder) Capture(_, maxDepth int) ([]uintptr, error) {
	d.maxDepth = maxDepth
	return nil, nil
}
func (d *depthRecorder) Symbolize(uintptr) string { return "" }
func (d *depthRecorder) Prepare()                 {}
func (d *depthRecorder) Post()                    {}

func TestTracer_OptionsAreAppliedInOrder(t *testing.T) {
	bt := &depthRecorder{}
	tracer, err := memtracer.New(
		&memtracer.Config{Service: "memtracer-test", Allocator: allocator.NewDirect(), Backtracer: bt},
		options.WithMaxDepth(4),
		options.WithMaxDepth(8),
	)
	require.NoError(t, err)
	defer tracer.Close()

	_, err = tracer.Allocate(8)
	require.NoError(t, err)
	assert.Equal(t, 8, bt.maxDepth, "the later WithMaxDepth overrides the earlier one")

	require.NoError(t, tracer.SetPathLength(20))
}
