package printer_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamNilotpal/memtracer/pkg/printer"
)

func TestBuffer_PrintfAccumulatesAndReset(t *testing.T) {
	buf := printer.NewBuffer()

	require.NoError(t, buf.Printf("Memory: 0x%x Size: %d\n", 0x1000, 16))
	require.NoError(t, buf.Printf("Memory: 0x%x Size: %d\n", 0x2000, 32))

	assert.Equal(t, "Memory: 0x1000 Size: 16\nMemory: 0x2000 Size: 32\n", buf.String())

	buf.Reset()
	assert.Empty(t, buf.String())
}

func TestWriter_WritesToUnderlyingIOWriter(t *testing.T) {
	var out bytes.Buffer
	w := printer.NewWriter(&out)

	require.NoError(t, w.Printf("hello %s\n", "world"))
	assert.Equal(t, "hello world\n", out.String())
}
