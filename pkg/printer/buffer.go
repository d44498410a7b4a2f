package printer

import (
	"fmt"
	"strings"
	"sync"
)

// Buffer accumulates dump text in memory — the equivalent of
// sprintf_printer_init's fixed-size scratch buffer, except it grows as
// needed rather than tracking a capacity and a write cursor by hand,
// since Go's strings.Builder already owns that bookkeeping safely.
type Buffer struct {
	mu sync.Mutex
	b  strings.Builder
}

// NewBuffer constructs an empty in-memory Printer, most useful in tests
// that want to assert on exact dump text.
func NewBuffer() *Buffer {
	return &Buffer{}
}

func (p *Buffer) Printf(format string, args ...any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := fmt.Fprintf(&p.b, format, args...)
	return err
}

// String returns everything written so far.
func (p *Buffer) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.b.String()
}

// Reset clears the buffer's contents, mirroring sprint_context_reset.
func (p *Buffer) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.b.Reset()
}
