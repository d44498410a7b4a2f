package printer

import (
	"fmt"
	"io"
)

// Writer adapts any io.Writer into a Printer — the equivalent of
// fprintf_printer_init, generalized past *os.File to whatever
// destination the caller already has (a network connection, an open
// file, an in-memory pipe).
type Writer struct {
	w io.Writer
}

// NewWriter wraps w as a Printer.
func NewWriter(w io.Writer) Writer {
	return Writer{w: w}
}

func (p Writer) Printf(format string, args ...any) error {
	_, err := fmt.Fprintf(p.w, format, args...)
	return err
}
