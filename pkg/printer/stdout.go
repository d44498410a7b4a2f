package printer

import (
	"fmt"
	"os"
)

// Stdout is the default sink — the Go equivalent of printf_printer_init,
// writing directly to the process's standard output.
type Stdout struct{}

// NewStdout constructs the default Printer the Tracer installs at
// initialise time.
func NewStdout() Stdout {
	return Stdout{}
}

func (Stdout) Printf(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}
