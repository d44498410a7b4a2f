// Package printer implements the Printer collaborator: an abstract sink
// for the formatted text a dump produces. The core calls Printf during
// dump and for the invalid-free and heap-overflow diagnostics of free,
// always under the Tracer's lock — implementations must not call back
// into the Tracer.
//
// Grounded on original_source/base/printer.h's three sinks
// (printf_printer, fprintf_printer, sprintf_printer) — a single-method
// vtable selecting where vprintf's output lands. Re-expressed here as
// three concrete Go types implementing one interface instead of a
// function-pointer swap.
package printer

// Printer accepts one formatted line (or block) of dump text at a time.
type Printer interface {
	Printf(format string, args ...any) error
}
