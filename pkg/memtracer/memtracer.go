// Package memtracer is the public façade: a tracer instance that wraps a
// user-supplied allocator, records the call path behind every allocation,
// and dumps live allocations grouped by path or in chronological order.
//
// This replaces pkg/ignite, the teacher's key-value store façade — the
// shape survives (a Config-constructed Instance holding one internal
// engine plus the options it was built with), but every operation below
// is this domain's own: allocate/free/dump/get-used/set-printer/
// set-path-separator/set-path-limits/set-path-length, not set/get/delete.
package memtracer

import (
	"github.com/iamNilotpal/memtracer/internal/engine"
	"github.com/iamNilotpal/memtracer/pkg/allocator"
	"github.com/iamNilotpal/memtracer/pkg/backtrace"
	"github.com/iamNilotpal/memtracer/pkg/errors"
	"github.com/iamNilotpal/memtracer/pkg/logger"
	"github.com/iamNilotpal/memtracer/pkg/options"
	"github.com/iamNilotpal/memtracer/pkg/printer"
)

func errNilConfig() error {
	return errors.NewValidationError(
		nil, errors.ErrorCodeInvalidInput, "tracer configuration with a non-nil allocator is required",
	).WithField("config").WithRule("required")
}

// DumpMode selects how Dump renders the currently-live allocations.
type DumpMode = engine.DumpMode

const (
	// Sequence renders every live record in chronological allocation order.
	Sequence = engine.Sequence

	// Sorted renders records grouped by call-path fingerprint.
	Sorted = engine.Sorted
)

// Tracer is the public entry point: construct one with New, feed it
// Allocate/Free calls, and Dump it on demand. A Tracer is safe for
// concurrent use — every operation serializes on the underlying engine's
// lock.
type Tracer struct {
	engine *engine.Engine
}

// Config controls how a Tracer is built.
type Config struct {
	// Service names this tracer instance in its structured logs.
	Service string

	// Allocator is the user-supplied memory source every Allocate call
	// is forwarded to. Required.
	Allocator allocator.Allocator

	// Backtracer captures and symbolises call paths. Defaults to
	// backtrace.NewUnwind() when nil.
	Backtracer backtrace.Backtracer
}

// New constructs a fully wired Tracer. opts are applied over
// options.NewDefaultOptions() in order, so a later WithX call overrides
// an earlier one.
func New(config *Config, opts ...options.OptionFunc) (*Tracer, error) {
	if config == nil || config.Allocator == nil {
		return nil, errNilConfig()
	}

	log := logger.New(config.Service)

	defaultOpts := options.NewDefaultOptions()
	for _, opt := range opts {
		opt(&defaultOpts)
	}

	bt := config.Backtracer
	if bt == nil {
		bt = backtrace.NewUnwind()
	}

	eng, err := engine.New(&engine.Config{
		Options:    &defaultOpts,
		Logger:     log,
		Allocator:  config.Allocator,
		Backtracer: bt,
	})
	if err != nil {
		return nil, err
	}

	return &Tracer{engine: eng}, nil
}

// Allocate requests size bytes and records the call path behind the
// request, returning the allocated pointer.
func (t *Tracer) Allocate(size uint64) (uintptr, error) {
	return t.engine.Allocate(size)
}

// Free releases a previously allocated pointer.
func (t *Tracer) Free(ptr uintptr) error {
	return t.engine.Free(ptr)
}

// Dump renders every live allocation through the active printer.
func (t *Tracer) Dump(mode DumpMode) error {
	return t.engine.Dump(mode)
}

// Used reports the total bytes currently live.
func (t *Tracer) Used() uint64 {
	return t.engine.Used()
}

// SetPrinter installs p as the active dump sink.
func (t *Tracer) SetPrinter(p printer.Printer) error {
	return t.engine.SetPrinter(p)
}

// SetPathSeparator sets the string joining symbolised ip entries in a
// dump's path lines.
func (t *Tracer) SetPathSeparator(separator string) error {
	return t.engine.SetPathSeparator(separator)
}

// SetPathLimits sets both the minimum-skip count and the maximum
// capture depth.
func (t *Tracer) SetPathLimits(minSkip, maxDepth int) error {
	return t.engine.SetPathLimits(minSkip, maxDepth)
}

// SetPathLength sets only the maximum capture depth.
func (t *Tracer) SetPathLength(maxDepth int) error {
	return t.engine.SetPathLength(maxDepth)
}

// Close tears the tracer down, releasing every still-live allocation.
func (t *Tracer) Close() error {
	return t.engine.Close()
}
