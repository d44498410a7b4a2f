package engine

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/iamNilotpal/memtracer/internal/index"
	"github.com/iamNilotpal/memtracer/internal/pathtree"
	"github.com/iamNilotpal/memtracer/pkg/allocator"
	"github.com/iamNilotpal/memtracer/pkg/archive"
	"github.com/iamNilotpal/memtracer/pkg/backtrace"
	"github.com/iamNilotpal/memtracer/pkg/options"
	"github.com/iamNilotpal/memtracer/pkg/printer"
)

// DumpMode selects how dump renders the currently-live allocations.
type DumpMode int

const (
	// Sequence renders every live record in the chronological order it
	// was allocated.
	Sequence DumpMode = iota

	// Sorted renders records grouped by call-path fingerprint, each
	// bucket's head followed by its members, with a per-bucket subtotal.
	Sorted
)

// Engine is the Tracer's internal coordinator: it owns the Allocation
// Index, the Path Index, the Backtracer, the active allocator and
// printer, and the single lock serializing every operation against them.
//
// This replaces the teacher's internal/engine, which coordinated an
// index/storage/compaction trio for a key-value store; the shape — one
// Config-constructed struct owning its subsystems behind a lock, torn
// down by Close — is kept, but every subsystem underneath is this
// domain's own.
type Engine struct {
	log    *zap.SugaredLogger
	opts   *options.Options
	mu     sync.Mutex
	closed atomic.Bool

	allocator  allocator.Allocator
	backtracer backtrace.Backtracer
	alloc      *index.Index
	paths      *pathtree.Tree
	printer    printer.Printer
	archiver   *archive.Archiver
}

// Config holds the parameters needed to initialize an Engine.
type Config struct {
	Options    *options.Options
	Logger     *zap.SugaredLogger
	Allocator  allocator.Allocator
	Backtracer backtrace.Backtracer
}
