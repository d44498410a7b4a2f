// Package engine implements the Tracer's internal coordination: the
// single lock guarding the Allocation Index, the Path Index, the active
// allocator and the active printer, and the allocate/free/dump/get-used
// operations spec.md's façade exposes publicly through pkg/memtracer.
package engine

import (
	stdErrors "errors"
	"unsafe"

	"go.uber.org/multierr"

	"github.com/iamNilotpal/memtracer/internal/index"
	"github.com/iamNilotpal/memtracer/internal/pathtree"
	"github.com/iamNilotpal/memtracer/internal/record"
	"github.com/iamNilotpal/memtracer/pkg/allocator"
	"github.com/iamNilotpal/memtracer/pkg/archive"
	"github.com/iamNilotpal/memtracer/pkg/errors"
	"github.com/iamNilotpal/memtracer/pkg/options"
	"github.com/iamNilotpal/memtracer/pkg/printer"
)

var ErrEngineClosed = stdErrors.New("operation failed: cannot access closed engine")

func multierrAppend(combined, err error) error {
	return multierr.Append(combined, err)
}

// New constructs a fully wired Engine: it installs the Protecting
// Allocator wrapper around config.Allocator when OVERFLOW-CHECK is set
// (otherwise the supplied allocator is used directly), builds the
// Allocation Index and Path Index, and — when an archive directory is
// configured — installs the archiver as the default printer so dumps are
// captured to disk from the moment the Engine comes up.
func New(config *Config) (*Engine, error) {
	if config == nil || config.Options == nil || config.Logger == nil ||
		config.Allocator == nil || config.Backtracer == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "engine configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	active := config.Allocator
	if config.Options.Flags.Has(options.OverflowCheck) {
		active = allocator.NewProtecting(active)
	}

	allocIndex, err := index.New(&index.Config{Logger: config.Logger})
	if err != nil {
		return nil, err
	}

	var archiver *archive.Archiver
	var activePrinter printer.Printer = printer.NewStdout()

	if config.Options.ArchiveOptions != nil && config.Options.ArchiveOptions.Directory != "" {
		archiver, err = archive.New(&archive.Config{
			Options:       config.Options.ArchiveOptions,
			Logger:        config.Logger,
			FlushInterval: config.Options.FlushInterval,
		})
		if err != nil {
			return nil, err
		}
		activePrinter = archiver
	}

	config.Logger.Infow(
		"tracer engine initialized",
		"overflowCheck", config.Options.Flags.Has(options.OverflowCheck),
		"invalidFreeCheck", config.Options.Flags.Has(options.InvalidFreeCheck),
		"maxDepth", config.Options.MaxDepth,
		"archiving", archiver != nil,
	)

	return &Engine{
		log:        config.Logger,
		opts:       config.Options,
		allocator:  active,
		backtracer: config.Backtracer,
		alloc:      allocIndex,
		paths:      pathtree.New(),
		printer:    activePrinter,
		archiver:   archiver,
	}, nil
}

// Allocate requests size bytes from the active allocator, captures the
// call path, and tracks the result in both indices. Returns the user
// pointer, or an error (and no state change) if the allocator refused
// the request.
func (e *Engine) Allocate(size uint64) (uintptr, error) {
	if e.closed.Load() {
		return 0, ErrEngineClosed
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	block, err := e.allocator.Allocate(size)
	if err != nil {
		return 0, err
	}
	ptr := uintptr(unsafe.Pointer(unsafe.SliceData(block)))

	ips, err := e.backtracer.Capture(e.opts.MinSkip, e.opts.MaxDepth)
	if err != nil {
		// Per spec.md §7, a capture failure does not fail the
		// allocation — the record is still created, with an empty ip
		// buffer, and the failure is only observable in the log.
		e.log.Warnw("backtrace capture failed, recording allocation with empty path", "error", err, "pointer", ptr)
		ips = nil
	}

	fingerprint := record.Fingerprint(ips)
	rec := record.New(ptr, size, ips, fingerprint)

	if err := e.alloc.Insert(rec); err != nil {
		// The allocator returned a pointer already tracked — a
		// contract violation, not a recoverable condition (P1). Undo
		// the allocation rather than leave two records racing for the
		// same identity.
		_ = e.allocator.Free(ptr)
		return 0, err
	}

	if head, ok := e.paths.Find(fingerprint); ok {
		rec.MakeMember(head)
	} else {
		rec.MakeHead()
		e.paths.Insert(fingerprint, rec)
	}

	return ptr, nil
}

// Free releases ptr's memory and untracks its record, repairing the Path
// Index bucket per the head-promotion rule (§4.2) when necessary. If ptr
// is untracked and INVALID-FREE-CHECK is armed, a diagnostic is written
// to the active printer and the call returns without touching the
// allocator. If the Protecting Allocator detects canary corruption, the
// free still completes and a victim/killer diagnostic is logged and
// printed.
func (e *Engine) Free(ptr uintptr) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	rec, err := e.alloc.Remove(ptr)
	if err != nil {
		if e.opts.Flags.Has(options.InvalidFreeCheck) {
			e.reportInvalidFree(ptr)
		}
		return nil
	}

	// The canary check — and the killer lookup it can trigger — must run
	// against the still-intact Path Index, so allocator.Free happens
	// before unlinkPath touches rec's bucket (or deletes it outright when
	// rec is a lone head).
	freeErr := e.allocator.Free(ptr)

	var integrityErr *errors.IntegrityError
	if stdErrors.As(freeErr, &integrityErr) {
		e.reportOverflow(rec, integrityErr)
		e.unlinkPath(rec)
		return nil
	}

	e.unlinkPath(rec)
	return freeErr
}

// unlinkPath implements the Path Index's bucket-repair rule on free: a
// member detaches from its head's member list; a head with no members is
// simply removed from the tree; a head with members promotes the first
// member in place, without restructuring the tree itself.
func (e *Engine) unlinkPath(rec *record.PathRecord) {
	if rec.Role == record.RoleMember {
		head, ok := e.paths.Find(rec.Fingerprint)
		if ok {
			head.Members.Remove(rec.MemberElem)
		}
		return
	}

	if rec.Members.Len() == 0 {
		e.paths.Delete(rec.Fingerprint)
		return
	}

	front := rec.Members.Remove(rec.Members.Front()).(*record.PathRecord)
	front.Role = record.RoleHead
	front.Members = rec.Members
	front.MemberElem = nil
	e.paths.SetHead(rec.Fingerprint, front)
}

// Used sums the requested size of every live allocation.
func (e *Engine) Used() uint64 {
	if e.closed.Load() {
		return 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.alloc.Used()
}

// SetPrinter installs p as the active dump sink.
func (e *Engine) SetPrinter(p printer.Printer) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.printer = p
	return nil
}

// SetPathSeparator sets the string joining symbolised ip entries in a
// dump's path lines, truncating at options.MaxSeparatorLength payload
// bytes per the façade's contract.
func (e *Engine) SetPathSeparator(separator string) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}
	if separator == "" {
		return errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "path separator must not be empty",
		).WithField("separator").WithRule("required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if len(separator) > options.MaxSeparatorLength {
		separator = separator[:options.MaxSeparatorLength]
	}
	e.opts.Separator = separator
	return nil
}

// SetPathLimits sets both the minimum-skip count and the maximum
// capture depth in one call.
func (e *Engine) SetPathLimits(minSkip, maxDepth int) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}
	if minSkip < 0 || maxDepth <= 0 || minSkip >= maxDepth {
		return errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "invalid path limits",
		).WithField("minSkip").WithRule("0 <= minSkip < maxDepth").WithProvided([2]int{minSkip, maxDepth})
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.MinSkip = minSkip
	e.opts.MaxDepth = maxDepth
	return nil
}

// SetPathLength sets only the maximum capture depth, leaving MinSkip
// untouched.
func (e *Engine) SetPathLength(maxDepth int) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}
	if maxDepth <= 0 {
		return errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "max path length must be positive",
		).WithField("maxDepth").WithRule("> 0").WithProvided(maxDepth)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.MaxDepth = maxDepth
	return nil
}

// Close tears the Engine down: every live record is walked off the
// chronological list, its user memory released through the active
// allocator, before the Allocation Index and archiver (if any) are
// themselves closed. Teardown errors from each of those three steps are
// combined rather than the first one short-circuiting the rest, so a
// failure releasing one allocation doesn't prevent releasing the others.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrEngineClosed
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var combined error
	for elem := e.alloc.Chronological().Front(); elem != nil; elem = elem.Next() {
		rec := elem.Value.(*record.PathRecord)
		if err := e.allocator.Free(rec.Ptr); err != nil {
			combined = multierrAppend(combined, err)
		}
	}

	if err := e.alloc.Close(); err != nil {
		combined = multierrAppend(combined, err)
	}

	if e.archiver != nil {
		if err := e.archiver.Close(); err != nil {
			combined = multierrAppend(combined, err)
		}
	}

	e.log.Infow("tracer engine closed")
	return combined
}

func (e *Engine) reportInvalidFree(ptr uintptr) {
	err := errors.NewInvalidFreeError(ptr)
	e.log.Warnw("invalid free", "pointer", ptr, "error", err)
	_ = e.printer.Printf("Invalid free: pointer 0x%x was never tracked by this tracer\n", ptr)
}

func (e *Engine) reportOverflow(victim *record.PathRecord, integrityErr *errors.IntegrityError) {
	killer, hasKiller := e.paths.LeftChildOf(victim.Fingerprint)

	e.log.Errorw(
		"heap overflow detected",
		"victimPointer", victim.Ptr,
		"victimFingerprint", victim.Fingerprint,
		"canaryOffset", integrityErr.CanaryOffset(),
		"expectedMagic", integrityErr.ExpectedMagic(),
		"actualMagic", integrityErr.ActualMagic(),
		"hasKillerCandidate", hasKiller,
	)

	_ = e.printer.Printf("Heap overflow detected on free of 0x%x (fingerprint %08x)\n", victim.Ptr, victim.Fingerprint)
	if hasKiller {
		_ = e.printer.Printf(
			"  victim path fingerprint: %08x\n  likely killer path fingerprint: %08x (pointer 0x%x)\n",
			victim.Fingerprint, killer.Fingerprint, killer.Ptr,
		)
	} else {
		_ = e.printer.Printf("  no killer candidate available in the path index\n")
	}
}
