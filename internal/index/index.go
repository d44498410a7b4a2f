// Package index implements the Allocation Index: the tracer's map from a
// live pointer to its bookkeeping record, ordered two ways at once — by
// pointer value, for O(log n) lookup and removal on free, and by
// allocation order, for the chronological dump.
package index

import (
	"container/list"
	stdErrors "errors"

	"github.com/google/btree"

	"github.com/iamNilotpal/memtracer/internal/record"
	tracererrors "github.com/iamNilotpal/memtracer/pkg/errors"
)

var ErrIndexClosed = stdErrors.New("operation failed: cannot access closed allocation index")

const defaultDegree = 32

func lessByPtr(a, b *record.PathRecord) bool {
	return a.Ptr < b.Ptr
}

// New creates an empty Allocation Index.
func New(config *Config) (*Index, error) {
	if config == nil || config.Logger == nil {
		return nil, tracererrors.NewValidationError(
			nil, tracererrors.ErrorCodeInvalidInput, "index configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	degree := config.Degree
	if degree <= 0 {
		degree = defaultDegree
	}

	return &Index{
		log:    config.Logger,
		byPtr:  btree.NewG(degree, lessByPtr),
		chrono: list.New(),
	}, nil
}

// Insert adds rec to both orderings. A second insert under a pointer that
// is already tracked is an allocator contract violation: Insert keeps the
// existing record, leaves rec unlinked and returns a duplicate-pointer
// error for the caller to report, rather than silently tolerating it.
func (idx *Index) Insert(rec *record.PathRecord) error {
	if idx.closed.Load() {
		return ErrIndexClosed
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if existing, ok := idx.byPtr.ReplaceOrInsert(rec); ok {
		// Restore the record the accidental replace just evicted and
		// surface the collision — the caller's allocator contract was
		// violated, this index must not silently absorb it.
		idx.byPtr.ReplaceOrInsert(existing)
		return tracererrors.NewDuplicatePointerError(rec.Ptr, idx.byPtr.Len())
	}

	rec.Chrono = idx.chrono.PushBack(rec)
	return nil
}

// Get returns the record tracked for ptr, if any.
func (idx *Index) Get(ptr uintptr) (*record.PathRecord, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.closed.Load() {
		return nil, false
	}
	return idx.byPtr.Get(&record.PathRecord{Ptr: ptr})
}

// Remove extracts ptr's record from both orderings and returns it, or
// reports ErrPointerNotFound if the tracer never returned ptr (or it was
// already freed).
func (idx *Index) Remove(ptr uintptr) (*record.PathRecord, error) {
	if idx.closed.Load() {
		return nil, ErrIndexClosed
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	rec, ok := idx.byPtr.Delete(&record.PathRecord{Ptr: ptr})
	if !ok {
		return nil, tracererrors.NewPointerNotFoundError(ptr)
	}

	idx.chrono.Remove(rec.Chrono)
	rec.Chrono = nil
	return rec, nil
}

// Len reports the number of live allocations currently tracked.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.byPtr.Len()
}

// Used sums the requested size of every live allocation. This is
// deliberately O(live-count), not O(1): there is no running total to keep
// consistent across every insert/remove/promote path, and a single pass
// over the chronological list is cheap relative to allocate/free
// themselves, which already pay for a backtrace capture.
func (idx *Index) Used() uint64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var total uint64
	for e := idx.chrono.Front(); e != nil; e = e.Next() {
		total += e.Value.(*record.PathRecord).Size
	}
	return total
}

// Chronological returns the allocation-ordered list of every live record,
// oldest first. Callers (the dump reporter) must not mutate the returned
// list; it is the index's own backing list.
func (idx *Index) Chronological() *list.List {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.chrono
}

// Close releases the Allocation Index's backing structures. It does not
// free the records it held; the caller (the tracer) owns that.
func (idx *Index) Close() error {
	if !idx.closed.CompareAndSwap(false, true) {
		return ErrIndexClosed
	}

	idx.log.Infow("closing allocation index", "live_allocations", idx.byPtr.Len())

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.byPtr.Clear(false)
	idx.chrono.Init()
	return nil
}
