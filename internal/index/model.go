package index

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/google/btree"
	"go.uber.org/zap"

	"github.com/iamNilotpal/memtracer/internal/record"
)

// Index is the Allocation Index: the tracer's single map from a live
// pointer to its Path Record, plus the chronological order those pointers
// were allocated in.
//
// The pointer-ordered map is a google/btree.BTreeG keyed by Ptr — an
// ordinary balanced tree is the right structure here because lookups only
// ever need "the record for this exact pointer," never a node's literal
// left child. That asymmetric requirement is what the Path Index needs a
// hand-rolled tree for instead.
//
// The chronological list is a plain container/list.List; every Path
// Record's Chrono field is its own element within it, so removing a freed
// record from chronological order is O(1) with no search.
type Index struct {
	log    *zap.SugaredLogger
	byPtr  *btree.BTreeG[*record.PathRecord]
	chrono *list.List
	mu     sync.RWMutex
	closed atomic.Bool
}

// Config encapsulates the parameters required to initialize an Index.
type Config struct {
	Logger *zap.SugaredLogger
	Degree int // BTreeG degree; 0 or less selects this package's defaultDegree (32).
}
