package backtrace

import (
	"fmt"
	"runtime"
	"sync"
)

// UnwindBacktracer captures the same way FastBacktracer does, but can
// additionally resolve a captured instruction pointer to its function
// name and file:line via runtime.CallersFrames — the Go-idiomatic
// equivalent of the C UNWIND_BACKTRACE build's DWARF-based symbolizer.
//
// Resolving a frame via runtime.CallersFrames re-walks the module's
// symbol table on every call, so a dump that resolves hundreds of ips
// amortizes that cost across one Prepare/Post-bracketed session instead
// of paying module-lookup overhead per ip: a small cache is built lazily
// and cleared on Prepare.
type UnwindBacktracer struct {
	mu      sync.Mutex
	cache   map[uintptr]string
	caching bool
}

// NewUnwind constructs an UnwindBacktracer.
func NewUnwind() *UnwindBacktracer {
	return &UnwindBacktracer{}
}

func (u *UnwindBacktracer) Capture(skip, maxDepth int) ([]uintptr, error) {
	return captureFrames(skip, maxDepth)
}

// Prepare opens a symbolization session: resolved frames are memoized
// for the remainder of the session, since a dump typically re-resolves
// the same handful of call sites across many allocations.
func (u *UnwindBacktracer) Prepare() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.cache = make(map[uintptr]string)
	u.caching = true
}

// Post closes the symbolization session, discarding the memoization
// cache so a later session starts clean (symbol addresses are stable
// within one process run, but there is no reason to hold the memory
// between dumps).
func (u *UnwindBacktracer) Post() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.cache = nil
	u.caching = false
}

func (u *UnwindBacktracer) Symbolize(ip uintptr) string {
	u.mu.Lock()
	if u.caching {
		if sym, ok := u.cache[ip]; ok {
			u.mu.Unlock()
			return sym
		}
	}
	u.mu.Unlock()

	sym := resolve(ip)

	u.mu.Lock()
	if u.caching {
		u.cache[ip] = sym
	}
	u.mu.Unlock()

	return sym
}

// resolve turns one instruction pointer into "function (file:line)", or
// the hex-address fallback if the runtime can't place it in any known
// module — this happens for ips captured from cgo or stripped binaries.
func resolve(ip uintptr) string {
	// runtime.CallersFrames expects "the return address of a call", and
	// ip here already is one (runtime.Callers captures return addresses,
	// not call instructions), so no -1 adjustment is needed before the
	// lookup, unlike symbolizing a panic's recorded pcs.
	frames := runtime.CallersFrames([]uintptr{ip})
	frame, _ := frames.Next()
	if frame.Function == "" {
		return fmt.Sprintf("0x%x", ip)
	}
	return fmt.Sprintf("%s (%s:%d)", frame.Function, frame.File, frame.Line)
}
