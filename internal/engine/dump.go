package engine

import (
	"strings"
	"time"

	"github.com/iamNilotpal/memtracer/internal/record"
)

const banner = "\n\n******************************************************\n" +
	"*                  Memory Tracer Dump                *\n" +
	"******************************************************\n"

// Dump renders every live allocation through the active printer, in the
// order mode selects, and finishes with the total bytes in use and a
// wall-clock stamp. The Backtracer's prepare/post pair brackets the
// whole iteration so an implementation caching symbol lookups gets one
// session per dump rather than one per record.
func (e *Engine) Dump(mode DumpMode) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.printer.Printf(banner); err != nil {
		return err
	}

	e.backtracer.Prepare()
	var used uint64
	var err error
	switch mode {
	case Sorted:
		used, err = e.dumpSorted()
	default:
		used, err = e.dumpSequence()
	}
	e.backtracer.Post()
	if err != nil {
		return err
	}

	now := time.Now()
	if err := e.printer.Printf("\nTotal Used: %d B (%.2f KB)\n", used, float64(used)/1024); err != nil {
		return err
	}
	return e.printer.Printf("Time: %s\n\n", now.Format(time.ANSIC))
}

// dumpSequence walks the Allocation Index's chronological list, emitting
// one path line and one allocation line per live record, in the order
// each allocate call took the lock.
func (e *Engine) dumpSequence() (uint64, error) {
	var used uint64
	for elem := e.alloc.Chronological().Front(); elem != nil; elem = elem.Next() {
		rec := elem.Value.(*record.PathRecord)
		if err := e.printPath(rec); err != nil {
			return used, err
		}
		if err := e.printer.Printf("\tMemory: 0x%x Size: %d\n", rec.Ptr, rec.Size); err != nil {
			return used, err
		}
		used += rec.Size
	}
	return used, nil
}

// dumpSorted walks the Path Index in ascending fingerprint order. Each
// bucket emits its path once, the head's allocation line, then every
// member's, followed by a subtotal that adds the head's Size once and then
// every member's own Size — a member's line never reuses the head's size,
// so the head is not double-counted in a bucket with more than one member.
func (e *Engine) dumpSorted() (uint64, error) {
	var used uint64
	var err error

	e.paths.InOrder(func(_ uint32, head *record.PathRecord) {
		if err != nil {
			return
		}

		var subtotal uint64
		if perr := e.printPath(head); perr != nil {
			err = perr
			return
		}
		if perr := e.printer.Printf("\tMemory: 0x%x Size: %d\n", head.Ptr, head.Size); perr != nil {
			err = perr
			return
		}
		subtotal += head.Size

		for m := head.Members.Front(); m != nil; m = m.Next() {
			member := m.Value.(*record.PathRecord)
			if perr := e.printer.Printf("\tMemory: 0x%x Size: %d\n", member.Ptr, member.Size); perr != nil {
				err = perr
				return
			}
			subtotal += member.Size
		}

		if perr := e.printer.Printf(" \tMemory Used: %d B (%.2f KB)\n", subtotal, float64(subtotal)/1024); perr != nil {
			err = perr
			return
		}
		used += subtotal
	})

	return used, err
}

// printPath renders a record's call path: "<Path>: " followed by each
// captured ip, symbolised and joined by the configured separator.
// Unresolved ips fall back to "0x%x" per the Backtracer's own contract.
func (e *Engine) printPath(rec *record.PathRecord) error {
	var b strings.Builder
	b.WriteString("<Path>: ")
	for i, ip := range rec.IPs {
		if i > 0 {
			b.WriteString(e.opts.Separator)
		}
		b.WriteString(e.backtracer.Symbolize(ip))
	}
	b.WriteString("\n")
	return e.printer.Printf("%s", b.String())
}
