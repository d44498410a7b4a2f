// Package record defines the Path Record: the per-allocation bookkeeping
// node the tracer threads through three intrusive containers at once — the
// Allocation Index's pointer-ordered map, its chronological list, and the
// Path Index's fingerprint-keyed bucket.
//
// Per the source's own design notes, a record owns all of its link slots;
// the containers that reference it hold only borrowed positions, never
// ownership. The Tracer alone owns the records, and frees them by walking
// off of the chronological list at teardown.
package record

import "container/list"

// Role distinguishes the two shapes a live record can take within its
// path-index bucket: a tagged variant rather than the overlapped-storage
// union the C source used for the same purpose.
type Role uint8

const (
	// RoleHead means this record is the bucket's representative entry in
	// the Path Index, owning the list of its bucket's other members.
	RoleHead Role = iota

	// RoleMember means this record shares its fingerprint with some head
	// elsewhere and is linked into that head's Members list.
	RoleMember
)

// PathRecord is one live allocation's bookkeeping node. It is a single
// value that participates in the pointer-ordered map (by Ptr), the
// chronological list (via Chrono), and the path-index bucket (via Role,
// Members and MemberElem).
type PathRecord struct {
	// Ptr is the user-visible address returned to the caller by allocate.
	Ptr uintptr

	// Size is the number of bytes originally requested, excluding any
	// red-zone padding the Protecting Allocator added.
	Size uint64

	// IPs is the captured instruction-pointer sequence, deepest frame
	// first, truncated to the tracer's configured maximum depth. An empty
	// slice is legal — it happens when the Backtracer captures nothing or
	// fails.
	IPs []uintptr

	// Fingerprint is the CRC-32 checksum of the raw bytes of IPs; it is
	// this record's Path Index bucket key.
	Fingerprint uint32

	// Chrono is this record's element in the Allocation Index's
	// chronological list. The list's element value is always the
	// *PathRecord itself.
	Chrono *list.Element

	// Role reports whether this record is a bucket head or a member.
	Role Role

	// Members holds the bucket's other records when Role == RoleHead.
	// Insertion order is preserved; nil when Role == RoleMember.
	Members *list.List

	// MemberElem is this record's element within its head's Members list
	// when Role == RoleMember; nil when Role == RoleHead.
	MemberElem *list.Element
}

// New constructs a fresh, unlinked Path Record. The caller is responsible
// for inserting it into the Allocation Index and Path Index.
func New(ptr uintptr, size uint64, ips []uintptr, fingerprint uint32) *PathRecord {
	return &PathRecord{Ptr: ptr, Size: size, IPs: ips, Fingerprint: fingerprint}
}

// MakeHead initializes this record as a bucket head with an empty member list.
func (r *PathRecord) MakeHead() {
	r.Role = RoleHead
	r.Members = list.New()
	r.MemberElem = nil
}

// MakeMember initializes this record as a member of head's bucket, appending
// it to head's Members list.
func (r *PathRecord) MakeMember(head *PathRecord) {
	r.Role = RoleMember
	r.Members = nil
	r.MemberElem = head.Members.PushBack(r)
}
