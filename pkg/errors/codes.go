package errors

// ErrorCode represents a standardized way to categorize different types of errors.
type ErrorCode string

// Base error codes represent the fundamental categories of failures that can
// occur across any software system. These codes provide the foundation layer
// of error classification.
const (
	// ErrorCodeIO represents failures in input/output operations across any
	// system boundary. The tracer itself does no file I/O, but the optional
	// archive printer does, and its failures are classified here.
	ErrorCodeIO ErrorCode = "IO_ERROR"

	// ErrorCodeInvalidInput represents client-side errors where the provided
	// data doesn't meet the system's requirements or constraints — a bad
	// separator, a zero max depth, min >= max, a nil allocator.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrorCodeInternal represents unexpected system failures that don't fit
	// into other categories: broken invariants, assertion failures, bugs.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Archive-specific error codes extend the base taxonomy to handle the
// failure modes of the optional dump-archiving printer, which persists
// dump text to a rotating sequence of files on disk.
const (
	// ErrorCodeArchiveCorrupted indicates an archive segment file's data has
	// been damaged or is in an inconsistent state.
	ErrorCodeArchiveCorrupted ErrorCode = "ARCHIVE_CORRUPTED"

	// ErrorCodeArchiveRecoveryFailed indicates the archiver's attempt to
	// resume writing to (or rotate away from) an existing segment file on
	// startup failed.
	ErrorCodeArchiveRecoveryFailed ErrorCode = "ARCHIVE_RECOVERY_FAILED"

	// ErrorCodePermissionDenied indicates insufficient permissions to access
	// a resource. Distinct from a generic IO error because it has a specific
	// resolution path: adjust permissions or run with elevated privileges.
	ErrorCodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	// ErrorCodeDiskFull indicates the archive's storage device has run out
	// of space.
	ErrorCodeDiskFull ErrorCode = "DISK_FULL"

	// ErrorCodeFilesystemReadonly indicates the archive's filesystem is
	// mounted read-only.
	ErrorCodeFilesystemReadonly ErrorCode = "FILESYSTEM_READONLY"
)

// Allocation-index-specific error codes address the specialized needs of
// tracking live allocations by pointer and by call-path fingerprint.
const (
	// ErrorCodePointerNotFound indicates a free() was issued for a pointer
	// the allocation index has no record of.
	ErrorCodePointerNotFound ErrorCode = "POINTER_NOT_FOUND"

	// ErrorCodeIndexCorrupted indicates the allocation index or path index's
	// structural invariants (P1, P5) have been violated — normally fatal.
	ErrorCodeIndexCorrupted ErrorCode = "INDEX_CORRUPTED"

	// ErrorCodeDuplicatePointer indicates the allocator handed back a
	// pointer already present in the allocation index — a fatal internal
	// bug per spec.md §4.2 ("must succeed... collision is a fatal internal
	// bug").
	ErrorCodeDuplicatePointer ErrorCode = "DUPLICATE_POINTER"
)

// Integrity-specific error codes cover the Protecting Allocator's
// red-zone/canary overflow detector and the tracer's invalid-free detector.
const (
	// ErrorCodeCanaryCorrupted indicates a red-zone canary or header magic
	// value did not match at free time — a heap-buffer overflow or
	// underflow was detected.
	ErrorCodeCanaryCorrupted ErrorCode = "CANARY_CORRUPTED"

	// ErrorCodeInvalidFree indicates free() was called with a pointer the
	// tracer never handed out.
	ErrorCodeInvalidFree ErrorCode = "INVALID_FREE"

	// ErrorCodeAllocatorOOM indicates the inner allocator refused a request.
	ErrorCodeAllocatorOOM ErrorCode = "ALLOCATOR_OOM"

	// ErrorCodeBacktraceFailed indicates the configured Backtracer returned
	// an error during capture; per spec.md §7 the record is still created,
	// with an empty ip buffer.
	ErrorCodeBacktraceFailed ErrorCode = "BACKTRACE_FAILED"
)
