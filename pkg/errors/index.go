package errors

// IndexError provides specialized error handling for allocation-index and
// path-index operations. This structure extends the base error system with
// index-specific context while properly supporting method chaining through
// all base error methods.
type IndexError struct {
	// Embed the base error to inherit all standard error functionality
	// including error chaining, structured details, and error codes.
	*baseError

	// Identifies which pointer was being processed when the error occurred.
	// This is particularly valuable for debugging because it tells you exactly
	// which allocation was involved in the failed operation.
	pointer uintptr

	// Identifies the call-path fingerprint involved in the error, if any.
	// This links allocation-index errors back to the path-index bucket that
	// grouped the offending record.
	fingerprint uint32

	// Describes what index operation was being performed when the error
	// occurred (e.g., "Allocate", "Free", "Dump", "GetUsed"). This context
	// helps understand the system state and user actions that led to the error.
	operation string

	// Captures the number of live allocations tracked at the time of the
	// error. This information helps diagnose accounting-related issues and
	// provides context about the scale of the system when problems occur.
	indexSize int

	// Estimates how many bytes of live allocations the index was tracking
	// when the error occurred. This helps diagnose accounting-related issues
	// and provides context for capacity planning decisions.
	memoryUsage int64
}

// NewIndexError creates a new index-specific error with the provided context.
// This constructor follows the same pattern as other error types in the system,
// taking a causing error, error code, and descriptive message.
func NewIndexError(err error, code ErrorCode, msg string) *IndexError {
	return &IndexError{
		baseError: NewBaseError(err, code, msg),
	}
}

// Override base error methods to return *IndexError instead of *baseError.

// WithMessage updates the error message while maintaining the IndexError type.
func (ie *IndexError) WithMessage(msg string) *IndexError {
	ie.baseError.WithMessage(msg)
	return ie
}

// WithCode sets the error code while preserving the IndexError type.
func (ie *IndexError) WithCode(code ErrorCode) *IndexError {
	ie.baseError.WithCode(code)
	return ie
}

// WithDetail adds contextual information while maintaining the IndexError type.
func (ie *IndexError) WithDetail(key string, value any) *IndexError {
	ie.baseError.WithDetail(key, value)
	return ie
}

// Index-specific methods that add domain-specific context to the error.
// These methods enable comprehensive error reporting for index operations
// while maintaining the fluent interface pattern for readable error construction.

// WithPointer records which pointer was being processed when the error
// occurred. This information proves invaluable for debugging because it
// enables reproduction of the error by attempting the same operation on
// the same pointer.
func (ie *IndexError) WithPointer(ptr uintptr) *IndexError {
	ie.pointer = ptr
	return ie
}

// WithFingerprint captures which call-path fingerprint was involved in the
// error. This information provides a direct link between index errors and
// the path-index bucket, facilitating cross-layer debugging.
func (ie *IndexError) WithFingerprint(fingerprint uint32) *IndexError {
	ie.fingerprint = fingerprint
	return ie
}

// WithOperation records what index operation was being performed.
// This context helps understand the system state and operation sequence
// that led to the error condition, enabling more effective debugging.
func (ie *IndexError) WithOperation(operation string) *IndexError {
	ie.operation = operation
	return ie
}

// WithIndexSize captures the number of live allocations tracked when the
// error occurred. This information helps diagnose accounting-related issues
// and provides context about system scale when problems arise.
func (ie *IndexError) WithIndexSize(size int) *IndexError {
	ie.indexSize = size
	return ie
}

// WithMemoryUsage records the estimated live-allocation bytes the index was
// tracking. This provides crucial context for diagnosing accounting issues
// and understanding resource utilization when errors occur.
func (ie *IndexError) WithMemoryUsage(usage int64) *IndexError {
	ie.memoryUsage = usage
	return ie
}

// Getter methods provide access to the IndexError-specific context.
// These methods enable error handling code to make informed decisions
// based on the specific context captured during error creation.

// Pointer returns the pointer that was being processed when the error occurred.
func (ie *IndexError) Pointer() uintptr {
	return ie.pointer
}

// Fingerprint returns the call-path fingerprint associated with the error.
func (ie *IndexError) Fingerprint() uint32 {
	return ie.fingerprint
}

// Operation returns the name of the operation that was being performed.
func (ie *IndexError) Operation() string {
	return ie.operation
}

// IndexSize returns the number of live allocations tracked when the error occurred.
func (ie *IndexError) IndexSize() int {
	return ie.indexSize
}

// MemoryUsage returns the estimated live-allocation bytes tracked when the error occurred.
func (ie *IndexError) MemoryUsage() int64 {
	return ie.memoryUsage
}

// Helper functions for creating common index errors with appropriate context.
// These convenience functions encapsulate best practices for index error
// creation while reducing the cognitive burden on developers using the system.

// NewPointerNotFoundError creates a specialized error for a free() call on a
// pointer the allocation index has no record of.
func NewPointerNotFoundError(ptr uintptr) *IndexError {
	return NewIndexError(nil, ErrorCodePointerNotFound, "pointer not found in allocation index").
		WithPointer(ptr).
		WithOperation("Free").
		WithDetail("lookup_time", "immediate").
		WithDetail("possible_cause", "double free or pointer never returned by allocate")
}

// NewDuplicatePointerError creates an error for the fatal condition where the
// allocator hands back a pointer already present in the allocation index.
func NewDuplicatePointerError(ptr uintptr, indexSize int) *IndexError {
	return NewIndexError(nil, ErrorCodeDuplicatePointer, "allocator returned a pointer already tracked").
		WithPointer(ptr).
		WithOperation("Allocate").
		WithIndexSize(indexSize).
		WithDetail("fatal", true).
		WithDetail("allocator_contract_violated", true)
}

// NewIndexCorruptionError creates an error for index corruption scenarios.
// This specialized constructor provides comprehensive context for
// serious index integrity issues that require immediate attention.
func NewIndexCorruptionError(operation string, indexSize int, cause error) *IndexError {
	return NewIndexError(cause, ErrorCodeIndexCorrupted, "index data structure corrupted").
		WithOperation(operation).
		WithIndexSize(indexSize).
		WithDetail("corruption_detected", true).
		WithDetail("recovery_required", true)
}
