// This package addresses the fundamental challenge that generic error handling presents in complex
// systems: when an error occurs, developers and operators need much more than just "something went wrong."
// They need to understand exactly what failed, why it failed, where it failed, and most importantly,
// what they can do about it. This package transforms error handling from reactive debugging into
// proactive problem resolution.
//
// Architecture and Design Philosophy:
//
// The error system is built around a hierarchical structure that starts with a foundational baseError
// and extends into domain-specific error types. This design provides several key advantages:
// it maintains consistency across all error types while allowing specialized context for different
// domains, enables rich error chaining that preserves the complete failure context, supports
// programmatic error handling through standardized error codes, and facilitates comprehensive
// logging and monitoring through structured error details.
//
// The system recognizes that different parts of a tracer fail in fundamentally different ways and
// require different types of contextual information for effective diagnosis and recovery.
// A validation error needs to know which field failed and what rule was violated. An index error
// needs to know which pointer or fingerprint was being processed. An integrity error needs to know
// which canary didn't match, and which call path it belonged to versus which one overwrote it. By
// capturing this domain-specific context at the point of failure, the system enables much more
// intelligent error handling throughout the application stack.
//
// Error Classification and Codes:
//
// Central to this system is a comprehensive error code taxonomy that provides standardized
// categorization of failures. These codes serve multiple purposes: they enable programmatic
// error handling that doesn't rely on parsing error messages, they provide consistent
// categorization for monitoring and alerting systems, they facilitate error recovery logic
// by identifying specific failure modes, and they support internationalization by separating
// error identification from error presentation.
//
// The error codes are organized into several categories. Base codes cover fundamental failure
// types that can occur in any system: IO_ERROR for input/output failures, INVALID_INPUT for
// client-side validation problems, and INTERNAL_ERROR for unexpected system failures.
// Archive-specific codes handle the failure modes of the optional dump-archiving printer:
// ARCHIVE_CORRUPTED, PERMISSION_DENIED, DISK_FULL, and FILESYSTEM_READONLY. Index-specific codes
// address the specialized needs of tracking live allocations: POINTER_NOT_FOUND for an untracked
// free, INDEX_CORRUPTED for structural integrity issues, and DUPLICATE_POINTER for an allocator
// collision. Integrity-specific codes cover the Protecting Allocator's diagnostics: CANARY_CORRUPTED,
// INVALID_FREE, ALLOCATOR_OOM, and BACKTRACE_FAILED.
//
// Usage Patterns and Best Practices:
//
// This error handling system is designed to support several key usage patterns that improve
// both developer experience and operational visibility.
//
// For error creation, the package encourages building errors with comprehensive context at
// the point of failure. This means capturing not just what went wrong, but where it went
// wrong, what was being attempted, and what conditions led to the failure. The fluent
// interface pattern makes this context capture both readable and maintainable.
//
// For error handling, the package supports both programmatic error handling (using error
// codes and type detection) and human-readable error reporting (using structured messages
// and details). This dual approach enables both robust automated error recovery and
// effective human troubleshooting.
//
// For error propagation, the package encourages preserving error context as errors flow
// through system layers while adding layer-specific context when appropriate. This creates
// a comprehensive audit trail of what happened during a failure, making root cause analysis
// much more effective.
//
// Operational Benefits:
//
// The structured approach to error handling provides significant operational benefits.
// Monitoring and alerting systems can categorize and group errors based on error codes
// rather than parsing error messages. Log analysis becomes more effective because errors
// include structured context that can be easily indexed and searched. Error recovery
// logic becomes more sophisticated because it can make decisions based on specific error
// types and context rather than generic failure notifications.
//
// The system also improves the development experience by making errors more debuggable
// and providing clear patterns for error creation and handling. Developers can quickly
// understand what went wrong and why, rather than spending time deciphering generic
// error messages or trying to reproduce failure conditions
package errors

import (
	stdErrors "errors"
	"os"
	"syscall"
)

// IsValidationError checks if the given error is a ValidationError or contains one in its error chain.
//
// Example usage:
//
//	if errors.IsValidationError(err) {
//	    // Handle validation-specific error recovery
//	    // Maybe return specific HTTP 400 status codes
//	    // Or highlight specific fields in a user interface
//	}
func IsValidationError(err error) bool {
	var ve *ValidationError
	return stdErrors.As(err, &ve)
}

// IsArchiveError determines if an error is related to the dump-archiving printer, such as file
// I/O, disk space issues, or archive segment corruption. Archive errors often require different
// handling strategies than other error types because they may indicate hardware issues,
// capacity problems, or data integrity concerns that need immediate attention.
//
// Example usage:
//
//	if errors.IsArchiveError(err) {
//	    archiveErr, _ := errors.AsArchiveError(err)
//	    switch archiveErr.Code() {
//	    case ErrorCodeDiskFull:
//	        triggerCleanupProcedures()
//	    case ErrorCodePermissionDenied:
//	        alertAdministrator(archiveErr.Path())
//	    }
//	}
func IsArchiveError(err error) bool {
	var ae *ArchiveError
	return stdErrors.As(err, &ae)
}

// IsIndexError identifies errors that occurred while tracking live allocations by pointer or
// call-path fingerprint. Index errors often provide crucial context about which pointer was
// involved and what operation was being performed, which is essential for debugging
// use-after-free, invalid-free, and accounting-mismatch problems.
//
// Example usage:
//
//	if errors.IsIndexError(err) {
//	    indexErr, _ := errors.AsIndexError(err)
//	    if indexErr.Code() == ErrorCodeIndexCorrupted {
//	        scheduleDiagnosticDump(indexErr.Pointer())
//	    }
//	}
func IsIndexError(err error) bool {
	var ie *IndexError
	return stdErrors.As(err, &ie)
}

// IsIntegrityError identifies errors produced by the Protecting Allocator's red-zone/canary
// overflow detector and the tracer's invalid-free detector. These errors carry the victim and killer
// fingerprints needed to explain which allocation clobbered which.
//
// Example usage:
//
//	if errors.IsIntegrityError(err) {
//	    integrityErr, _ := errors.AsIntegrityError(err)
//	    logCorruption(integrityErr.VictimFingerprint(), integrityErr.KillerFingerprint())
//	}
func IsIntegrityError(err error) bool {
	var ie *IntegrityError
	return stdErrors.As(err, &ie)
}

// AsValidationError safely extracts a ValidationError from an error chain, providing access
// to validation-specific context such as which field failed, what rule was violated, and
// what values were provided versus expected. This extraction is essential for building
// meaningful error responses that help clients understand and correct their input.
//
// The extracted ValidationError provides access to specialized methods like Field(),
// Rule(), Provided(), and Expected(), which contain the detailed context needed for
// sophisticated error handling and user interface feedback.
//
// Example usage:
//
//	if validationErr, ok := errors.AsValidationError(err); ok {
//	    logData := map[string]interface{}{
//	        "field": validationErr.Field(),
//	        "rule": validationErr.Rule(),
//	        "provided": validationErr.Provided(),
//	        "expected": validationErr.Expected(),
//	    }
//	    logger.Error("Validation failed", logData)
//	}
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stdErrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AsArchiveError extracts ArchiveError context from an error chain, providing access to
// archive-specific information such as segment IDs, file offsets, file names, and paths.
// This context is crucial for implementing archive recovery procedures and for providing
// detailed information to system administrators and monitoring systems.
//
// The extracted ArchiveError provides access to methods like SegmentId(), Offset(),
// FileName(), and Path(), which contain the precise location information needed for
// effective archive error handling and recovery.
//
// Example usage:
//
//	if archiveErr, ok := errors.AsArchiveError(err); ok {
//	    errorContext := map[string]interface{}{
//	        "segmentId": archiveErr.SegmentId(),
//	        "offset": archiveErr.Offset(),
//	        "fileName": archiveErr.FileName(),
//	        "path": archiveErr.Path(),
//	        "errorCode": archiveErr.Code(),
//	    }
//	    handleArchiveFailure(errorContext)
//	}
func AsArchiveError(err error) (*ArchiveError, bool) {
	var ae *ArchiveError
	if stdErrors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// AsIndexError extracts IndexError context, providing access to index-specific information
// such as the pointer being processed, the operation being performed, fingerprint involvement,
// and index size statistics. This context is essential for diagnosing accounting problems,
// planning capacity management, and implementing index recovery procedures.
//
// The extracted IndexError provides access to methods like Pointer(), Fingerprint(),
// Operation(), IndexSize(), and MemoryUsage(), which contain the operational context needed
// for sophisticated index error handling and diagnosis.
//
// Example usage:
//
//	if indexErr, ok := errors.AsIndexError(err); ok {
//	    performanceMetrics := map[string]interface{}{
//	        "pointer": indexErr.Pointer(),
//	        "operation": indexErr.Operation(),
//	        "fingerprint": indexErr.Fingerprint(),
//	        "indexSize": indexErr.IndexSize(),
//	        "memoryUsage": indexErr.MemoryUsage(),
//	    }
//	    analyzeIndexState(performanceMetrics)
//	}
func AsIndexError(err error) (*IndexError, bool) {
	var ie *IndexError
	if stdErrors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// AsIntegrityError extracts IntegrityError context from an error chain, providing access to
// the pointer, canary offset, and expected/actual magic values that failed validation, plus
// the victim/killer fingerprint pair the overflow diagnostic computed.
//
// Example usage:
//
//	if integrityErr, ok := errors.AsIntegrityError(err); ok {
//	    report := map[string]interface{}{
//	        "pointer": integrityErr.Pointer(),
//	        "victim": integrityErr.VictimFingerprint(),
//	        "killer": integrityErr.KillerFingerprint(),
//	    }
//	    logCorruptionReport(report)
//	}
func AsIntegrityError(err error) (*IntegrityError, bool) {
	var ie *IntegrityError
	if stdErrors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from any error that supports it, or returns
// ErrorCodeInternal for errors that don't have specific codes. This function provides
// a consistent way to categorize errors for monitoring and handling purposes.
//
// Example usage:
//
//	errorCode := errors.GetErrorCode(err)
//	metrics.IncrementErrorCounter(string(errorCode))
//
//	switch errorCode {
//	case errors.ErrorCodeDiskFull:
//	    triggerDiskSpaceAlert()
//	case errors.ErrorCodePermissionDenied:
//	    escalateToAdministrator()
//	}
func GetErrorCode(err error) ErrorCode {
	// Try ValidationError first.
	if ve, ok := AsValidationError(err); ok {
		return ve.Code()
	}

	// Try ArchiveError next.
	if ae, ok := AsArchiveError(err); ok {
		return ae.Code()
	}

	// Try IndexError.
	if ie, ok := AsIndexError(err); ok {
		return ie.Code()
	}

	// Try IntegrityError.
	if ie, ok := AsIntegrityError(err); ok {
		return ie.Code()
	}

	// For any other error, return a generic internal error code.
	return ErrorCodeInternal
}

// GetErrorDetails extracts structured details from any error that supports them,
// returning an empty map for errors without details. This function provides consistent
// access to additional error context regardless of the specific error type.
//
// Example usage:
//
//	details := errors.GetErrorDetails(err)
//	if len(details) > 0 {
//	    logger.WithFields(details).Error("Operation failed", "error", err.Error())
//	}
//
//	// Check for specific detail keys
//	if operation, exists := details["operation"]; exists {
//	    handleOperationSpecificError(operation.(string))
//	}
func GetErrorDetails(err error) map[string]any {
	// Try ValidationError first.
	if ve, ok := AsValidationError(err); ok {
		if details := ve.Details(); details != nil {
			return details
		}
	}

	// Try ArchiveError next.
	if ae, ok := AsArchiveError(err); ok {
		if details := ae.Details(); details != nil {
			return details
		}
	}

	// Try IndexError.
	if ie, ok := AsIndexError(err); ok {
		if details := ie.Details(); details != nil {
			return details
		}
	}

	// Try IntegrityError.
	if ie, ok := AsIntegrityError(err); ok {
		if details := ie.Details(); details != nil {
			return details
		}
	}

	// Return empty map for errors without details.
	return make(map[string]any)
}

// Analyzes directory creation failures and returns appropriate error
// codes based on the underlying system error. This helps clients
// understand exactly what went wrong and how they might fix it.
func ClassifyDirectoryCreationError(err error, path string) error {
	// Check if this is a permission denied error.
	if os.IsPermission(err) {
		return NewArchiveError(
			err, ErrorCodePermissionDenied,
			"Insufficient permissions to create archive directory",
		).WithPath(path).
			WithDetail("operation", "directory_creation").
			WithDetail("required_permission", "write").
			WithDetail("suggestion", "check directory permissions or run with elevated privileges")
	}

	// Check for disk space issues using syscall analysis.
	if pathErr, ok := err.(*os.PathError); ok {
		if errno, ok := pathErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ENOSPC:
				{
					return NewArchiveError(
						err, ErrorCodeDiskFull,
						"Insufficient disk space to create archive directory",
					).WithPath(path).
						WithDetail("operation", "directory_creation").
						WithDetail("suggestion", "free up disk space or choose a different location")
				}
			case syscall.EROFS:
				{
					return NewArchiveError(
						err, ErrorCodeFilesystemReadonly,
						"Cannot create directory on read-only filesystem",
					).WithPath(path).
						WithDetail("operation", "directory_creation").
						WithDetail("suggestion", "remount filesystem with write permissions")
				}
			}
		}
	}

	// For any other I/O errors, provide the generic I/O error with context
	return NewArchiveError(
		err, ErrorCodeIO, "Failed to create archive directory",
	).WithPath(path).WithDetail("operation", "directory_creation")
}

// ClassifyFileOpenError analyzes archive segment file opening failures and returns appropriate
// error codes based on the underlying system error. This provides much more
// specific information than a generic I/O error.
func ClassifyFileOpenError(err error, filePath, fileName string) error {
	// Check if this is a permission denied error.
	if os.IsPermission(err) {
		return NewArchiveError(
			err, ErrorCodePermissionDenied,
			"Insufficient permissions to open archive segment file",
		).WithPath(filePath).
			WithFileName(fileName).
			WithDetail("operation", "file_open").
			WithDetail("required_permission", "read_write").
			WithDetail("suggestion", "check file permissions or run with elevated privileges")
	}

	// Check for disk space issues and other system-level
	if pathErr, ok := err.(*os.PathError); ok {
		if errno, ok := pathErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ENOSPC:
				{
					return NewArchiveError(
						err, ErrorCodeDiskFull,
						"Insufficient disk space to create archive segment file",
					).WithPath(filePath).
						WithFileName(fileName).
						WithDetail("operation", "file_open").
						WithDetail("suggestion", "free up disk space")
				}
			case syscall.EROFS:
				{
					return NewArchiveError(
						err, ErrorCodeFilesystemReadonly,
						"Cannot create file on read-only filesystem",
					).WithPath(filePath).
						WithFileName(fileName).
						WithDetail("operation", "file_open").
						WithDetail("suggestion", "remount filesystem with write permissions")
				}
			}
		}
	}

	// For any other I/O errors during file opening.
	return NewArchiveError(err, ErrorCodeIO, "Failed to open archive segment file").
		WithPath(filePath).
		WithFileName(fileName).
		WithDetail("operation", "file_open").
		WithDetail("flags", []string{"O_CREATE", "O_RDWR", "O_APPEND"})
}

// Analyzes archive segment sync operation failures and returns appropriate error codes.
// Sync failures can indicate various underlying issues from
// disk space problems to filesystem corruption.
func ClassifySyncError(err error, fileName, filePath string, offset int) error {
	// Check for specific system errors during sync operations.
	if pathErr, ok := err.(*os.PathError); ok {
		if errno, ok := pathErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ENOSPC:
				{
					return NewArchiveError(
						err, ErrorCodeDiskFull,
						"Cannot sync archive segment: insufficient disk space",
					).WithFileName(fileName).
						WithPath(filePath).
						WithOffset(offset).
						WithDetail("operation", "file_sync").
						WithDetail("suggestion", "free up disk space before continuing")
				}
			case syscall.EROFS:
				{
					return NewArchiveError(
						err, ErrorCodeFilesystemReadonly,
						"Cannot sync archive segment: filesystem is read-only",
					).WithFileName(fileName).
						WithPath(filePath).
						WithOffset(offset).
						WithDetail("operation", "file_sync").
						WithDetail("suggestion", "remount filesystem with write permissions")
				}
			case syscall.EIO:
				{ // I/O error during sync often indicates hardware or corruption issues.
					return NewArchiveError(
						err, ErrorCodeIO,
						"I/O error during archive segment sync - possible hardware or corruption issue",
					).WithFileName(fileName).
						WithPath(filePath).
						WithOffset(offset).
						WithDetail("operation", "file_sync").
						WithDetail("severity", "high").
						WithDetail("suggestion", "check filesystem integrity and hardware health")
				}
			}
		}
	}

	// For any other sync errors, provide generic I/O error with context
	return NewArchiveError(
		err, ErrorCodeIO, "Failed to sync archive segment to disk",
	).WithFileName(fileName).WithPath(filePath).WithOffset(offset).
		WithDetail("operation", "file_sync").
		WithDetail("currentSize", offset)
}
