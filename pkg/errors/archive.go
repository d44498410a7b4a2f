package errors

// ArchiveError is a specialized error type for dump-archiving operations.
// It embeds baseError to inherit all the standard error functionality, then adds
// archive-specific fields that help pinpoint exactly where problems occurred.
type ArchiveError struct {
	*baseError
	segmentId int    // Which archive segment was being accessed when the error occurred.
	offset    int    // Byte offset within the segment where the problem happened.
	fileName  string // Name of the archive file that caused the issue.
	path      string // Path of the archive file that caused the issue.
}

// NewArchiveError creates a new archive-specific error.
func NewArchiveError(err error, code ErrorCode, msg string) *ArchiveError {
	return &ArchiveError{baseError: NewBaseError(err, code, msg)}
}

// WithSegmentID sets which archive segment was involved in the error.
func (ae *ArchiveError) WithSegmentID(id int) *ArchiveError {
	ae.segmentId = id
	return ae
}

// WithOffset records the byte position where the error occurred.
func (ae *ArchiveError) WithOffset(offset int) *ArchiveError {
	ae.offset = offset
	return ae
}

// WithFileName captures which file was being processed when the error occurred.
func (ae *ArchiveError) WithFileName(fileName string) *ArchiveError {
	ae.fileName = fileName
	return ae
}

// WithPath captures which path was being processed when the error occurred.
func (ae *ArchiveError) WithPath(path string) *ArchiveError {
	ae.path = path
	return ae
}

// SegmentId returns the archive segment identifier where the error occurred.
func (ae *ArchiveError) SegmentId() int {
	return ae.segmentId
}

// Offset returns the byte offset within the segment where the error happened.
// Combined with SegmentId, this gives you the exact location of the problem.
func (ae *ArchiveError) Offset() int {
	return ae.offset
}

// FileName returns the name of the file that was being processed.
func (ae *ArchiveError) FileName() string {
	return ae.fileName
}

// Path returns the path of the file that was being processed.
func (ae *ArchiveError) Path() string {
	return ae.path
}
