package options

import "time"

const (
	// MaxSeparatorLength is the payload bound on the path separator, one
	// byte short of the fixed 16-byte separator buffer the original
	// tracer reserved — the missing byte is headroom, not a terminator,
	// since Go strings aren't NUL-terminated.
	MaxSeparatorLength = 15

	// DefaultSeparator joins symbolised ip entries when no separator has
	// been configured.
	DefaultSeparator = "/"

	// DefaultMaxDepth is the implementation's default backtrace depth cap.
	DefaultMaxDepth = 62

	// DefaultMinSkip discards no frames by default; callers wrapping the
	// tracer in their own helper layer should raise this to hide those
	// frames from captured paths.
	DefaultMinSkip = 0

	// DefaultFlushInterval governs how often the archiver fsyncs its
	// active segment when archiving is enabled.
	DefaultFlushInterval = time.Minute * 5

	// Represents the minimum allowed size for an archive file in bytes (1MB).
	MinArchiveSize uint64 = 1 * 1024 * 1024

	// Represents the maximum allowed size for an archive file in bytes (1GB).
	MaxArchiveSize uint64 = 1 * 1024 * 1024 * 1024

	// Specifies the default target size for a new archive file in bytes (64MB).
	DefaultArchiveSize uint64 = 64 * 1024 * 1024

	// Defines the default prefix for archive file names.
	// For example, an archive file might be named "dump_00001_1716679260000000000.dump".
	DefaultArchivePrefix = "dump"
)

// Holds the default configuration settings for a tracer instance. Archiving
// is disabled by default (ArchiveOptions.Directory is empty) — it is an
// opt-in side channel, not a default behavior.
var defaultOptions = Options{
	Separator:     DefaultSeparator,
	MaxDepth:      DefaultMaxDepth,
	MinSkip:       DefaultMinSkip,
	FlushInterval: DefaultFlushInterval,
	ArchiveOptions: &ArchiveOptions{
		Size:   DefaultArchiveSize,
		Prefix: DefaultArchivePrefix,
	},
}

// NewDefaultOptions returns a fresh copy of the tracer's default options.
func NewDefaultOptions() Options {
	opts := defaultOptions
	archiveCopy := *defaultOptions.ArchiveOptions
	opts.ArchiveOptions = &archiveCopy
	return opts
}
