// Package options provides data structures and functions for configuring
// the tracer. It defines various parameters that control the tracer's
// capture behavior, grouping policy, and optional dump-archiving, such as
// path separator, backtrace depth, the overflow/invalid-free options
// bitset, and archive segment characteristics.
package options

import (
	"strings"
	"time"
)

// Flags is a bitset of optional tracer behaviors, mirroring the options
// bitset the tracer façade accepts at initialise time. Unknown bits are
// ignored, exactly as the façade's contract requires.
type Flags uint8

const (
	// OverflowCheck installs the Protecting Allocator wrapper around the
	// user-supplied allocator, padding every block with red-zone canaries
	// and validating them on free.
	OverflowCheck Flags = 1 << iota

	// InvalidFreeCheck makes free() emit a diagnostic through the active
	// printer when called with a pointer the allocation index has no
	// record of, rather than silently ignoring it.
	InvalidFreeCheck
)

// Has reports whether every bit set in want is also set in f.
func (f Flags) Has(want Flags) bool {
	return f&want == want
}

// ArchiveOptions configures the optional dump-archiving printer,
// which appends dump text to a rotating sequence of files on disk. It plays
// the same role the teacher's segment options play for data segments, just
// repointed at archived dump text instead of raw key/value data.
type ArchiveOptions struct {
	// Defines the maximum size an archive file can grow to before rotation.
	// When an archive file reaches this size, a new one is started.
	//
	//  - Default: 64MB
	//  - Maximum: 1GB
	//  - Minimum: 1MB
	Size uint64 `toml:"maxArchiveSize"`

	// Specifies where archive files are stored.
	//
	// Default: "" (archiving disabled)
	Directory string `toml:"directory"`

	// Defines the filename prefix for archive files.
	// Final filename will be: `prefix_NNNNN_timestamp.dump`
	//
	// Default: "dump"
	Prefix string `toml:"prefix"`
}

// Options defines the configuration parameters for the tracer. It provides
// control over capture behavior, grouping, and the optional archiving
// side-channel.
type Options struct {
	// Separator joins symbolised ip entries in a dump's path lines.
	// Truncated at MaxSeparatorLength payload bytes.
	//
	// Default: "/"
	Separator string `toml:"separator"`

	// MaxDepth bounds how many instruction pointers are copied into a
	// Path Record's ip buffer.
	//
	// Default: DefaultMaxDepth
	MaxDepth int `toml:"maxDepth"`

	// MinSkip is the number of frames discarded from the top of every
	// capture — frames internal to the tracer's own allocate wrapper.
	//
	// Default: 0
	MinSkip int `toml:"minSkip"`

	// Flags recognises OverflowCheck and InvalidFreeCheck; unknown bits
	// are ignored.
	Flags Flags `toml:"flags"`

	// FlushInterval governs how often the archiver, if enabled, fsyncs
	// its active archive segment. A zero value disables periodic flush;
	// the archiver still flushes on segment rotation and on close.
	//
	// Default: DefaultFlushInterval
	FlushInterval time.Duration `toml:"flushInterval"`

	// ArchiveOptions configures the optional dump-archiving printer.
	// Leave Directory empty to disable archiving entirely.
	ArchiveOptions *ArchiveOptions `toml:"archive"`
}

// OptionFunc is a function type that modifies the tracer's configuration.
type OptionFunc func(*Options)

// WithDefaultOptions applies a predefined set of default configuration
// values to the Options struct.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		opts := NewDefaultOptions()
		o.Separator = opts.Separator
		o.MaxDepth = opts.MaxDepth
		o.MinSkip = opts.MinSkip
		o.Flags = opts.Flags
		o.FlushInterval = opts.FlushInterval
		o.ArchiveOptions = opts.ArchiveOptions
	}
}

// WithSeparator sets the path separator used to join symbolised ip entries.
// Truncated to MaxSeparatorLength payload bytes, matching the 15-byte
// payload bound a fixed separator buffer enforces.
func WithSeparator(separator string) OptionFunc {
	return func(o *Options) {
		if separator == "" {
			return
		}
		if len(separator) > MaxSeparatorLength {
			separator = separator[:MaxSeparatorLength]
		}
		o.Separator = separator
	}
}

// WithMaxDepth sets the maximum number of ip entries captured per allocation.
func WithMaxDepth(depth int) OptionFunc {
	return func(o *Options) {
		if depth > 0 {
			o.MaxDepth = depth
		}
	}
}

// WithMinSkip sets how many leading frames are discarded from every capture.
func WithMinSkip(skip int) OptionFunc {
	return func(o *Options) {
		if skip >= 0 {
			o.MinSkip = skip
		}
	}
}

// WithOverflowCheck arms the Protecting Allocator's red-zone canaries.
func WithOverflowCheck() OptionFunc {
	return func(o *Options) {
		o.Flags |= OverflowCheck
	}
}

// WithInvalidFreeCheck arms the invalid-free diagnostic.
func WithInvalidFreeCheck() OptionFunc {
	return func(o *Options) {
		o.Flags |= InvalidFreeCheck
	}
}

// WithFlushInterval sets how often the archiver fsyncs its active segment.
func WithFlushInterval(interval time.Duration) OptionFunc {
	return func(o *Options) {
		if interval > 0 {
			o.FlushInterval = interval
		}
	}
}

// WithArchiveDir enables dump archiving and sets the directory archive
// files are written to.
func WithArchiveDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory == "" {
			return
		}
		if o.ArchiveOptions == nil {
			o.ArchiveOptions = &ArchiveOptions{
				Size:   DefaultArchiveSize,
				Prefix: DefaultArchivePrefix,
			}
		}
		o.ArchiveOptions.Directory = directory
	}
}

// WithArchivePrefix sets the filename prefix used for archive files.
func WithArchivePrefix(prefix string) OptionFunc {
	return func(o *Options) {
		prefix = strings.TrimSpace(prefix)
		if prefix == "" || o.ArchiveOptions == nil {
			return
		}
		o.ArchiveOptions.Prefix = prefix
	}
}

// WithArchiveSize sets the maximum size of individual archive files.
func WithArchiveSize(size uint64) OptionFunc {
	return func(o *Options) {
		if o.ArchiveOptions == nil {
			return
		}
		if size > MinArchiveSize && size < MaxArchiveSize {
			o.ArchiveOptions.Size = size
		}
	}
}
