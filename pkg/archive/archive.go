// Package archive optionally persists dump text to a rotating sequence of
// files on disk, implementing pkg/printer.Printer so it can be installed
// as the Tracer's active printer (or wrapped alongside another one) via
// WithArchiveDir.
//
// This is the teacher's internal/storage segment-rotation and
// crash-recovery bootstrap, repurposed rather than discarded: instead of
// raw write-ahead-log entries, each write here is a chunk of dump text,
// and the segment naming scheme becomes prefix_NNNNN_timestamp.dump per
// pkg/seginfo's generalized extension parameter. This is the "dump.txt"
// feature from original_source/sample/sample.c's fprintf_printer usage,
// given crash-safe rotation the original single-file sample never had.
package archive

import (
	stdErrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/iamNilotpal/memtracer/pkg/errors"
	"github.com/iamNilotpal/memtracer/pkg/filesys"
	"github.com/iamNilotpal/memtracer/pkg/options"
	"github.com/iamNilotpal/memtracer/pkg/printer"
	"github.com/iamNilotpal/memtracer/pkg/seginfo"
)

const extension = ".dump"

var ErrArchiveClosed = stdErrors.New("operation failed: cannot write to closed archive")

// Archiver appends dump text to the active archive file, rotating to a
// fresh one once the active file reaches the configured size threshold.
// It implements printer.Printer, so the Tracer can write dumps to it
// exactly as it would to any other sink.
type Archiver struct {
	mu              sync.Mutex
	size            int64
	activeSegmentId uint64
	activeFile      *os.File
	opts            *options.ArchiveOptions
	log             *zap.SugaredLogger
	closed          atomic.Bool

	flushInterval time.Duration
	flushDone     chan struct{}
	flushStopped  chan struct{}
}

// Config encapsulates the parameters required to initialize an Archiver.
type Config struct {
	Options *options.ArchiveOptions
	Logger  *zap.SugaredLogger

	// FlushInterval, if positive, starts a background goroutine that
	// fsyncs the active archive file on this cadence, bounding how much
	// dump text could be lost if the process dies between writes. Zero
	// disables background flushing (the file is still fsync'd on Close).
	FlushInterval time.Duration
}

var _ printer.Printer = (*Archiver)(nil)

// New bootstraps an Archiver: it discovers any existing archive files in
// the configured directory and, if the most recent one still has room,
// keeps its archive ID and size as the starting point (opening a fresh
// timestamped file under that ID, since openSegment always generates a new
// name); otherwise it starts the next ID — the same recovery logic the
// teacher's storage layer uses to resume a write-ahead log after a
// restart, applied here to resuming dump archiving after one.
func New(config *Config) (*Archiver, error) {
	if config == nil || config.Options == nil || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "archive configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	config.Logger.Infow(
		"initializing dump archiver",
		"directory", config.Options.Directory,
		"maxArchiveSize", config.Options.Size,
		"prefix", config.Options.Prefix,
	)

	if err := filesys.CreateDir(config.Options.Directory, 0o755, true); err != nil {
		return nil, errors.NewArchiveError(
			err, errors.ErrorCodeIO, "failed to create archive directory",
		).WithPath(config.Options.Directory).WithDetail("permission", "0755")
	}

	archiver := &Archiver{log: config.Logger, opts: config.Options}

	latestID, latestInfo, err := seginfo.GetLatestSegmentInfo(
		config.Options.Directory, "", config.Options.Prefix, extension,
	)
	if err != nil {
		return nil, errors.NewArchiveError(err, errors.ErrorCodeIO, "failed to inspect existing archive files")
	}

	var targetID uint64
	var createNew bool

	switch {
	case latestInfo == nil:
		archiver.size = 0
		targetID = 1
		createNew = true
		config.Logger.Infow("no existing archive files found, starting fresh", "archiveID", targetID)

	case latestInfo.Size() >= int64(config.Options.Size):
		archiver.size = 0
		targetID = latestID + 1
		createNew = true
		config.Logger.Infow(
			"active archive file full, rotating",
			"previousArchiveID", latestID, "currentSize", latestInfo.Size(), "maxSize", config.Options.Size,
		)

	default:
		archiver.size = latestInfo.Size()
		targetID = latestID
		createNew = false
		config.Logger.Infow("continuing existing archive file", "archiveID", targetID, "currentSize", archiver.size)
	}

	file, err := archiver.openSegment(targetID, createNew)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive file for ID %d: %w", targetID, err)
	}

	archiver.activeFile = file
	archiver.activeSegmentId = targetID
	archiver.flushInterval = config.FlushInterval

	if archiver.flushInterval > 0 {
		archiver.flushDone = make(chan struct{})
		archiver.flushStopped = make(chan struct{})
		go archiver.flushLoop()
	}

	return archiver, nil
}

// flushLoop periodically fsyncs the active archive file so a crash loses
// at most one flush interval's worth of dump text, rather than everything
// since the file was opened.
func (a *Archiver) flushLoop() {
	defer close(a.flushStopped)

	ticker := time.NewTicker(a.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.flushDone:
			return
		case <-ticker.C:
			a.mu.Lock()
			if err := a.activeFile.Sync(); err != nil {
				a.log.Warnw("periodic archive flush failed", "error", err, "archiveID", a.activeSegmentId)
			}
			a.mu.Unlock()
		}
	}
}

func (a *Archiver) openSegment(id uint64, isNew bool) (*os.File, error) {
	filename := seginfo.GenerateName(id, a.opts.Prefix, extension)
	path := filepath.Join(a.opts.Directory, filename)

	a.log.Infow("opening archive file", "archiveID", id, "path", path, "isNew", isNew)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.NewArchiveError(err, errors.ErrorCodeIO, "failed to open archive file").
			WithFileName(filename).WithPath(path).WithDetail("permission", "0644")
	}

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		_ = file.Close()
		return nil, errors.NewArchiveError(err, errors.ErrorCodeIO, "failed to seek to end of archive file").
			WithFileName(filename).WithPath(path)
	}

	return file, nil
}

// Printf writes one chunk of dump text to the active archive file,
// rotating to a new file first if this write would exceed the configured
// size threshold.
func (a *Archiver) Printf(format string, args ...any) error {
	if a.closed.Load() {
		return ErrArchiveClosed
	}

	text := fmt.Sprintf(format, args...)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.size+int64(len(text)) > int64(a.opts.Size) && a.size > 0 {
		if err := a.rotateLocked(); err != nil {
			return err
		}
	}

	n, err := a.activeFile.WriteString(text)
	if err != nil {
		return errors.NewArchiveError(err, errors.ErrorCodeIO, "failed to write dump text to archive file").
			WithSegmentID(int(a.activeSegmentId))
	}

	a.size += int64(n)
	return nil
}

func (a *Archiver) rotateLocked() error {
	if err := a.activeFile.Sync(); err != nil {
		a.log.Warnw("failed to flush archive file during rotation", "error", err, "archiveID", a.activeSegmentId)
	}
	if err := a.activeFile.Close(); err != nil {
		a.log.Warnw("failed to close archive file during rotation", "error", err, "archiveID", a.activeSegmentId)
	}

	nextID := a.activeSegmentId + 1
	file, err := a.openSegment(nextID, true)
	if err != nil {
		return fmt.Errorf("failed to rotate to archive file %d: %w", nextID, err)
	}

	a.activeFile = file
	a.activeSegmentId = nextID
	a.size = 0
	return nil
}

// Close flushes and closes the active archive file. Safe to call once.
func (a *Archiver) Close() error {
	if !a.closed.CompareAndSwap(false, true) {
		return ErrArchiveClosed
	}

	if a.flushDone != nil {
		close(a.flushDone)
		<-a.flushStopped
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.log.Infow("closing dump archiver", "archiveID", a.activeSegmentId, "finalSize", a.size)
	syncErr := a.activeFile.Sync()
	if err := a.activeFile.Close(); err != nil {
		return err
	}
	return syncErr
}
