package rotation

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jacobsa/timeutil"
)

const (
	DefaultBufferSize    = 64 * 1024
	DefaultFlushInterval = 256 * 1024

	secondsLayout = "2006-01-02_15-04-05"
	preciseLayout = "2006-01-02_15-04-05.000000000"
)

// Config describes where a Writer puts its files and when it rotates them.
type Config struct {
	Dir      string
	MaxBytes uint64

	// BufferSize is the size of the in-memory write buffer. Zero means
	// DefaultBufferSize.
	BufferSize int

	// FlushInterval is how many bytes may be written between flushes to the
	// OS. Zero means DefaultFlushInterval.
	FlushInterval uint64

	// Clock names the files. Nil means the real clock.
	Clock timeutil.Clock
}

// A Writer appends lines to a file in Dir and rolls over to a new file once
// the live one would grow past MaxBytes. The live file is renamed to an
// archived name carrying a zero-padded rotation index. A Writer is owned by a
// single goroutine and is not safe for concurrent use.
type Writer struct {
	Dir      string
	MaxBytes uint64

	currentBytes  uint64
	totalBytes    uint64
	fileIndex     int
	currentPath   string
	flushInterval uint64
	bufferSize    int

	file   *os.File
	buf    *bufio.Writer
	clock  timeutil.Clock
	closed bool
}

// New creates Dir if needed and opens the first live file, named after the
// current time to the second.
func New(cfg Config) (*Writer, error) {
	if cfg.MaxBytes < 1 {
		return nil, fmt.Errorf("max bytes must be greater than 0 for %s", cfg.Dir)
	}

	w := &Writer{
		Dir:           cfg.Dir,
		MaxBytes:      cfg.MaxBytes,
		flushInterval: cfg.FlushInterval,
		bufferSize:    cfg.BufferSize,
		clock:         cfg.Clock,
	}

	if w.flushInterval == 0 {
		w.flushInterval = DefaultFlushInterval
	}
	if w.bufferSize <= 0 {
		w.bufferSize = DefaultBufferSize
	}
	if w.clock == nil {
		w.clock = timeutil.RealClock()
	}

	err := os.MkdirAll(w.Dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log dir %s: %w", w.Dir, err)
	}

	now := w.clock.Now().UTC()
	err = w.openLive(now.Format(secondsLayout), now.Format(preciseLayout))
	if err != nil {
		return nil, err
	}

	return w, nil
}

// WriteLine appends text plus a newline and returns the number of bytes
// written, terminator included. A line that alone exceeds MaxBytes is written
// whole into the current file rather than split.
func (w *Writer) WriteLine(text string) (uint64, error) {
	if w.closed {
		return 0, os.ErrClosed
	}

	total := uint64(len(text)) + 1

	if w.currentBytes > 0 && w.currentBytes+total > w.MaxBytes {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}

	if _, err := w.buf.WriteString(text); err != nil {
		return 0, fmt.Errorf("failed writing to %s: %w", w.currentPath, err)
	}
	if err := w.buf.WriteByte('\n'); err != nil {
		return 0, fmt.Errorf("failed writing to %s: %w", w.currentPath, err)
	}

	before := w.totalBytes
	w.currentBytes += total
	w.totalBytes += total

	// Flush each time the running total crosses a multiple of the interval
	if before/w.flushInterval != w.totalBytes/w.flushInterval {
		if err := w.Flush(); err != nil {
			return total, err
		}
	}

	return total, nil
}

// rotate archives the live file as {timestamp}_{index}.log and opens a new
// live file whose name has nanosecond precision, so it can't collide with one
// opened earlier in the same second.
func (w *Writer) rotate() error {
	if err := w.Flush(); err != nil {
		return err
	}

	if err := w.file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", w.currentPath, err)
	}

	now := w.clock.Now().UTC()
	archived := w.nextArchivePath(now)

	if err := os.Rename(w.currentPath, archived); err != nil {
		return fmt.Errorf("failed to archive %s: %w", w.currentPath, err)
	}

	precise := now.Format(preciseLayout)
	if err := w.openLive(precise, precise); err != nil {
		return err
	}

	w.currentBytes = 0

	return nil
}

// nextArchivePath bumps the rotation index until the archive name is free.
// Another run in the same second may already have used the low indices.
func (w *Writer) nextArchivePath(now time.Time) string {
	for {
		w.fileIndex++
		path := filepath.Join(
			w.Dir, fmt.Sprintf("%s_%04d.log", now.Format(secondsLayout), w.fileIndex),
		)
		if _, err := os.Lstat(path); errors.Is(err, os.ErrNotExist) {
			return path
		}
	}
}

// openLive exclusively creates a new live file. It tries name first, then
// fallback, then fallback with a numeric suffix, so an existing file is never
// truncated.
func (w *Writer) openLive(name, fallback string) error {
	candidates := []string{name, fallback}

	for i := 0; ; i++ {
		var base string
		if i < len(candidates) {
			base = candidates[i]
		} else {
			base = fmt.Sprintf("%s-%d", fallback, i-len(candidates)+1)
		}

		path := filepath.Join(w.Dir, base+".log")
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to create log file %s: %w", path, err)
		}

		w.file = file
		w.currentPath = path
		if w.buf == nil {
			w.buf = bufio.NewWriterSize(file, w.bufferSize)
		} else {
			w.buf.Reset(file)
		}
		return nil
	}
}

// Flush pushes any buffered bytes to the live file.
func (w *Writer) Flush() error {
	if w.closed {
		return nil
	}

	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", w.currentPath, err)
	}
	return nil
}

// Close flushes and closes the live file. It is safe to call more than once.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}

	flushErr := w.Flush()
	closeErr := w.file.Close()
	w.closed = true

	if flushErr != nil {
		return flushErr
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close %s: %w", w.currentPath, closeErr)
	}
	return nil
}

// CurrentPath is the path of the live file.
func (w *Writer) CurrentPath() string { return w.currentPath }

// CurrentBytes is the number of bytes written to the live file since the
// last rotation.
func (w *Writer) CurrentBytes() uint64 { return w.currentBytes }

// FileIndex is the number of the most recent rotation, 0 if none happened.
func (w *Writer) FileIndex() int { return w.fileIndex }

// TotalBytes is everything written through this Writer.
func (w *Writer) TotalBytes() uint64 { return w.totalBytes }
