// Package logging drains child process output into rotating per-job
// log files, resolving what would otherwise be undrained stdout/stderr
// pipes, and provides the rotating writer the daemon's own event log
// uses.
package logging

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DefaultMaxSize is the rotation threshold used when a caller does not
// override it: 100MiB per file.
const DefaultMaxSize int64 = 100 * 1024 * 1024

// DefaultMaxBackups is how many rotated files are retained alongside
// the active one.
const DefaultMaxBackups = 5

// Writer is an append-only, timestamp-prefixed log file that rotates
// itself once it crosses a size threshold.
type Writer struct {
	mu         sync.Mutex
	file       *os.File
	buf        *bufio.Writer
	path       string
	maxSize    int64
	maxBackups int
	size       int64
}

// NewWriter opens (creating if necessary) the log file at path,
// creating its parent directory as needed.
func NewWriter(path string, maxSize int64, maxBackups int) (*Writer, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if maxBackups <= 0 {
		maxBackups = DefaultMaxBackups
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	f, err := openFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("statting log file: %w", err)
	}

	return &Writer{
		file:       f,
		buf:        bufio.NewWriter(f),
		path:       path,
		maxSize:    maxSize,
		maxBackups: maxBackups,
		size:       info.Size(),
	}, nil
}

// Write implements io.Writer, prefixing p with an RFC3339 timestamp and
// rotating the file first if this write would cross the size threshold.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.size+int64(len(p)) > w.maxSize {
		if err := w.rotate(); err != nil {
			return 0, fmt.Errorf("rotating log: %w", err)
		}
	}

	ts := time.Now().Format(time.RFC3339)
	if _, err := w.buf.WriteString(ts + " "); err != nil {
		return 0, err
	}
	w.size += int64(len(ts) + 1)

	n, err := w.buf.Write(p)
	w.size += int64(n)
	if err != nil {
		return n, err
	}
	return n, w.buf.Flush()
}

// rotate flushes and closes the active file, shifts backups, and opens
// a fresh file at the original path.
func (w *Writer) rotate() error {
	if err := w.buf.Flush(); err != nil {
		return err
	}
	if err := w.file.Close(); err != nil {
		return err
	}

	oldest := fmt.Sprintf("%s.%d", w.path, w.maxBackups)
	os.Remove(oldest)
	for i := w.maxBackups - 1; i >= 1; i-- {
		os.Rename(fmt.Sprintf("%s.%d", w.path, i), fmt.Sprintf("%s.%d", w.path, i+1))
	}
	if err := os.Rename(w.path, w.path+".1"); err != nil && !os.IsNotExist(err) {
		return err
	}

	f, err := openFile(w.path)
	if err != nil {
		return err
	}
	w.file = f
	w.buf = bufio.NewWriter(f)
	w.size = 0
	return nil
}

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.buf.Flush(); err != nil {
		return err
	}
	return w.file.Close()
}

func openFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}
