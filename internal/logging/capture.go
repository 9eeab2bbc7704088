package logging

import (
	"io"
	"path/filepath"
)

// Capture is the pair of rotating writers a running job's stdout and
// stderr are wired to, so nothing is ever left to drain into a
// discarded pipe.
type Capture struct {
	stdout *Writer
	stderr *Writer
}

// NewCapture opens stdout/stderr log files for label under baseDir, at
// <baseDir>/<label>/out.log and <baseDir>/<label>/err.log.
func NewCapture(baseDir, label string) (*Capture, error) {
	dir := filepath.Join(baseDir, label)

	stdout, err := NewWriter(filepath.Join(dir, "out.log"), DefaultMaxSize, DefaultMaxBackups)
	if err != nil {
		return nil, err
	}
	stderr, err := NewWriter(filepath.Join(dir, "err.log"), DefaultMaxSize, DefaultMaxBackups)
	if err != nil {
		stdout.Close()
		return nil, err
	}

	return &Capture{stdout: stdout, stderr: stderr}, nil
}

// Stdout returns the writer a child's standard output should be connected to.
func (c *Capture) Stdout() io.Writer { return c.stdout }

// Stderr returns the writer a child's standard error should be connected to.
func (c *Capture) Stderr() io.Writer { return c.stderr }

// Close closes both underlying log files.
func (c *Capture) Close() error {
	errOut := c.stdout.Close()
	errErr := c.stderr.Close()
	if errOut != nil {
		return errOut
	}
	return errErr
}
