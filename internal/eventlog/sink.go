// Package eventlog is the default event processor: it drains the
// manager's event bus and formats each lifecycle notification as a
// single structured log line, written through the same rotating
// writer used for supervised jobs' own output.
package eventlog

import (
	"context"
	"fmt"
	"strings"

	"github.com/kodflow/daemon/internal/job"
	"github.com/kodflow/daemon/internal/logging"
)

// Sink formats and persists lifecycle events. It is the single
// consumer of the manager's event bus; any further fan-out has to be
// built on top of it, since a second reader of the bus would take
// events away from this one.
type Sink struct {
	writer *logging.Writer
}

// NewSink opens the daemon's own operational log at
// <baseDir>/daemon.log and returns a Sink that writes to it.
func NewSink(baseDir string) (*Sink, error) {
	w, err := logging.NewWriter(baseDir+"/daemon.log", logging.DefaultMaxSize, logging.DefaultMaxBackups)
	if err != nil {
		return nil, err
	}
	return &Sink{writer: w}, nil
}

// Run drains events until ctx is canceled or the channel is closed,
// formatting and writing each one. It is meant to run as the single
// consumer of a manager's event bus in its own goroutine.
func (s *Sink) Run(ctx context.Context, events <-chan job.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			s.writer.Write([]byte(format(ev) + "\n"))
		}
	}
}

// Close closes the underlying log file.
func (s *Sink) Close() error {
	return s.writer.Close()
}

// format renders ev as a single structured line: label, event kind,
// and whichever kind-specific fields apply.
func format(ev job.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "label=%s event=%s", ev.Label, ev.Type)

	switch ev.Type {
	case job.EventJobStarted:
		fmt.Fprintf(&b, " pid=%d", ev.PID)
	case job.EventJobStopped:
		fmt.Fprintf(&b, " previous_state=%s", ev.PreviousState)
	case job.EventJobExited:
		fmt.Fprintf(&b, " exit_code=%d restart_count=%d", ev.ExitCode, ev.RestartCount)
		if ev.ExitSignal != nil {
			fmt.Fprintf(&b, " signal=%d", *ev.ExitSignal)
		}
	case job.EventJobFailed:
		fmt.Fprintf(&b, " failed_state=%s", ev.FailedState)
	case job.EventJobRestartScheduled:
		fmt.Fprintf(&b, " delay=%s attempt=%d", ev.Delay, ev.Attempt)
	}

	return b.String()
}
