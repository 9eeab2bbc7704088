package job

import (
	"time"

	"github.com/kodflow/daemon/internal/config"
)

// MonitorHandle is an opaque reference to the detached task monitoring
// a running child. It correlates log lines and events with a single
// incarnation of a job, independent of pid reuse.
type MonitorHandle struct {
	// ID identifies this incarnation of the job.
	ID string
	// Done is closed by the monitor when the child has been reaped.
	Done chan struct{}
}

// Instance is the mutable, manager-owned record for one loaded job,
// keyed by its config's label. All fields are mutated only while the
// manager's registry lock is held; see internal/manager.
type Instance struct {
	Label  string
	Config *config.JobConfig

	State State

	// FailureReason is set when State == StateFailed; empty otherwise.
	FailureReason string

	// PID is the OS process id while State is Running or Stopping.
	PID int

	// StartTime is the timestamp of the most recent successful start.
	StartTime time.Time

	// RestartCount is the number of restart attempts since the last
	// clean start; reset to 0 on successful start.
	RestartCount int

	// LastExitCode and LastExitSignal record the most recent termination.
	LastExitCode   int
	LastExitSignal *int

	// BackoffUntil is the monotonic deadline while State == StateBackoff.
	BackoffUntil time.Time

	// Monitor is present iff a child is currently associated with this instance.
	Monitor *MonitorHandle
}

// Status is a read-only snapshot of an Instance, safe to hand to callers
// outside the registry lock.
type Status struct {
	Label          string
	State          State
	FailureReason  string
	PID            int
	StartTime      time.Time
	Uptime         time.Duration
	RestartCount   int
	LastExitCode   int
	LastExitSignal *int
	BackoffUntil   time.Time
}

// Snapshot builds a Status from the instance's current fields. The
// caller must hold at least a read lock on the owning registry.
func (i *Instance) Snapshot(now time.Time) Status {
	var uptime time.Duration
	if i.State == StateRunning {
		uptime = now.Sub(i.StartTime)
	}
	return Status{
		Label:          i.Label,
		State:          i.State,
		FailureReason:  i.FailureReason,
		PID:            i.PID,
		StartTime:      i.StartTime,
		Uptime:         uptime,
		RestartCount:   i.RestartCount,
		LastExitCode:   i.LastExitCode,
		LastExitSignal: i.LastExitSignal,
		BackoffUntil:   i.BackoffUntil,
	}
}
