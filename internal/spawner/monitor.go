package spawner

import (
	"context"
	"io"
	"syscall"
	"time"

	"github.com/kodflow/daemon/internal/errs"
	"github.com/kodflow/daemon/internal/scheduler"
)

// ExitNotification is what the detached monitor task reports back to
// the job manager when a child terminates. It carries no restart count:
// the monitor has no view of how many times this job has already been
// restarted, so it evaluates the restart predicate with a count of 0;
// the manager applies the true count and, if the cap is reached, its
// own check wins.
type ExitNotification struct {
	Label         string
	MonitorID     string
	ExitCode      int
	ExitSignal    *int
	RestartNeeded bool
}

// Spawner starts children and runs their monitor tasks, reporting
// outcomes on Exits. One Spawner is shared by every job in the registry.
type Spawner struct {
	exec  Executor
	Exits chan<- ExitNotification
}

// New creates a Spawner backed by exec, reporting exits on exits.
func New(exec Executor, exits chan<- ExitNotification) *Spawner {
	return &Spawner{exec: exec, Exits: exits}
}

// Start launches spec and returns immediately with a Handle once the
// child has begun executing; a detached goroutine then waits for it to
// exit and reports the outcome on Exits.
func (s *Spawner) Start(ctx context.Context, spec Spec, stdout, stderr io.Writer) (*Handle, error) {
	handle, err := s.exec.Start(ctx, spec, stdout, stderr)
	if err != nil {
		return nil, errs.Wrap(errs.ProcessSpawn, "starting process", err)
	}
	go s.monitor(handle, spec)
	return handle, nil
}

// monitor waits for the child to exit, evaluates whether a restart is
// warranted per the configured policy, and publishes the outcome.
func (s *Spawner) monitor(handle *Handle, spec Spec) {
	exitCode, signal, _ := handle.Wait()
	close(handle.Done)

	restartNeeded := scheduler.ShouldRestart(
		spec.KeepAlive, spec.RestartPolicy, exitCode, signal != nil, spec.MaxRestarts, 0,
	)

	s.Exits <- ExitNotification{
		Label:         spec.Label,
		MonitorID:     spec.MonitorID,
		ExitCode:      exitCode,
		ExitSignal:    signal,
		RestartNeeded: restartNeeded,
	}
}

// Kill implements the kill(pid, force) primitive: force=false sends
// SIGTERM, falling back to SIGKILL only if the SIGTERM syscall itself
// fails; force=true sends SIGKILL directly. No wait is performed here;
// reaping is the monitor's job.
func (s *Spawner) Kill(handle *Handle, force bool) error {
	if force {
		if err := handle.Signal(syscall.SIGKILL); err != nil {
			return errs.Wrap(errs.ProcessSignal, "sending SIGKILL", err)
		}
		return nil
	}
	if err := handle.Signal(syscall.SIGTERM); err != nil {
		if killErr := handle.Signal(syscall.SIGKILL); killErr != nil {
			return errs.Wrap(errs.ProcessSignal, "sending SIGKILL after SIGTERM failed", killErr)
		}
	}
	return nil
}

// Stop requests graceful termination of handle: SIGTERM, then SIGKILL
// if the child has not exited within timeout. It returns once the
// child has been reaped, i.e. once handle.Done is closed.
func (s *Spawner) Stop(handle *Handle, timeout time.Duration) error {
	if err := s.Kill(handle, false); err != nil {
		return err
	}

	select {
	case <-handle.Done:
		return nil
	case <-time.After(timeout):
	}

	if err := s.Kill(handle, true); err != nil {
		return err
	}
	<-handle.Done
	return nil
}
