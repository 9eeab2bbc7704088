package manager

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kodflow/daemon/internal/errs"
	"github.com/kodflow/daemon/internal/job"
	"github.com/kodflow/daemon/internal/logging"
)

// StartJob starts label's child unless it is already running or
// mid-spawn, in which case it is a no-op success. A job still waiting
// out its backoff window is left alone with a warning, not forced.
func (m *Manager) StartJob(ctx context.Context, label string) error {
	m.mu.Lock()
	inst, ok := m.jobs[label]
	if !ok {
		m.mu.Unlock()
		return errs.NotFound(label)
	}

	switch inst.State {
	case job.StateRunning, job.StateStarting:
		m.mu.Unlock()
		return nil
	case job.StateBackoff:
		if time.Now().Before(inst.BackoffUntil) {
			m.mu.Unlock()
			m.warn(label, "start requested while job is in backoff; ignoring")
			return nil
		}
	}

	m.scheduler.Cancel(label)
	inst.State = job.StateStarting
	inst.BackoffUntil = time.Time{}
	cfg := inst.Config
	m.mu.Unlock()

	capture, err := logging.NewCapture(m.logDir, label)
	if err != nil {
		m.failJob(label, "Failed to start: "+err.Error())
		return errs.Wrap(errs.ProcessSpawn, "opening output capture", err)
	}

	monitorID := uuid.NewString()
	handle, err := m.spawner.Start(ctx, specFor(label, cfg, monitorID), capture.Stdout(), capture.Stderr())
	if err != nil {
		capture.Close()
		m.failJob(label, "Failed to start: "+err.Error())
		return err
	}

	m.mu.Lock()
	inst = m.jobs[label]
	inst.State = job.StateRunning
	inst.PID = handle.PID
	inst.StartTime = time.Now()
	inst.RestartCount = 0
	inst.Monitor = &job.MonitorHandle{ID: monitorID, Done: handle.Done}
	m.handles[label] = handle
	m.captures[label] = capture
	m.mu.Unlock()

	m.publish(job.Event{Type: job.EventJobStarted, Label: label, Time: time.Now(), PID: handle.PID, StartTime: inst.StartTime})
	return nil
}

// failJob transitions label straight to Failed, e.g. after a spawn
// failure, and emits JobFailed.
func (m *Manager) failJob(label, reason string) {
	m.mu.Lock()
	inst, ok := m.jobs[label]
	if !ok {
		m.mu.Unlock()
		return
	}
	inst.State = job.StateFailed
	inst.FailureReason = reason
	m.mu.Unlock()

	m.publish(job.Event{Type: job.EventJobFailed, Label: label, Time: time.Now(), FailedState: job.StateFailed})
}

// StopJob stops label's child gracefully: TERM, then KILL if it has
// not exited within StopTimeout. A job already Stopped is a no-op.
func (m *Manager) StopJob(label string) error {
	m.mu.Lock()
	inst, ok := m.jobs[label]
	if !ok {
		m.mu.Unlock()
		return errs.NotFound(label)
	}
	if inst.State == job.StateStopped {
		m.mu.Unlock()
		return nil
	}

	previousState := inst.State
	inst.State = job.StateStopping
	inst.Monitor = nil
	handle := m.handles[label]
	capture := m.captures[label]
	delete(m.handles, label)
	delete(m.captures, label)
	m.mu.Unlock()

	m.scheduler.Cancel(label)

	if handle != nil {
		if err := m.spawner.Stop(handle, StopTimeout); err != nil {
			m.warn(label, "stop signal failed: "+err.Error())
		}
	}
	if capture != nil {
		capture.Close()
	}

	m.mu.Lock()
	inst = m.jobs[label]
	inst.State = job.StateStopped
	inst.PID = 0
	inst.StartTime = time.Time{}
	inst.Monitor = nil
	m.mu.Unlock()

	m.publish(job.Event{Type: job.EventJobStopped, Label: label, Time: time.Now(), PreviousState: previousState})
	return nil
}

// RestartJob stops label, waits out a brief settle window, then starts
// it again.
func (m *Manager) RestartJob(ctx context.Context, label string) error {
	if err := m.StopJob(label); err != nil {
		return err
	}
	time.Sleep(RestartSettleDelay)
	return m.StartJob(ctx, label)
}
