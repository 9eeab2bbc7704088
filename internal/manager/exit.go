package manager

import (
	"fmt"
	"time"

	"github.com/kodflow/daemon/internal/job"
	"github.com/kodflow/daemon/internal/spawner"
)

// handleProcessExit consumes one spawner.ExitNotification. It is the
// only place that turns a child's termination into a state transition,
// so a stop_job finalizing the same termination concurrently is
// detected via the monitor id and ignored as stale.
func (m *Manager) handleProcessExit(n spawner.ExitNotification) {
	m.mu.Lock()
	inst, ok := m.jobs[n.Label]
	if !ok {
		m.mu.Unlock()
		return
	}
	if inst.Monitor == nil || inst.Monitor.ID != n.MonitorID {
		// Superseded by a manual stop or a newer incarnation; the
		// notification refers to a child nobody is tracking anymore.
		m.mu.Unlock()
		return
	}

	inst.LastExitCode = n.ExitCode
	inst.LastExitSignal = n.ExitSignal
	inst.PID = 0
	inst.Monitor = nil
	delete(m.handles, n.Label)
	capture := m.captures[n.Label]
	delete(m.captures, n.Label)

	if !n.RestartNeeded {
		inst.State = job.StateStopped
		restartCount := inst.RestartCount
		m.mu.Unlock()
		if capture != nil {
			capture.Close()
		}
		m.publish(job.Event{
			Type: job.EventJobExited, Label: n.Label, Time: time.Now(),
			ExitCode: n.ExitCode, ExitSignal: n.ExitSignal, RestartCount: restartCount,
		})
		return
	}

	inst.RestartCount++
	restartCount := inst.RestartCount
	maxRestarts := inst.Config.MaxRestarts()
	delaySec := inst.Config.RestartDelaySec()

	if maxRestarts > 0 && restartCount >= maxRestarts {
		inst.State = job.StateFailed
		inst.FailureReason = fmt.Sprintf("Exceeded max restarts (%d)", maxRestarts)
		m.mu.Unlock()
		if capture != nil {
			capture.Close()
		}
		m.publish(job.Event{
			Type: job.EventJobExited, Label: n.Label, Time: time.Now(),
			ExitCode: n.ExitCode, ExitSignal: n.ExitSignal, RestartCount: restartCount,
		})
		m.publish(job.Event{Type: job.EventJobFailed, Label: n.Label, Time: time.Now(), FailedState: job.StateFailed})
		return
	}

	delay := m.scheduler.Schedule(n.Label, delaySec, restartCount-1)
	inst.State = job.StateBackoff
	inst.BackoffUntil = time.Now().Add(delay)
	m.mu.Unlock()

	if capture != nil {
		capture.Close()
	}
	m.publish(job.Event{
		Type: job.EventJobExited, Label: n.Label, Time: time.Now(),
		ExitCode: n.ExitCode, ExitSignal: n.ExitSignal, RestartCount: restartCount,
	})
	m.publish(job.Event{
		Type: job.EventJobRestartScheduled, Label: n.Label, Time: time.Now(),
		Delay: delay, Attempt: restartCount,
	})
}
