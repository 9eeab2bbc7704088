// Package manager implements the job registry and its state machine:
// the authoritative record of every loaded job, serializing every
// transition, mediating between external callers, the spawner, and the
// restart scheduler, and publishing the resulting lifecycle events.
package manager

import (
	"context"
	"sync"
	"time"

	"github.com/kodflow/daemon/internal/config"
	"github.com/kodflow/daemon/internal/eventbus"
	"github.com/kodflow/daemon/internal/job"
	"github.com/kodflow/daemon/internal/logging"
	"github.com/kodflow/daemon/internal/scheduler"
	"github.com/kodflow/daemon/internal/spawner"
)

// StopTimeout is the graceful window stop_job allows before escalating
// from TERM to KILL.
const StopTimeout = 10 * time.Second

// RestartSettleDelay is the brief pause restart_job inserts between
// stop and start.
const RestartSettleDelay = 100 * time.Millisecond

// WarnFunc receives a non-fatal operational warning, e.g. a start
// requested while a job sits in backoff, or a signal delivery failure.
type WarnFunc func(label, message string)

// Manager owns the job registry: a map of label to *job.Instance
// guarded by a single reader/writer lock, per the concurrency model.
// Writers mutate to a transitional state, release the lock, perform
// suspending work, then re-acquire it to finalize — the registry lock
// is never held across spawn, child-wait, or timer suspensions.
type Manager struct {
	mu   sync.RWMutex
	jobs map[string]*job.Instance

	// handles and captures are keyed by label alongside jobs, tracked
	// separately because neither belongs on the public job.Instance view.
	handles  map[string]*spawner.Handle
	captures map[string]*logging.Capture

	events    *eventbus.Bus[job.Event]
	exits     chan spawner.ExitNotification
	spawner   *spawner.Spawner
	scheduler *scheduler.Scheduler
	logDir    string

	Warn WarnFunc
}

// New wires a Manager around the given event bus, scheduler, and
// process executor. logDir is the base directory for per-job output
// capture (internal/logging).
func New(events *eventbus.Bus[job.Event], sched *scheduler.Scheduler, exec spawner.Executor, logDir string) *Manager {
	exits := make(chan spawner.ExitNotification, 50)
	m := &Manager{
		jobs:      make(map[string]*job.Instance),
		handles:   make(map[string]*spawner.Handle),
		captures:  make(map[string]*logging.Capture),
		events:    events,
		exits:     exits,
		scheduler: sched,
		logDir:    logDir,
		Warn:      func(string, string) {},
	}
	m.spawner = spawner.New(exec, exits)
	return m
}

// Events returns the receive side of the main event bus, for the
// single consumer (normally the event processor in internal/eventlog).
func (m *Manager) Events() <-chan job.Event {
	return m.events.Events()
}

// Run starts the manager's two background loops: consuming exit
// notifications from the spawner and consuming ready-to-restart
// wake-ups from the scheduler. It blocks until ctx is canceled.
func (m *Manager) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		m.consumeExits(ctx)
	}()
	go func() {
		defer wg.Done()
		m.scheduler.Run(ctx, m.onReadyForRestart)
	}()

	wg.Wait()
}

func (m *Manager) consumeExits(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-m.exits:
			m.handleProcessExit(n)
		}
	}
}

// onReadyForRestart is the scheduler's wake-up callback: it never
// mutates the registry itself, only emits the notification event and
// delegates to start_job, preserving the single-writer rule.
func (m *Manager) onReadyForRestart(label string) {
	m.publish(job.Event{Type: job.EventJobReadyForRestart, Label: label, Time: time.Now()})
	if err := m.StartJob(context.Background(), label); err != nil {
		m.warn(label, "restart attempt failed: "+err.Error())
	}
}

// publish emits ev on the bus, blocking under back-pressure. A publish
// failure means the event pipeline is broken; per the error taxonomy
// that surfaces as System and is logged rather than panicking, since a
// single broken pipeline must not bring down unrelated jobs.
func (m *Manager) publish(ev job.Event) {
	if err := m.events.Publish(context.Background(), ev); err != nil {
		m.warn(ev.Label, "event publish failed: "+err.Error())
	}
}

func (m *Manager) warn(label, message string) {
	if m.Warn != nil {
		m.Warn(label, message)
	}
}

// specFor builds the spawner.Spec for one launch from the job's
// immutable config, including the supervision fields the restart
// predicate needs, so neither the spawner nor its monitor has to touch
// the registry.
func specFor(label string, cfg *config.JobConfig, monitorID string) spawner.Spec {
	return spawner.Spec{
		Label:         label,
		Path:          cfg.Program.Path,
		Args:          cfg.Program.Arguments,
		Env:           cfg.EnvMap(),
		Dir:           cfg.WorkingDirectory,
		KeepAlive:     cfg.KeepAlive(),
		RestartPolicy: cfg.RestartPolicy(),
		MaxRestarts:   cfg.MaxRestarts(),
		MonitorID:     monitorID,
	}
}
