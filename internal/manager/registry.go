package manager

import (
	"context"
	"time"

	"github.com/kodflow/daemon/internal/config"
	"github.com/kodflow/daemon/internal/errs"
	"github.com/kodflow/daemon/internal/job"
)

// LoadJob inserts a new instance in Stopped, rejecting a duplicate
// label with JobExists. If keep_alive is set, an auto-start is
// scheduled asynchronously without holding the registry lock.
func (m *Manager) LoadJob(cfg *config.JobConfig) error {
	m.mu.Lock()
	if _, exists := m.jobs[cfg.Label]; exists {
		m.mu.Unlock()
		return errs.Exists(cfg.Label)
	}
	m.jobs[cfg.Label] = &job.Instance{Label: cfg.Label, Config: cfg, State: job.StateStopped}
	m.mu.Unlock()

	m.publish(job.Event{Type: job.EventJobLoaded, Label: cfg.Label, Time: time.Now()})

	if cfg.KeepAlive() {
		go func() {
			if err := m.StartJob(context.Background(), cfg.Label); err != nil {
				m.warn(cfg.Label, "auto-start failed: "+err.Error())
			}
		}()
	}
	return nil
}

// GetJobStatus returns a read-only snapshot of label's instance.
func (m *Manager) GetJobStatus(label string) (job.Status, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inst, ok := m.jobs[label]
	if !ok {
		return job.Status{}, errs.NotFound(label)
	}
	return inst.Snapshot(time.Now()), nil
}

// ListJobs returns a read-only snapshot of every loaded instance, in
// no particular order.
func (m *Manager) ListJobs() []job.Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	now := time.Now()
	statuses := make([]job.Status, 0, len(m.jobs))
	for _, inst := range m.jobs {
		statuses = append(statuses, inst.Snapshot(now))
	}
	return statuses
}
