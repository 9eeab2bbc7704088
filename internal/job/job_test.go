package job_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kodflow/daemon/internal/job"
)

func TestState_HasPID(t *testing.T) {
	assert.True(t, job.StateRunning.HasPID())
	assert.True(t, job.StateStopping.HasPID())
	assert.False(t, job.StateStarting.HasPID())
	assert.False(t, job.StateStopped.HasPID())
}

func TestState_HasMonitor(t *testing.T) {
	assert.True(t, job.StateStarting.HasMonitor())
	assert.True(t, job.StateRunning.HasMonitor())
	assert.True(t, job.StateStopping.HasMonitor())
	assert.False(t, job.StateStopped.HasMonitor())
	assert.False(t, job.StateBackoff.HasMonitor())
}

func TestInstance_SnapshotUptimeOnlyWhenRunning(t *testing.T) {
	start := time.Now().Add(-5 * time.Second)
	inst := &job.Instance{Label: "svc", State: job.StateRunning, StartTime: start}

	status := inst.Snapshot(start.Add(5 * time.Second))
	assert.Equal(t, 5*time.Second, status.Uptime)

	inst.State = job.StateStopped
	status = inst.Snapshot(time.Now())
	assert.Equal(t, time.Duration(0), status.Uptime)
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "job_loaded", job.EventJobLoaded.String())
	assert.Equal(t, "job_ready_for_restart", job.EventJobReadyForRestart.String())
}
