package scheduler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kodflow/daemon/internal/config"
	"github.com/kodflow/daemon/internal/scheduler"
)

func TestShouldRestart_KeepAliveFalseAlwaysFalse(t *testing.T) {
	assert.False(t, scheduler.ShouldRestart(false, config.RestartAlways, 1, false, 0, 0))
}

func TestShouldRestart_MaxRestartsCap(t *testing.T) {
	assert.False(t, scheduler.ShouldRestart(true, config.RestartAlways, 1, false, 3, 3))
	assert.True(t, scheduler.ShouldRestart(true, config.RestartAlways, 1, false, 3, 2))
	assert.True(t, scheduler.ShouldRestart(true, config.RestartAlways, 1, false, 0, 1000))
}

func TestShouldRestart_Policies(t *testing.T) {
	assert.False(t, scheduler.ShouldRestart(true, config.RestartNever, 1, true, 0, 0))
	assert.True(t, scheduler.ShouldRestart(true, config.RestartAlways, 0, false, 0, 0))
	assert.False(t, scheduler.ShouldRestart(true, config.RestartOnFailure, 0, false, 0, 0))
	assert.True(t, scheduler.ShouldRestart(true, config.RestartOnFailure, 1, false, 0, 0))
	assert.False(t, scheduler.ShouldRestart(true, config.RestartOnCrash, 1, false, 0, 0))
	assert.True(t, scheduler.ShouldRestart(true, config.RestartOnCrash, 0, true, 0, 0))
}

func TestBackoff_BoundaryAttempts(t *testing.T) {
	assert.Equal(t, 1*time.Second, scheduler.Backoff(1, 0))
	assert.Equal(t, 64*time.Second, scheduler.Backoff(1, 6))
	assert.Equal(t, 64*time.Second, scheduler.Backoff(1, 7)) // exponent capped at 6
	assert.Equal(t, 300*time.Second, scheduler.Backoff(5, 6)) // 5*64=320 clamped to 300
}

func TestScheduler_ScheduleAndReady(t *testing.T) {
	s := scheduler.New()
	delay := s.Schedule("svc", 0, 0)
	assert.Equal(t, time.Duration(0), delay)

	remaining, ok := s.IsInBackoff("svc")
	assert.True(t, ok)
	assert.GreaterOrEqual(t, remaining, time.Duration(0))

	time.Sleep(5 * time.Millisecond)
	labels := s.Ready()
	assert.Equal(t, []string{"svc"}, labels)

	_, ok = s.IsInBackoff("svc")
	assert.False(t, ok)
}

func TestScheduler_Cancel(t *testing.T) {
	s := scheduler.New()
	s.Schedule("svc", 10, 0)
	s.Cancel("svc")
	_, ok := s.IsInBackoff("svc")
	assert.False(t, ok)
}

func TestScheduler_ReadyOrdersByDeadline(t *testing.T) {
	s := scheduler.New()
	s.Schedule("slow", 1, 0)
	s.Schedule("fast", 0, 0)
	time.Sleep(5 * time.Millisecond)
	labels := s.Ready()
	assert.Equal(t, []string{"fast"}, labels) // slow's 1s deadline hasn't elapsed yet
}
