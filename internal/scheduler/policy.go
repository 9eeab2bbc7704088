// Package scheduler implements the restart policy predicate, the
// exponential backoff calculation, and the time-ordered queue of
// pending restart wake-ups described by the supervision model. It is
// stateless with respect to any single decision: ShouldRestart and
// Backoff are pure functions; only the queue (Scheduler) carries state.
package scheduler

import (
	"time"

	"github.com/kodflow/daemon/internal/config"
)

// backoffCapSeconds is the maximum restart delay, regardless of
// how many attempts have accumulated.
const backoffCapSeconds = 300

// maxBackoffShift bounds the exponent used in the backoff multiplier
// so that 2^shift never overflows a 64-bit duration.
const maxBackoffShift = 6

// ShouldRestart evaluates the restart predicate for a single exit:
// keep_alive gates everything, the restart cap is checked next, and
// the remaining policies are evaluated against the exit outcome.
func ShouldRestart(keepAlive bool, policy config.RestartPolicy, exitCode int, signaled bool, maxRestarts, restartCount int) bool {
	if !keepAlive {
		return false
	}
	if maxRestarts > 0 && restartCount >= maxRestarts {
		return false
	}
	switch policy {
	case config.RestartNever:
		return false
	case config.RestartAlways:
		return true
	case config.RestartOnFailure:
		return exitCode != 0
	case config.RestartOnCrash:
		return signaled
	default:
		return false
	}
}

// Backoff computes the exponential backoff delay for the given attempt
// number: delaySec * 2^min(restartCount, 6), capped at 300 seconds.
func Backoff(delaySec, restartCount int) time.Duration {
	shift := restartCount
	if shift > maxBackoffShift {
		shift = maxBackoffShift
	}
	multiplier := int64(1) << uint(shift)
	secs := int64(delaySec) * multiplier
	if secs > backoffCapSeconds {
		secs = backoffCapSeconds
	}
	return time.Duration(secs) * time.Second
}
