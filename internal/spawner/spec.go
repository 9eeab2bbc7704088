// Package spawner launches child processes from a resolved job
// configuration and runs the detached monitor task that waits for each
// one to exit, extracts its outcome, and reports it back through a
// bounded notification channel owned by the caller. It is the only
// package that touches os/exec.
package spawner

import "github.com/kodflow/daemon/internal/config"

// Spec is the fully resolved set of parameters for one launch: exactly
// the configured executable, arguments, and environment, plus the
// static supervision fields the monitor needs to evaluate the restart
// predicate on exit. The supervisor's own environment is never
// inherited implicitly.
type Spec struct {
	Label string
	Path  string
	Args  []string
	Env   map[string]string
	Dir   string

	KeepAlive     bool
	RestartPolicy config.RestartPolicy
	MaxRestarts   int

	// MonitorID correlates this incarnation's ExitNotification with the
	// job.MonitorHandle the caller associated with the launch, so a
	// stale notification from a superseded monitor can be recognized
	// and ignored instead of corrupting a newer incarnation's state.
	MonitorID string
}
