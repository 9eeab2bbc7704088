// Package bootstrap is the composition root: it constructs the event
// bus, scheduler, spawner, output capture and job manager, and hands a
// running engine to cmd/daemon.
package bootstrap

import (
	"github.com/kodflow/daemon/internal/eventbus"
	"github.com/kodflow/daemon/internal/job"
	"github.com/kodflow/daemon/internal/manager"
	"github.com/kodflow/daemon/internal/scheduler"
	"github.com/kodflow/daemon/internal/spawner"
)

// eventBusCapacity is the main event stream's channel capacity.
const eventBusCapacity = 100

// ProvideManager constructs the job manager around its wired
// collaborators. Kept as a named provider (rather than manager.New
// directly) so the executor is fixed to spawner.OSExecutor here, while
// Wire's injector supplies the bus, scheduler and logDir.
func ProvideManager(bus *eventbus.Bus[job.Event], sched *scheduler.Scheduler, logDir string) *manager.Manager {
	return manager.New(bus, sched, spawner.OSExecutor{}, logDir)
}
