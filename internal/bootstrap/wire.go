//go:build wireinject

package bootstrap

import (
	"github.com/google/wire"

	"github.com/kodflow/daemon/internal/config"
	"github.com/kodflow/daemon/internal/eventbus"
	"github.com/kodflow/daemon/internal/eventlog"
	"github.com/kodflow/daemon/internal/job"
	"github.com/kodflow/daemon/internal/scheduler"
)

// InitializeApp wires the event bus, scheduler, spawner, output
// capture, job manager and event sink into a running App. This is the
// injector Wire generates code for; wire_gen.go is the hand-maintained
// equivalent kept in sync with it.
//
// Params:
//   - configDir: directory of *.toml job descriptions to load at startup.
//   - logDir: base directory for per-job output capture and the daemon's own event log.
//
// Returns:
//   - *App: the fully wired application.
//   - error: any error constructing a dependency.
func InitializeApp(configDir, logDir string) (*App, error) {
	wire.Build(
		eventbus.New[job.Event],
		config.NewLoader,
		scheduler.New,
		ProvideManager,
		eventlog.NewSink,
		NewApp,
	)
	return nil, nil
}
