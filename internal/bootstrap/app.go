package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/kodflow/daemon/internal/config"
	"github.com/kodflow/daemon/internal/eventlog"
	"github.com/kodflow/daemon/internal/manager"
)

// ShutdownGrace bounds how long the orderly shutdown path waits for
// every loaded job to stop before returning anyway.
const ShutdownGrace = 30 * time.Second

// App is the wired, runnable engine: a job manager, its event sink,
// and the config loader used to populate the registry at startup.
type App struct {
	Manager  *manager.Manager
	Sink     *eventlog.Sink
	Loader   *config.Loader
	ConfigDir string
}

// NewApp assembles the final App from its wired collaborators. It is
// the last provider in the dependency graph.
func NewApp(cfgLoader *config.Loader, mgr *manager.Manager, sink *eventlog.Sink, configDir string) *App {
	cfgLoader.Warn = func(label, msg string) {
		fmt.Fprintf(os.Stderr, "warning: %s: %s\n", label, msg)
	}
	mgr.Warn = func(label, msg string) {
		fmt.Fprintf(os.Stderr, "warning: %s: %s\n", label, msg)
	}
	return &App{Manager: mgr, Sink: sink, Loader: cfgLoader, ConfigDir: configDir}
}

// Run loads every job description in ConfigDir, starts the manager's
// background loops and the event sink, then blocks until ctx is
// canceled or TERM/INT is received, at which point it stops every
// loaded job concurrently, bounded by ShutdownGrace.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	configs, loadErrs := a.Loader.LoadDir(a.ConfigDir)
	for _, le := range loadErrs {
		fmt.Fprintf(os.Stderr, "warning: skipping %s: %v\n", le.Path, le.Err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.Manager.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		a.Sink.Run(ctx, a.Manager.Events())
	}()

	for _, cfg := range configs {
		if err := a.Manager.LoadJob(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %s: %v\n", cfg.Label, err)
		}
	}

	<-ctx.Done()
	a.shutdown()
	wg.Wait()
	return a.Sink.Close()
}

// shutdown stops every loaded job concurrently, bounded by ShutdownGrace.
func (a *App) shutdown() {
	statuses := a.Manager.ListJobs()

	done := make(chan struct{})
	go func() {
		var wg sync.WaitGroup
		for _, s := range statuses {
			wg.Add(1)
			go func(label string) {
				defer wg.Done()
				if err := a.Manager.StopJob(label); err != nil {
					fmt.Fprintf(os.Stderr, "warning: %s: stop failed: %v\n", label, err)
				}
			}(s.Label)
		}
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(ShutdownGrace):
		fmt.Fprintln(os.Stderr, "warning: shutdown grace period elapsed with jobs still stopping")
	}
}
