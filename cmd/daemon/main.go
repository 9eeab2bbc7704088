// Package main provides the entry point for the daemon process
// supervisor. daemon starts every job described in a configuration
// directory, monitors them, restarts them per policy, and drains
// their output and its own event stream to rotating log files until
// it receives TERM or INT.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kodflow/daemon/internal/bootstrap"
)

var (
	version   = "dev"
	configDir string
	logDir    string
)

func main() {
	flag.StringVar(&configDir, "config-dir", "/etc/daemon/jobs", "directory of job configuration files")
	flag.StringVar(&logDir, "log-dir", "/var/log/daemon", "base directory for job output and the daemon's own event log")
	showVersion := flag.Bool("version", false, "show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("daemon %s\n", version)
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app, err := bootstrap.InitializeApp(configDir, logDir)
	if err != nil {
		return fmt.Errorf("initializing app: %w", err)
	}
	return app.Run(context.Background())
}
