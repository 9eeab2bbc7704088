package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kodflow/daemon/internal/errs"
	"github.com/pelletier/go-toml/v2"
)

// ConfigExtension is the file suffix the directory loader looks for.
const ConfigExtension = ".toml"

// WarnFunc receives a non-fatal warning about a loaded job, e.g. a
// dormant restart policy. The label is empty for warnings not tied
// to a specific job.
type WarnFunc func(label, message string)

// Loader parses and validates job configuration documents. Loading is
// pure and idempotent: it never touches the process table.
type Loader struct {
	// Warn receives non-fatal load-time warnings. Defaults to a no-op.
	Warn WarnFunc
}

// NewLoader creates a Loader with a no-op warning sink.
func NewLoader() *Loader {
	return &Loader{Warn: func(string, string) {}}
}

// Load reads and parses a single job configuration file from path.
func (l *Loader) Load(path string) (*JobConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errs.Error{Kind: errs.ConfigFileNotFound, Message: path}
		}
		return nil, errs.Wrap(errs.IO, "reading config file", err)
	}
	return l.Parse(data)
}

// Parse parses a job configuration document from TOML bytes, applies
// schema defaults, and validates the result. Unknown keys are rejected
// (strict schema).
func (l *Loader) Parse(data []byte) (*JobConfig, error) {
	var cfg JobConfig

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, &errs.Error{Kind: errs.ConfigParse, Message: err.Error(), Cause: err}
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	if l.Warn != nil && !cfg.KeepAlive() && cfg.RestartPolicy() != RestartNever {
		l.Warn(cfg.Label, fmt.Sprintf(
			"keep_alive=false makes restart_policy=%s dormant: it will never trigger a restart",
			cfg.RestartPolicy()))
	}

	return &cfg, nil
}

// LoadError pairs a file path with the error encountered loading it,
// used by LoadDir to report partial failures without aborting startup.
type LoadError struct {
	Path string
	Err  error
}

func (e LoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// LoadDir loads every file with the configured extension in dir.
// Files that fail to parse or validate are collected as LoadErrors and
// skipped rather than aborting the whole directory; duplicate labels
// across files are reported the same way (the first file wins).
func (l *Loader) LoadDir(dir string) ([]*JobConfig, []LoadError) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, []LoadError{{Path: dir, Err: errs.Wrap(errs.IO, "reading config directory", err)}}
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ConfigExtension) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var (
		configs []*JobConfig
		errs2   []LoadError
		seen    = make(map[string]bool)
	)
	for _, name := range names {
		path := filepath.Join(dir, name)
		cfg, err := l.Load(path)
		if err != nil {
			errs2 = append(errs2, LoadError{Path: path, Err: err})
			continue
		}
		if seen[cfg.Label] {
			errs2 = append(errs2, LoadError{Path: path, Err: errs.Exists(cfg.Label)})
			continue
		}
		seen[cfg.Label] = true
		configs = append(configs, cfg)
	}
	return configs, errs2
}
