// Package config provides the declarative job configuration schema,
// its TOML encoding, and structural validation.
package config

// RestartPolicy selects when a restart is warranted after exit.
type RestartPolicy string

// The closed set of restart policies.
const (
	RestartNever      RestartPolicy = "never"
	RestartAlways     RestartPolicy = "always"
	RestartOnFailure  RestartPolicy = "on-failure"
	RestartOnCrash    RestartPolicy = "on-crash"
)

// DefaultRestartPolicy is applied when supervision.restart_policy is absent.
const DefaultRestartPolicy RestartPolicy = RestartOnFailure

// Defaults for supervision fields and validation limits, per the schema.
const (
	DefaultKeepAlive        bool = true
	DefaultRestartDelaySec  int  = 1
	DefaultMaxRestarts      int  = 5
	MaxRestartDelaySec      int  = 3600
	MaxLabelLength          int  = 256
)

// EnvVar is one (key, value) pair from a repeated [[environment]] table.
// Duplicates are permitted; the last one wins when materialized.
type EnvVar struct {
	Key   string `toml:"key"`
	Value string `toml:"value"`
}

// Program describes the executable and arguments to run.
type Program struct {
	Path      string   `toml:"path"`
	Arguments []string `toml:"arguments,omitempty"`
}

// Supervision describes the restart policy and its tuning.
type Supervision struct {
	KeepAlive       *bool         `toml:"keep_alive,omitempty"`
	RestartPolicy   RestartPolicy `toml:"restart_policy,omitempty"`
	RestartDelaySec *int          `toml:"restart_delay_sec,omitempty"`
	MaxRestarts     *int          `toml:"max_restarts,omitempty"`
}

// JobConfig is the immutable, validated job description produced by Load.
// Resolved supervision values (defaults applied) are read through the
// KeepAlive, RestartPolicy, RestartDelaySec and MaxRestarts methods; the
// exported Supervision field keeps the pointer-optional forms as decoded.
type JobConfig struct {
	Label            string   `toml:"label"`
	Description      string   `toml:"description,omitempty"`
	Program          Program  `toml:"program"`
	Environment      []EnvVar `toml:"environment,omitempty"`
	WorkingDirectory string   `toml:"working_directory,omitempty"`
	Supervision      Supervision `toml:"supervision"`

	// resolved holds defaulted scalar values, filled in by applyDefaults.
	resolved resolvedSupervision
}

// resolvedSupervision holds the supervision fields after defaulting,
// so callers don't need to dereference pointers.
type resolvedSupervision struct {
	keepAlive       bool
	restartPolicy   RestartPolicy
	restartDelaySec int
	maxRestarts     int
}

// KeepAlive returns the resolved keep_alive flag.
func (c *JobConfig) KeepAlive() bool { return c.resolved.keepAlive }

// RestartPolicy returns the resolved restart policy.
func (c *JobConfig) RestartPolicy() RestartPolicy { return c.resolved.restartPolicy }

// RestartDelaySec returns the resolved restart delay in seconds.
func (c *JobConfig) RestartDelaySec() int { return c.resolved.restartDelaySec }

// MaxRestarts returns the resolved max restart count (0 means unlimited).
func (c *JobConfig) MaxRestarts() int { return c.resolved.maxRestarts }

// EnvMap materializes Environment into a map, last value winning for
// duplicate keys, as required by the data model.
func (c *JobConfig) EnvMap() map[string]string {
	m := make(map[string]string, len(c.Environment))
	for _, e := range c.Environment {
		m[e.Key] = e.Value
	}
	return m
}
