package config

// applyDefaults fills in the resolved supervision fields, applying the
// schema's default values for any field left unset in the document.
func applyDefaults(cfg *JobConfig) {
	r := resolvedSupervision{
		keepAlive:       DefaultKeepAlive,
		restartPolicy:   DefaultRestartPolicy,
		restartDelaySec: DefaultRestartDelaySec,
		maxRestarts:     DefaultMaxRestarts,
	}

	if cfg.Supervision.KeepAlive != nil {
		r.keepAlive = *cfg.Supervision.KeepAlive
	}
	if cfg.Supervision.RestartPolicy != "" {
		r.restartPolicy = cfg.Supervision.RestartPolicy
	}
	if cfg.Supervision.RestartDelaySec != nil {
		r.restartDelaySec = *cfg.Supervision.RestartDelaySec
	}
	if cfg.Supervision.MaxRestarts != nil {
		r.maxRestarts = *cfg.Supervision.MaxRestarts
	}

	cfg.resolved = r
}
