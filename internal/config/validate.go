package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kodflow/daemon/internal/errs"
)

// invalidLabelChars are forbidden anywhere in a label, per the schema.
const invalidLabelChars = "/\\:*?\"<>|"

// Validate checks cfg against the structural rules in the schema and
// returns a *errs.Error with Kind ConfigValidation describing every
// violation found, or nil.
func Validate(cfg *JobConfig) error {
	var problems []string

	problems = append(problems, validateLabel(cfg.Label)...)
	problems = append(problems, validateProgram(&cfg.Program)...)
	problems = append(problems, validateEnvironment(cfg.Environment)...)
	problems = append(problems, validateWorkingDirectory(cfg.WorkingDirectory)...)
	problems = append(problems, validateSupervision(&cfg.Supervision)...)

	if len(problems) == 0 {
		return nil
	}
	return &errs.Error{
		Kind:    errs.ConfigValidation,
		Label:   cfg.Label,
		Message: strings.Join(problems, "; "),
	}
}

func validateLabel(label string) []string {
	var problems []string
	if label == "" {
		problems = append(problems, "label: must not be empty")
		return problems
	}
	if len(label) > MaxLabelLength {
		problems = append(problems, fmt.Sprintf("label: exceeds %d characters", MaxLabelLength))
	}
	if strings.ContainsAny(label, invalidLabelChars) {
		problems = append(problems, fmt.Sprintf("label: must not contain any of %q", invalidLabelChars))
	}
	if strings.ContainsRune(label, 0) {
		problems = append(problems, "label: must not contain NUL")
	}
	return problems
}

func validateProgram(p *Program) []string {
	var problems []string
	if p.Path == "" {
		problems = append(problems, "program.path: must not be empty")
	} else if !filepath.IsAbs(p.Path) {
		problems = append(problems, fmt.Sprintf("program.path: must be absolute, got %q", p.Path))
	}
	return problems
}

func validateEnvironment(vars []EnvVar) []string {
	var problems []string
	for i, e := range vars {
		if e.Key == "" {
			problems = append(problems, fmt.Sprintf("environment[%d].key: must not be empty", i))
			continue
		}
		if strings.ContainsRune(e.Key, '=') {
			problems = append(problems, fmt.Sprintf("environment[%d].key: must not contain '='", i))
		}
		if strings.ContainsRune(e.Key, 0) || strings.ContainsRune(e.Value, 0) {
			problems = append(problems, fmt.Sprintf("environment[%d]: must not contain NUL", i))
		}
	}
	return problems
}

func validateWorkingDirectory(dir string) []string {
	if dir == "" {
		return nil
	}
	if !filepath.IsAbs(dir) {
		return []string{fmt.Sprintf("working_directory: must be absolute, got %q", dir)}
	}
	return nil
}

func validateSupervision(s *Supervision) []string {
	var problems []string

	switch s.RestartPolicy {
	case "", RestartNever, RestartAlways, RestartOnFailure, RestartOnCrash:
	default:
		problems = append(problems, fmt.Sprintf(
			"supervision.restart_policy: invalid value %q (must be never, always, on-failure, or on-crash)",
			s.RestartPolicy))
	}

	if s.RestartDelaySec != nil {
		if *s.RestartDelaySec < 0 {
			problems = append(problems, "supervision.restart_delay_sec: must not be negative")
		} else if *s.RestartDelaySec > MaxRestartDelaySec {
			problems = append(problems, fmt.Sprintf(
				"supervision.restart_delay_sec: must not exceed %d", MaxRestartDelaySec))
		}
	}

	if s.MaxRestarts != nil && *s.MaxRestarts < 0 {
		problems = append(problems, "supervision.max_restarts: must not be negative")
	}

	return problems
}
