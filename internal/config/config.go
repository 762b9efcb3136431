// Package config loads the compiler's own invocation options from a
// YAML file, following the teacher's eval_harness.BenchmarkSpec pattern:
// a plain struct with yaml tags, a LoadOptions reader, and a Validate
// pass for required/well-formed fields. cmd/sablec's CLI flags override
// whatever a loaded file sets, the same layering as the teacher's
// flag-based driver over its own defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SchedulerMode selects how emitted test binaries schedule goroutines,
// so a flaky concurrency test can be re-run deterministically.
type SchedulerMode string

const (
	SchedulerDefault       SchedulerMode = "default"
	SchedulerDeterministic SchedulerMode = "deterministic"
)

// Options is the compiler's own configuration, independent of any one
// source file — target selection, optimization, scheduler determinism,
// and the derived-info sidecar refresh policy.
type Options struct {
	// Target is a placeholder triple for the (external) native backend;
	// sablec itself never emits code for it and no command reads it.
	Target string `yaml:"target"`

	// OptLevel is 0-3, following the usual -O convention.
	OptLevel int `yaml:"opt_level"`

	// Scheduler selects the emitted test binaries' goroutine scheduler.
	Scheduler SchedulerMode `yaml:"scheduler"`

	// SidecarRefresh names a refresh policy for the derived-info sidecar
	// (internal/derived): "always" or "on-stale". Validate checks the
	// value; no command reads it, and `sablec sync` builds a fresh
	// sidecar on every run.
	SidecarRefresh string `yaml:"sidecar_refresh"`

	// LogLevel is one of xlog's level names ("debug", "info", "warn",
	// "error"), applied to the default logger at startup.
	LogLevel string `yaml:"log_level"`
}

// Default returns the compiler's built-in option set, used when no
// config file is given.
func Default() Options {
	return Options{
		Target:         "",
		OptLevel:       0,
		Scheduler:      SchedulerDefault,
		SidecarRefresh: "on-stale",
		LogLevel:       "info",
	}
}

// LoadOptions reads and validates a YAML options file. It unmarshals
// onto Default() rather than a zero Options, so a partial file only
// overrides the fields it mentions.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	opts := Default()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Validate rejects option combinations the rest of the pipeline cannot
// act on.
func (o Options) Validate() error {
	if o.OptLevel < 0 || o.OptLevel > 3 {
		return fmt.Errorf("config: opt_level must be 0-3, got %d", o.OptLevel)
	}
	switch o.Scheduler {
	case SchedulerDefault, SchedulerDeterministic, "":
	default:
		return fmt.Errorf("config: unknown scheduler mode %q", o.Scheduler)
	}
	switch o.SidecarRefresh {
	case "always", "on-stale", "":
	default:
		return fmt.Errorf("config: unknown sidecar_refresh policy %q", o.SidecarRefresh)
	}
	return nil
}
