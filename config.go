package pwquality

import (
	"errors"
)

// Config defines a public type used by pwquality APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Retry   RetryConfig
	Quality QualityConfig
	Policy  PolicyConfig
	Logging LoggingConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
RETRY CONFIG
====================================
*/

// RetryConfig defines a public type used by pwquality APIs.
//
// RetryConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RetryConfig struct {
	// DefaultLimit is the number of attempt cycles used when the invocation
	// arguments carry no usable retry=<N> token. Must be >= 1.
	DefaultLimit int
}

/*
====================================
QUALITY CONFIG
====================================
*/

// QualityConfig defines a public type used by pwquality APIs.
//
// QualityConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type QualityConfig struct {
	// ConfigPath is handed to Checker.ReadConfig for every new checker.
	// Empty means the checker's built-in default location.
	ConfigPath string

	// DefaultOptions are applied through Checker.SetOption before the
	// per-invocation arguments, in order. Rejected options are logged and
	// skipped, never fatal.
	DefaultOptions []string
}

// PolicyConfig defines a public type used by pwquality APIs.
//
// PolicyConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PolicyConfig struct {
	// RootOverride lets uid 0 proceed to verification after a quality
	// rejection as long as the change is not for an expired token.
	RootOverride bool
}

// LoggingConfig defines a public type used by pwquality APIs.
//
// LoggingConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LoggingConfig struct {
	// Debug turns debug-level logging on for every invocation, as if the
	// "debug" argument were always present.
	Debug bool
}

// AuditConfig defines a public type used by pwquality APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by pwquality APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig may return an error when input validation, dependency calls, or security checks fail.
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Retry: RetryConfig{
			DefaultLimit: 1,
		},
		Quality: QualityConfig{
			ConfigPath: "",
		},
		Policy: PolicyConfig{
			RootOverride: true,
		},
		Logging: LoggingConfig{
			Debug: false,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Quality.DefaultOptions = cloneStrings(cfg.Quality.DefaultOptions)
	return out
}

func cloneStrings(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Retry
	if c.Retry.DefaultLimit < 1 {
		return errors.New("Retry DefaultLimit must be >= 1")
	}

	// Quality
	for _, opt := range c.Quality.DefaultOptions {
		if opt == "" {
			return errors.New("Quality DefaultOptions must not contain empty entries")
		}
	}

	// Audit
	if c.Audit.Enabled {
		if c.Audit.BufferSize <= 0 {
			return errors.New("Audit BufferSize must be > 0 when audit is enabled")
		}
	}

	// Metrics
	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("Metrics EnableLatencyHistograms requires Metrics Enabled")
	}

	return nil
}
