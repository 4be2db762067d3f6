package pwquality

import (
	"errors"
	"testing"
)

func TestBuilderRequiresCheckerProvider(t *testing.T) {
	_, err := New().Build()
	if !errors.Is(err, ErrNilCheckerProvider) {
		t.Fatalf("expected ErrNilCheckerProvider, got %v", err)
	}
}

func TestBuilderSingleUse(t *testing.T) {
	builder := New().WithCheckerProvider(&mockProvider{checker: &mockChecker{}})

	module, err := builder.Build()
	if err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	defer module.Close()

	if _, err := builder.Build(); !errors.Is(err, ErrBuilderConsumed) {
		t.Fatalf("expected ErrBuilderConsumed, got %v", err)
	}
}

func TestBuilderRejectsInvalidConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Retry.DefaultLimit = 0

	_, err := New().
		WithConfig(cfg).
		WithCheckerProvider(&mockProvider{checker: &mockChecker{}}).
		Build()
	if err == nil {
		t.Fatal("expected validation failure")
	}
}

func TestBuilderMetricsToggles(t *testing.T) {
	module, err := New().
		WithCheckerProvider(&mockProvider{checker: &mockChecker{}}).
		WithMetricsEnabled(false).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer module.Close()

	if module.MetricsSnapshot().Counters[MetricAttempt] != 0 {
		t.Fatal("expected empty snapshot")
	}
	if module.PolicyReport().MetricsActive {
		t.Fatal("expected metrics to be reported off")
	}
}

func TestBuilderDefaultsAreUsable(t *testing.T) {
	module, err := New().
		WithCheckerProvider(&mockProvider{checker: &mockChecker{}}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer module.Close()

	report := module.PolicyReport()
	if report.RetryDefault != 1 {
		t.Fatalf("expected single-attempt default, got %d", report.RetryDefault)
	}
	if !report.RootOverride {
		t.Fatal("expected root override default")
	}
}
