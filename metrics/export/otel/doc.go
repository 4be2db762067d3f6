// Package otel provides OpenTelemetry metric exporter bindings for pwquality
// counters and histograms.
//
// [NewOTelExporter] registers Int64ObservableCounter instruments for each pwquality
// counter and Int64ObservableGauge per histogram bucket. A single callback reads
// [pwquality.Module.MetricsSnapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider; callers supply the Meter.
//   - Mutate controller state.
package otel
