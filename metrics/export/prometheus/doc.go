// Package prometheus provides Prometheus rendering for pwquality metrics.
//
// [NewPrometheusExporter] accepts a [pwquality.Module] and exposes an [http.Handler]
// that renders all pwquality counters and histograms in Prometheus text exposition
// format. Counter names are prefixed pwquality_*_total; the histograms are
// pwquality_change_latency_seconds and pwquality_check_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry; callers mount the Handler.
//   - Mutate controller state.
package prometheus
