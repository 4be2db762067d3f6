// Package internaldefs exposes stable metric name and bucket definitions shared by
// exporter implementations.
//
// Counter and histogram definitions live here so that both the Prometheus and OTel
// exporters emit identical metric names and bucket boundaries. The bucket bounds in
// [HistogramDefs] mirror the bucketing applied by the core Metrics collector; the two
// must change together.
//
// # What this package must NOT do
//
//   - Import any exporter package.
//   - Perform I/O.
package internaldefs
