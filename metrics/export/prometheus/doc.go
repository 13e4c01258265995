// Package prometheus provides Prometheus collectors for trustcore metrics.
//
// [NewPrometheusExporter] accepts a [trustcore.Engine] and exposes an [http.Handler]
// that renders all trustcore counters and histograms in Prometheus text exposition
// format. Counter names are prefixed trustcore_*_total; the single histogram is
// trustcore_validate_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
