// Package metrics records pipeline metrics.
//
// Components receive a Recorder and default to NoopRecorder, so call sites
// never check whether metrics are enabled. When metrics are configured the
// CLI installs a PrometheusRecorder on a private registry and the preview
// server exposes it through HTTPHandler at /metrics.
package metrics
