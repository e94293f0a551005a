package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "dulynoted"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration *prom.HistogramVec
	runDuration   prom.Histogram
	stageResults  *prom.CounterVec
	runOutcomes   *prom.CounterVec
	anchors       prom.Counter
	links         *prom.CounterVec
	diagnostics   *prom.CounterVec
	filesWritten  *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them with reg. A
// nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Total pipeline run duration",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		runOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "run_outcomes_total",
			Help:      "Pipeline runs by final status",
		}, []string{"outcome"}),
		anchors: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "anchors_declared_total",
			Help:      "Anchor declarations added to the reference tree",
		}),
		links: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "links_total",
			Help:      "Link tags by resolution outcome",
		}, []string{"outcome"}),
		diagnostics: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "diagnostics_total",
			Help:      "Reported diagnostics by kind",
		}, []string{"kind"}),
		filesWritten: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "files_written_total",
			Help:      "Generated files by generator",
		}, []string{"generator"}),
	}
	reg.MustRegister(pr.stageDuration, pr.runDuration, pr.stageResults, pr.runOutcomes,
		pr.anchors, pr.links, pr.diagnostics, pr.filesWritten)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncRunOutcome(outcome RunOutcomeLabel) {
	if p == nil {
		return
	}
	p.runOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) AddAnchors(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.anchors.Add(float64(n))
}

func (p *PrometheusRecorder) AddLinks(outcome string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.links.WithLabelValues(outcome).Add(float64(n))
}

func (p *PrometheusRecorder) IncDiagnostic(kind string) {
	if p == nil {
		return
	}
	p.diagnostics.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) AddFilesWritten(generator string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.filesWritten.WithLabelValues(generator).Add(float64(n))
}
