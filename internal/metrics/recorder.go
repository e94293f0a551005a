package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// RunOutcomeLabel is the final status of a pipeline run.
type RunOutcomeLabel string

const (
	RunSuccess  RunOutcomeLabel = "success"
	RunWarning  RunOutcomeLabel = "warning"
	RunFailed   RunOutcomeLabel = "failed"
	RunCanceled RunOutcomeLabel = "canceled"
)

// Recorder defines observability hooks for pipeline runs. Implementations must
// tolerate being called from a single goroutine per run; NoopRecorder is the
// default.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncRunOutcome(outcome RunOutcomeLabel)
	AddAnchors(n int)
	// AddLinks counts link tags by resolution outcome
	// (external, internal, unresolved).
	AddLinks(outcome string, n int)
	IncDiagnostic(kind string)
	AddFilesWritten(generator string, n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncRunOutcome(RunOutcomeLabel)              {}
func (NoopRecorder) AddAnchors(int)                             {}
func (NoopRecorder) AddLinks(string, int)                       {}
func (NoopRecorder) IncDiagnostic(string)                       {}
func (NoopRecorder) AddFilesWritten(string, int)                {}
