package pipeline

import (
	"context"
	"errors"
	"time"

	"git.home.luguber.info/inful/dulynoted/internal/diagnostics"
	"git.home.luguber.info/inful/dulynoted/internal/events"
	"git.home.luguber.info/inful/dulynoted/internal/metrics"
	"git.home.luguber.info/inful/dulynoted/internal/refs"
	"git.home.luguber.info/inful/dulynoted/internal/resolver"
)

// GeneratorReport summarizes one generator's output.
type GeneratorReport struct {
	Name         string
	Documents    []string
	Index        string
	FilesWritten int
	Stats        resolver.Stats
}

// RunReport describes a finished run.
type RunReport struct {
	RunID          string
	Project        string
	Revision       string
	StartedAt      time.Time
	Duration       time.Duration
	StageDurations map[StageName]time.Duration
	StageResults   map[StageName]metrics.ResultLabel
	Outcome        metrics.RunOutcomeLabel

	Sources    int
	Anchors    int
	Links      resolver.Stats
	Generators []GeneratorReport

	Diagnostics []diagnostics.Diagnostic
	// Tree is the anchor tree built or loaded by the run, nil when no stage
	// produced one.
	Tree *refs.Collection
	Err  error
}

func newRunReport(runID, project string) *RunReport {
	return &RunReport{
		RunID:          runID,
		Project:        project,
		StartedAt:      time.Now(),
		StageDurations: make(map[StageName]time.Duration),
		StageResults:   make(map[StageName]metrics.ResultLabel),
	}
}

func (r *RunReport) recordStage(name StageName, d time.Duration, result metrics.ResultLabel, rec metrics.Recorder) {
	r.StageDurations[name] = d
	r.StageResults[name] = result
	rec.ObserveStageDuration(string(name), d)
	rec.IncStageResult(string(name), result)
}

func (r *RunReport) addGenerator(g GeneratorReport) {
	r.Generators = append(r.Generators, g)
	r.Links.Anchors += g.Stats.Anchors
	r.Links.External += g.Stats.External
	r.Links.Internal += g.Stats.Internal
	r.Links.Unresolved += g.Stats.Unresolved
}

// FilesWritten counts every file written by every generator.
func (r *RunReport) FilesWritten() int {
	n := 0
	for _, g := range r.Generators {
		n += g.FilesWritten
	}
	return n
}

// finish derives the outcome and feeds the run totals to rec.
func (r *RunReport) finish(err error, diag *diagnostics.Collector, rec metrics.Recorder) {
	r.Duration = time.Since(r.StartedAt)
	r.Diagnostics = diag.Sorted()
	r.Err = err

	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		r.Outcome = metrics.RunCanceled
	case err != nil:
		r.Outcome = metrics.RunFailed
	case diag.HasWarnings():
		r.Outcome = metrics.RunWarning
	default:
		r.Outcome = metrics.RunSuccess
	}

	rec.ObserveRunDuration(r.Duration)
	rec.IncRunOutcome(r.Outcome)
	rec.AddAnchors(r.Anchors)
	rec.AddLinks(string(resolver.KindExternal), r.Links.External)
	rec.AddLinks(string(resolver.KindInternal), r.Links.Internal)
	rec.AddLinks(string(resolver.KindUnresolved), r.Links.Unresolved)
	for _, d := range r.Diagnostics {
		rec.IncDiagnostic(string(d.Kind))
	}
	for _, g := range r.Generators {
		rec.AddFilesWritten(g.Name, g.FilesWritten)
	}
}

// Summary converts the report into the published event.
func (r *RunReport) Summary() *events.RunSummary {
	s := &events.RunSummary{
		RunID:        r.RunID,
		Project:      r.Project,
		Outcome:      string(r.Outcome),
		Revision:     r.Revision,
		StartedAt:    r.StartedAt.UTC(),
		DurationMS:   r.Duration.Milliseconds(),
		Generators:   make([]string, 0, len(r.Generators)),
		Files:        r.Sources,
		FilesWritten: r.FilesWritten(),
		Anchors:      r.Anchors,
		Links: events.LinkCounts{
			External:   r.Links.External,
			Internal:   r.Links.Internal,
			Unresolved: r.Links.Unresolved,
		},
	}
	for _, g := range r.Generators {
		s.Generators = append(s.Generators, g.Name)
	}
	if len(r.Diagnostics) > 0 {
		s.Diagnostics = make(map[string]int)
		for _, d := range r.Diagnostics {
			s.Diagnostics[string(d.Kind)]++
		}
	}
	if r.Err != nil {
		s.Error = r.Err.Error()
	}
	return s
}
