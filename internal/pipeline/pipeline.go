// Package pipeline runs the documentation stages: parse the sources into the
// parse cache, generate every configured output format from it, and clean the
// cache up. Each run gets an id, a diagnostics collector and a RunReport.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/dulynoted/internal/config"
	"git.home.luguber.info/inful/dulynoted/internal/diagnostics"
	"git.home.luguber.info/inful/dulynoted/internal/events"
	"git.home.luguber.info/inful/dulynoted/internal/extract"
	ferrors "git.home.luguber.info/inful/dulynoted/internal/foundation/errors"
	"git.home.luguber.info/inful/dulynoted/internal/logfields"
	"git.home.luguber.info/inful/dulynoted/internal/metrics"
	"git.home.luguber.info/inful/dulynoted/internal/refs"
	"git.home.luguber.info/inful/dulynoted/internal/store"
	"git.home.luguber.info/inful/dulynoted/internal/vcs"
	"git.home.luguber.info/inful/dulynoted/internal/workspace"
)

// ErrStrictDiagnostics is returned by strict runs that reported diagnostics.
var ErrStrictDiagnostics = errors.New("diagnostics reported in strict mode")

// Pipeline runs stages for one validated configuration.
type Pipeline struct {
	cfg       *config.Config
	root      string
	recorder  metrics.Recorder
	publisher events.Publisher
	logger    *slog.Logger
	strict    bool
	revision  func(root string) string
}

// PipelineOption configures pipeline behavior.
type PipelineOption func(*Pipeline)

// WithRoot sets the directory configured paths are relative to.
func WithRoot(root string) PipelineOption {
	return func(p *Pipeline) { p.root = root }
}

// WithRecorder installs a metrics recorder.
func WithRecorder(r metrics.Recorder) PipelineOption {
	return func(p *Pipeline) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithPublisher installs a run-summary publisher.
func WithPublisher(pub events.Publisher) PipelineOption {
	return func(p *Pipeline) {
		if pub != nil {
			p.publisher = pub
		}
	}
}

// WithDiagnosticsLogger logs every diagnostic as it is reported.
func WithDiagnosticsLogger(l *slog.Logger) PipelineOption {
	return func(p *Pipeline) { p.logger = l }
}

// WithStrict fails runs that report any warning-or-worse diagnostic, in
// addition to the configuration's strict flag.
func WithStrict(strict bool) PipelineOption {
	return func(p *Pipeline) { p.strict = p.strict || strict }
}

// WithRevisionFunc overrides the source revision lookup.
func WithRevisionFunc(fn func(root string) string) PipelineOption {
	return func(p *Pipeline) { p.revision = fn }
}

// New returns a pipeline for cfg, which must have passed Validate.
func New(cfg *config.Config, options ...PipelineOption) *Pipeline {
	p := &Pipeline{
		cfg:       cfg,
		root:      ".",
		recorder:  metrics.NoopRecorder{},
		publisher: events.NoopPublisher{},
		strict:    cfg.Strict,
		revision:  gitRevision,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Build parses, generates and cleans up.
func (p *Pipeline) Build(ctx context.Context) (*RunReport, error) {
	return p.run(ctx, true, []StageDef{
		{StageParse, stageParse},
		{StageGenerate, stageGenerate},
		{StageCleanup, stageCleanup},
	})
}

// Parse writes the parse cache and keeps it.
func (p *Pipeline) Parse(ctx context.Context) (*RunReport, error) {
	return p.run(ctx, true, []StageDef{{StageParse, stageParse}})
}

// Generate renders the output from an existing parse cache.
func (p *Pipeline) Generate(ctx context.Context) (*RunReport, error) {
	return p.run(ctx, true, []StageDef{{StageGenerate, stageGenerate}})
}

// Check parses in memory and resolves every link tag without writing
// anything.
func (p *Pipeline) Check(ctx context.Context) (*RunReport, error) {
	return p.run(ctx, false, []StageDef{
		{StageParse, stageParse},
		{StageCheck, stageCheck},
	})
}

// Tree parses in memory and returns the anchor tree.
func (p *Pipeline) Tree(ctx context.Context) (*refs.Collection, *RunReport, error) {
	report, err := p.run(ctx, false, []StageDef{{StageParse, stageParse}})
	if err != nil {
		return nil, report, err
	}
	return report.Tree, report, nil
}

func (p *Pipeline) run(ctx context.Context, persist bool, stages []StageDef) (*RunReport, error) {
	runID := uuid.NewString()
	rs := &RunState{
		RunID:       runID,
		Config:      p.cfg,
		Root:        p.root,
		Diagnostics: diagnostics.NewCollector(p.logger),
		Report:      newRunReport(runID, p.cfg.ProjectName),
		recorder:    p.recorder,
		persist:     persist,
		revision:    p.revision,
	}
	rs.cache = store.New(rs.path(p.cfg.ParseDir))
	rs.workspace = workspace.NewManager(rs.cache.Dir(), p.cfg.LeaveJSONFiles)

	slog.Info("Run started", logfields.RunID(runID), slog.String("project", p.cfg.ProjectName))
	err := runStages(ctx, rs, stages)
	if err == nil && p.strict && rs.Diagnostics.HasWarnings() {
		err = ferrors.ValidationError("diagnostics reported in strict mode").
			WithCause(ErrStrictDiagnostics).
			WithContext("count", rs.Diagnostics.Len()).Build()
	}
	rs.Report.Tree = rs.Tree
	rs.Report.finish(err, rs.Diagnostics, p.recorder)

	if pubErr := p.publisher.Publish(ctx, rs.Report.Summary()); pubErr != nil {
		slog.Warn("Failed to publish run summary", logfields.RunID(runID), logfields.Error(pubErr))
	}
	slog.Info("Run finished",
		logfields.RunID(runID),
		slog.String("outcome", string(rs.Report.Outcome)),
		logfields.DurationMS(float64(rs.Report.Duration.Microseconds())/1000),
		logfields.Count(rs.Diagnostics.Len()))
	return rs.Report, err
}

// RunState carries the data passed between stages of one run.
type RunState struct {
	RunID       string
	Config      *config.Config
	Root        string
	Diagnostics *diagnostics.Collector
	Report      *RunReport

	Sources []string
	Tree    *refs.Collection
	Files   []*extract.File

	recorder        metrics.Recorder
	cache           *store.Cache
	workspace       *workspace.Manager
	persist         bool
	revision        func(root string) string
	diagnosticsSeen int
}

// path resolves a configured path against the root.
func (rs *RunState) path(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(rs.Root, filepath.FromSlash(rel))
}

func gitRevision(root string) string {
	rev, err := vcs.Head(root)
	if err != nil {
		if !errors.Is(err, vcs.ErrNoRevision) {
			slog.Debug("Source revision unavailable", logfields.Error(err))
		}
		return ""
	}
	return rev.String()
}
