// Package preview builds the documentation, serves the output directory over
// HTTP and rebuilds whenever a source file changes.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/dulynoted/internal/config"
	ferrors "git.home.luguber.info/inful/dulynoted/internal/foundation/errors"
	"git.home.luguber.info/inful/dulynoted/internal/logfields"
	"git.home.luguber.info/inful/dulynoted/internal/metrics"
	"git.home.luguber.info/inful/dulynoted/internal/pipeline"
)

// DefaultQuietWindow is how long the watcher waits for a burst of changes to
// settle before rebuilding.
const DefaultQuietWindow = 300 * time.Millisecond

// Builder runs one full build.
type Builder interface {
	Build(ctx context.Context) (*pipeline.RunReport, error)
}

// Options configures a Server.
type Options struct {
	// Root is the directory configured paths are relative to.
	Root string
	// Listener overrides the configured port.
	Listener net.Listener
	// Registry is served at /metrics when set.
	Registry    *prom.Registry
	QuietWindow time.Duration
}

// Server is a local preview of the generated documentation.
type Server struct {
	cfg       *config.Config
	builder   Builder
	opts      Options
	root      string
	outputDir string
	exclude   []string
	interval  time.Duration

	status *buildStatus
	errs   *ferrors.HTTPErrorAdapter

	mu          sync.Mutex
	sourcesHash string
}

// New returns a preview server for cfg, which must have passed Validate.
func New(cfg *config.Config, builder Builder, opts Options) *Server {
	root := opts.Root
	if root == "" {
		root = "."
	}
	if opts.QuietWindow <= 0 {
		opts.QuietWindow = DefaultQuietWindow
	}
	outputDir := cfg.OutputDir
	if !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(root, filepath.FromSlash(outputDir))
	}
	var interval time.Duration
	if cfg.Preview.RebuildInterval != "" {
		interval, _ = time.ParseDuration(cfg.Preview.RebuildInterval)
	}
	return &Server{
		cfg:       cfg,
		builder:   builder,
		opts:      opts,
		root:      root,
		outputDir: outputDir,
		exclude:   []string{cfg.OutputDir, cfg.ParseDir},
		interval:  interval,
		status:    &buildStatus{},
		errs:      ferrors.NewHTTPErrorAdapter(nil),
	}
}

// Handler serves the output directory, the build status and, with a
// registry, the metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	files := http.FileServer(http.Dir(s.outputDir))
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if good, err := s.status.getStatus(); !good && err != nil {
			s.errs.WriteError(w, err)
			return
		}
		files.ServeHTTP(w, r)
	}))
	mux.HandleFunc("GET /api/status", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s.status.snapshot()); err != nil {
			slog.Warn("Failed to encode status response", logfields.Error(err))
		}
	})
	if s.opts.Registry != nil {
		mux.Handle("GET /metrics", metrics.HTTPHandler(s.opts.Registry))
	}
	return mux
}

// Rebuild runs one build and records its outcome.
func (s *Server) Rebuild(ctx context.Context) {
	report, err := s.builder.Build(ctx)
	s.status.record(report, err)
	if err != nil {
		slog.Warn("Rebuild failed", logfields.Error(err))
		return
	}
	s.sourcesChanged()
	slog.Info("Documentation rebuilt",
		logfields.RunID(report.RunID),
		slog.String("outcome", string(report.Outcome)),
		logfields.Count(report.FilesWritten()))
}

// Run builds once, then serves and rebuilds on change until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	s.Rebuild(ctx)

	ln := s.opts.Listener
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Preview.Port))
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryRuntime, "cannot listen for preview").
				WithContext("port", s.cfg.Preview.Port).Build()
		}
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Preview server error", logfields.Error(err))
		}
	}()
	slog.Info("Preview server listening", slog.String("url", "http://"+ln.Addr().String()))

	excluded := make([]string, 0, len(s.exclude))
	for _, e := range s.exclude {
		excluded = append(excluded, filepath.Join(s.root, filepath.FromSlash(e)))
	}
	w, err := newWatcher(s.root, excluded)
	if err != nil {
		_ = srv.Close()
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "cannot watch sources").Build()
	}
	defer func() { _ = w.Close() }()

	rebuildReq, trigger := newDebouncer(s.opts.QuietWindow)
	go s.rebuildWorker(ctx, rebuildReq)

	if s.interval > 0 {
		sched, err := startSourceCheck(s.interval, func() {
			if s.sourcesChanged() {
				slog.Info("Source change found by periodic check")
				trigger()
			}
		})
		if err != nil {
			slog.Warn("Periodic source check disabled", logfields.Error(err))
		} else {
			defer func() { _ = sched.Shutdown() }()
		}
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("Shutting down preview server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Warn("Preview server shutdown error", logfields.Error(err))
			}
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if w.handle(ev) {
				trigger()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// rebuildWorker serializes rebuilds. A request that arrives while a build is
// running queues exactly one follow-up build.
func (s *Server) rebuildWorker(ctx context.Context, req <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-req:
			slog.Info("Change detected; rebuilding documentation")
			s.Rebuild(ctx)
		}
	}
}
