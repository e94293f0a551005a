package preview

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/dulynoted/internal/docs"
	"git.home.luguber.info/inful/dulynoted/internal/logfields"
)

// startSourceCheck runs check every interval until the scheduler is shut
// down. It catches edits the file watcher misses, e.g. on network mounts.
func startSourceCheck(interval time.Duration, check func()) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	if _, err := s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(check),
		gocron.WithName("source-check"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create source check job: %w", err)
	}
	s.Start()
	slog.Info("Periodic source check scheduled", slog.Duration("interval", interval))
	return s, nil
}

// sourcesChanged recomputes the source hash and reports whether it differs
// from the previous one. The first call only records the hash.
func (s *Server) sourcesChanged() bool {
	files, err := docs.NewDiscovery(s.root, s.exclude, nil).Discover(s.cfg.Files)
	if err != nil {
		slog.Debug("Source check discovery failed", logfields.Error(err))
		return false
	}
	hash, err := docs.ComputeSourcesHash(s.root, files)
	if err != nil {
		slog.Debug("Source check hashing failed", logfields.Error(err))
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.sourcesHash
	s.sourcesHash = hash
	return prev != "" && prev != hash
}
