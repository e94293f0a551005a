package preview

import (
	"sync"
	"time"

	"git.home.luguber.info/inful/dulynoted/internal/events"
	"git.home.luguber.info/inful/dulynoted/internal/pipeline"
)

// buildStatus tracks the outcome of the most recent build.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	lastReport   *pipeline.RunReport
	hasGoodBuild bool
	builds       int
	finishedAt   time.Time
}

func (bs *buildStatus) record(report *pipeline.RunReport, err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.builds++
	bs.lastError = err
	bs.finishedAt = time.Now()
	if report != nil {
		bs.lastReport = report
	}
	if err == nil {
		bs.hasGoodBuild = true
	}
}

func (bs *buildStatus) getStatus() (hasGoodBuild bool, err error) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.hasGoodBuild, bs.lastError
}

// StatusResponse is served at /api/status.
type StatusResponse struct {
	Builds       int                `json:"builds"`
	HasGoodBuild bool               `json:"has_good_build"`
	LastError    string             `json:"last_error,omitempty"`
	FinishedAt   *time.Time         `json:"finished_at,omitempty"`
	LastRun      *events.RunSummary `json:"last_run,omitempty"`
}

func (bs *buildStatus) snapshot() StatusResponse {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	resp := StatusResponse{Builds: bs.builds, HasGoodBuild: bs.hasGoodBuild}
	if bs.lastError != nil {
		resp.LastError = bs.lastError.Error()
	}
	if !bs.finishedAt.IsZero() {
		t := bs.finishedAt.UTC()
		resp.FinishedAt = &t
	}
	if bs.lastReport != nil {
		resp.LastRun = bs.lastReport.Summary()
	}
	return resp
}
