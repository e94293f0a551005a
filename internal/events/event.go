// Package events publishes run summaries so other systems can react to a
// documentation build, for example by deploying the output.
package events

import (
	"encoding/json"
	"time"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "dulynoted.runs"

// LinkCounts counts link tags by resolution outcome.
type LinkCounts struct {
	External   int `json:"external"`
	Internal   int `json:"internal"`
	Unresolved int `json:"unresolved"`
}

// RunSummary describes one finished pipeline run.
type RunSummary struct {
	RunID      string    `json:"run_id"`
	Project    string    `json:"project"`
	Outcome    string    `json:"outcome"`
	Revision   string    `json:"revision,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`

	Generators   []string   `json:"generators"`
	Files        int        `json:"files"`
	FilesWritten int        `json:"files_written"`
	Anchors      int        `json:"anchors"`
	Links        LinkCounts `json:"links"`

	// Diagnostics counts diagnostics by kind.
	Diagnostics map[string]int `json:"diagnostics,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// Encode renders s as the JSON message body.
func Encode(s *RunSummary) ([]byte, error) {
	return json.Marshal(s)
}
