package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/v0xg/webreplay/internal/script"
)

// Status is the outcome of one attempted step.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// StepResult records the outcome of one step. A navigation that
// failed to load is still ok, with Warning set.
type StepResult struct {
	Step      int           `json:"step"`
	Action    script.Action `json:"action"`
	Status    Status        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Warning   bool          `json:"warning,omitempty"`
	ElapsedMs int64         `json:"elapsedMs"`
}

// Report is the aggregate outcome of a run. Results holds every
// attempted step in order, up to and including the first fatal
// failure. FirstError carries the typed error for callers; Error is
// its rendering for the JSON report.
type Report struct {
	RunID      string       `json:"runId"`
	Script     string       `json:"script,omitempty"`
	StartedAt  time.Time    `json:"startedAt"`
	ElapsedMs  int64        `json:"elapsedMs"`
	Results    []StepResult `json:"results"`
	Success    bool         `json:"success"`
	Error      string       `json:"error,omitempty"`
	FirstError error        `json:"-"`
}

// WriteJSON persists the report to path. The runner itself keeps no
// state across runs; this is the caller's choice.
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
