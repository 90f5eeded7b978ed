package model

import "time"

// RunStatus represents the state of a scraping/import run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// ScrapeRun is the audit record for one extraction session. A run is
// opened before any extraction work begins and closed exactly once.
type ScrapeRun struct {
	ID             int64      `json:"id"`
	Source         string     `json:"source"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	RecordsFound   int        `json:"records_found"`
	RecordsNew     int        `json:"records_new"`
	RecordsUpdated int        `json:"records_updated"`
	Errors         int        `json:"errors"`
	ErrorDetails   string     `json:"error_details,omitempty"`
	Status         RunStatus  `json:"status"`
}

// RunResult holds the aggregate counts written when a run closes.
type RunResult struct {
	RecordsFound   int    `json:"records_found"`
	RecordsNew     int    `json:"records_new"`
	RecordsUpdated int    `json:"records_updated"`
	Errors         int    `json:"errors"`
	ErrorDetails   string `json:"error_details,omitempty"`
}

// ImportStats aggregates the outcome of one CLI-level operation
// (a PDF batch, a scrape session, or a NAL file import).
type ImportStats struct {
	Files    int `json:"files,omitempty"`
	Found    int `json:"found"`
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
	Errors   int `json:"errors,omitempty"`
}
