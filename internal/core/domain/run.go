package domain

import "time"

// RunStatus represents the current state of an analysis run
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// CorpusSource selects where a job loads its bills from
type CorpusSource string

const (
	CorpusSourceFile     CorpusSource = "file"
	CorpusSourcePostgres CorpusSource = "postgres"
)

// Job describes one corpus to analyse
type Job struct {
	Corpus string       `json:"corpus"`
	Source CorpusSource `json:"source"`
	Path   string       `json:"path,omitempty"` // JSON file for file sources
}

// Artifacts lists the files written by a run
type Artifacts struct {
	ReportPath string   `json:"report_path,omitempty"`
	ChartPaths []string `json:"chart_paths,omitempty"`
}

// Run records one analysis run over a corpus
type Run struct {
	ID          string      `json:"id"`
	Corpus      string      `json:"corpus"`
	Status      RunStatus   `json:"status"`
	Stats       ReportStats `json:"stats"`
	Artifacts   Artifacts   `json:"artifacts"`
	Error       string      `json:"error,omitempty"`
	StartedAt   time.Time   `json:"started_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}

// RunResult represents the outcome of an analysis run
type RunResult struct {
	RunID    string        `json:"run_id"`
	Corpus   string        `json:"corpus"`
	Success  bool          `json:"success"`
	Stats    ReportStats   `json:"stats"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}
