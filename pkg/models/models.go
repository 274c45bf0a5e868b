package models

import "time"

// Job status values reported by the Actions API
const (
	StatusQueued     = "queued"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusWaiting    = "waiting"
	StatusPending    = "pending"
	StatusRequested  = "requested"
)

// Job conclusion values reported once a job has finished
const (
	ConclusionSuccess        = "success"
	ConclusionFailure        = "failure"
	ConclusionCancelled      = "cancelled"
	ConclusionSkipped        = "skipped"
	ConclusionNeutral        = "neutral"
	ConclusionTimedOut       = "timed_out"
	ConclusionActionRequired = "action_required"
)

// Job represents a single job in a workflow run
type Job struct {
	ID          int64      `json:"id"`
	RunID       int64      `json:"run_id"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	Conclusion  string     `json:"conclusion"`
	HTMLURL     string     `json:"html_url,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// IsPending reports whether the job has not started or is still running
func (j Job) IsPending() bool {
	return j.Status == StatusQueued || j.Status == StatusInProgress
}

// Failed reports whether the job concluded with a failure
func (j Job) Failed() bool {
	return j.Conclusion == ConclusionFailure
}

// JobsResponse is one snapshot of the jobs belonging to a run
type JobsResponse struct {
	TotalCount int   `json:"total_count"`
	Jobs       []Job `json:"jobs"`
}

// PollOutcome describes how waiting for a run ended
type PollOutcome struct {
	Attempts  int
	Completed bool
}

// AnalysisFile is a per-job analysis written by the external analyzer
type AnalysisFile struct {
	Path    string
	JobName string
}
