package domain

import "time"

type RunStatus string

const (
	RunInProgress RunStatus = "in_progress"
	RunSuccess    RunStatus = "success"
	RunFailed     RunStatus = "failed"
)

// Run is one entry of the run journal.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time // zero while in progress
	Status     RunStatus
	Geos       int
	Days       int
	Rows       int
	Error      string
}

func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
