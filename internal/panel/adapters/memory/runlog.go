package memory

import (
	"context"
	"slices"
	"sync"

	"geo-timeseries-service/internal/panel/core/domain"
	"geo-timeseries-service/internal/panel/core/ports"
)

// RunLog keeps the run journal in process memory, bounded to the most recent
// runs. It backs the journal when no database is configured.
type RunLog struct {
	mu   sync.Mutex
	max  int
	runs []domain.Run // oldest first
}

func NewRunLog(capacity int) *RunLog {
	if capacity <= 0 {
		capacity = 100
	}
	return &RunLog{max: capacity}
}

var _ ports.RunLogPort = (*RunLog)(nil)

func (l *RunLog) StartRun(ctx context.Context, run domain.Run) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.put(run)
	return nil
}

func (l *RunLog) FinishRun(ctx context.Context, run domain.Run) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.put(run)
	return nil
}

func (l *RunLog) ListRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limit <= 0 || limit > len(l.runs) {
		limit = len(l.runs)
	}
	out := make([]domain.Run, 0, limit)
	for i := len(l.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, l.runs[i])
	}
	return out, nil
}

func (l *RunLog) put(run domain.Run) {
	if i := slices.IndexFunc(l.runs, func(r domain.Run) bool { return r.ID == run.ID }); i >= 0 {
		l.runs[i] = run
		return
	}
	l.runs = append(l.runs, run)
	if len(l.runs) > l.max {
		l.runs = slices.Delete(l.runs, 0, len(l.runs)-l.max)
	}
}
