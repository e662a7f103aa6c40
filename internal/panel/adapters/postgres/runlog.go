package postgres

import (
	"context"
	"database/sql"

	"geo-timeseries-service/internal/panel/core/domain"
	"geo-timeseries-service/internal/panel/core/ports"
)

const insertRunSQL = `
INSERT INTO panel_runs (id, started_at, status)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO NOTHING;
`

const finishRunSQL = `
INSERT INTO panel_runs (id, started_at, finished_at, status, geos, days, rows_written, error)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE SET
    finished_at  = EXCLUDED.finished_at,
    status       = EXCLUDED.status,
    geos         = EXCLUDED.geos,
    days         = EXCLUDED.days,
    rows_written = EXCLUDED.rows_written,
    error        = EXCLUDED.error;
`

const listRunsSQL = `
SELECT id, started_at, finished_at, status, geos, days, rows_written, error
FROM panel_runs
ORDER BY started_at DESC
LIMIT $1`

type RunLogRepository struct {
	db DB
}

func NewRunLogRepository(db DB) *RunLogRepository {
	return &RunLogRepository{db: db}
}

var _ ports.RunLogPort = (*RunLogRepository)(nil)

func (r *RunLogRepository) StartRun(ctx context.Context, run domain.Run) error {
	_, err := r.db.ExecContext(ctx, insertRunSQL, run.ID, run.StartedAt, string(run.Status))
	return err
}

// FinishRun upserts so a run whose start was never recorded still shows up.
func (r *RunLogRepository) FinishRun(ctx context.Context, run domain.Run) error {
	var errText any
	if run.Error != "" {
		errText = run.Error
	}
	_, err := r.db.ExecContext(ctx, finishRunSQL,
		run.ID,
		run.StartedAt,
		run.FinishedAt,
		string(run.Status),
		run.Geos,
		run.Days,
		run.Rows,
		errText,
	)
	return err
}

func (r *RunLogRepository) ListRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	rows, err := r.db.QueryContext(ctx, listRunsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		var (
			run        domain.Run
			status     string
			finishedAt sql.NullTime
			geos, days sql.NullInt64
			written    sql.NullInt64
			errText    sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.StartedAt, &finishedAt, &status,
			&geos, &days, &written, &errText); err != nil {
			return nil, err
		}

		run.Status = domain.RunStatus(status)
		run.StartedAt = run.StartedAt.UTC()
		if finishedAt.Valid {
			run.FinishedAt = finishedAt.Time.UTC()
		}
		run.Geos = int(geos.Int64)
		run.Days = int(days.Int64)
		run.Rows = int(written.Int64)
		run.Error = errText.String

		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}
