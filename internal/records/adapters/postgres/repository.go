package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"geo-timeseries-service/internal/records/core/domain"
	"geo-timeseries-service/internal/records/core/ports"
)

type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type RecordRepository struct {
	db DB
}

func NewRecordRepository(db DB) *RecordRepository {
	return &RecordRepository{db: db}
}

var _ ports.RecordRepositoryPort = (*RecordRepository)(nil)

const insertResponseSQL = `
INSERT INTO response_data (geo, geo_name, date, response)
VALUES ($1, $2, $3, $4)
ON CONFLICT (geo, date) DO NOTHING;
`

const insertCostSQL = `
INSERT INTO cost_data (geo, date, cost)
VALUES ($1, $2, $3)
ON CONFLICT (geo, date) DO NOTHING;
`

func (r *RecordRepository) InsertRecord(ctx context.Context, rec *domain.Record) (bool, error) {
	var (
		res sql.Result
		err error
	)

	switch rec.Kind {
	case domain.KindResponse:
		res, err = r.db.ExecContext(ctx, insertResponseSQL, rec.Geo, rec.GeoName, rec.Date.String(), rec.Value)
	case domain.KindCost:
		res, err = r.db.ExecContext(ctx, insertCostSQL, rec.Geo, rec.Date.String(), rec.Value)
	default:
		return false, fmt.Errorf("unsupported record kind: %s", rec.Kind)
	}
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	// rows == 0 -> (geo, date) already stored
	return rows > 0, nil
}
