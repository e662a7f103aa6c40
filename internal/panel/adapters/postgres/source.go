package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"geo-timeseries-service/internal/panel/core/domain"
	"geo-timeseries-service/internal/panel/core/ports"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// Plain SQL without placeholders so the same reader works over lib/pq and
// go-sql-driver/mysql connections.
const (
	selectResponsesSQL = `
SELECT geo, geo_name, date, response
FROM response_data
ORDER BY date, geo`

	selectCostsSQL = `
SELECT geo, date, cost
FROM cost_data
ORDER BY date, geo`
)

// Driver codes for a missing table or column.
const (
	pqUndefinedTable   = "42P01"
	pqUndefinedColumn  = "42703"
	mysqlNoSuchTable   = 1146
	mysqlBadFieldError = 1054
)

// classifySchemaError maps a missing table or column reported by either
// driver onto the same errors the CSV reader returns.
func classifySchemaError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUndefinedTable:
			return fmt.Errorf("%w: %s", domain.ErrMissingSource, pqErr.Message)
		case pqUndefinedColumn:
			return fmt.Errorf("%w: %s", domain.ErrMissingColumn, pqErr.Message)
		}
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlNoSuchTable:
			return fmt.Errorf("%w: %s", domain.ErrMissingSource, myErr.Message)
		case mysqlBadFieldError:
			return fmt.Errorf("%w: %s", domain.ErrMissingColumn, myErr.Message)
		}
	}
	return err
}

type SourceReader struct {
	db DB
}

func NewSourceReader(db DB) *SourceReader {
	return &SourceReader{db: db}
}

var _ ports.SourceReaderPort = (*SourceReader)(nil)

func (r *SourceReader) ReadSources(ctx context.Context) (*domain.Sources, error) {
	responses, err := r.readResponses(ctx)
	if err != nil {
		return nil, fmt.Errorf("response_data: %w", err)
	}
	costs, err := r.readCosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("cost_data: %w", err)
	}
	return &domain.Sources{Responses: responses, Costs: costs}, nil
}

func (r *SourceReader) readResponses(ctx context.Context) ([]domain.ResponseRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectResponsesSQL)
	if err != nil {
		return nil, classifySchemaError(err)
	}
	defer rows.Close()

	var out []domain.ResponseRecord
	for rows.Next() {
		var geo, date string
		var name sql.NullString
		var value sql.NullFloat64

		if err := rows.Scan(&geo, &name, &date, &value); err != nil {
			return nil, err
		}
		d, err := domain.ParseDate(date)
		if err != nil {
			return nil, err
		}

		out = append(out, domain.ResponseRecord{
			Geo:      geo,
			GeoName:  name.String,
			Date:     d,
			Response: value.Float64, // NULL reads as 0
		})
	}

	if err := rows.Err(); err != nil {
		return nil, classifySchemaError(err)
	}
	return out, nil
}

func (r *SourceReader) readCosts(ctx context.Context) ([]domain.CostRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectCostsSQL)
	if err != nil {
		return nil, classifySchemaError(err)
	}
	defer rows.Close()

	var out []domain.CostRecord
	for rows.Next() {
		var geo, date string
		var value sql.NullFloat64

		if err := rows.Scan(&geo, &date, &value); err != nil {
			return nil, err
		}
		d, err := domain.ParseDate(date)
		if err != nil {
			return nil, err
		}

		out = append(out, domain.CostRecord{Geo: geo, Date: d, Cost: value.Float64})
	}

	if err := rows.Err(); err != nil {
		return nil, classifySchemaError(err)
	}
	return out, nil
}
