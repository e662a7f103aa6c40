package ports

import (
	"context"

	"geo-timeseries-service/internal/records/core/domain"
)

type RecordRepositoryPort interface {
	// InsertRecord:
	//   created = true,  err = nil  -> new (geo, date) row
	//   created = false, err = nil  -> (geo, date) already present, kept as is
	//   created = false, err != nil -> DB error
	InsertRecord(ctx context.Context, r *domain.Record) (created bool, err error)
}
