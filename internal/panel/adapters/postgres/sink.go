package postgres

import (
	"context"
	"fmt"

	"geo-timeseries-service/internal/panel/core/domain"
	"geo-timeseries-service/internal/panel/core/ports"

	"github.com/lib/pq"
)

const truncateOutputsSQL = `TRUNCATE geo_dictionary, geo_level_time_series`

// Sink replaces both output tables inside a single transaction.
type Sink struct {
	db DB
}

func NewSink(db DB) *Sink {
	return &Sink{db: db}
}

var _ ports.PanelWriterPort = (*Sink)(nil)

func (s *Sink) WritePanel(ctx context.Context, dict domain.Dictionary, panel domain.Panel) (err error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, truncateOutputsSQL); err != nil {
		return err
	}

	dictRows := make([][]any, 0, dict.Len())
	for _, e := range dict.Entries {
		dictRows = append(dictRows, []any{e.Geo, e.GeoName})
	}
	if err = copyRows(ctx, tx, "geo_dictionary", []string{"geo", "geo_name"}, dictRows); err != nil {
		return err
	}

	panelRows := make([][]any, 0, panel.Len())
	for _, row := range panel.Rows {
		var name any
		if row.HasName {
			name = row.GeoName
		}
		panelRows = append(panelRows, []any{row.Geo, row.Date.String(), row.Response, row.Cost, name})
	}
	if err = copyRows(ctx, tx, "geo_level_time_series",
		[]string{"geo", "date", "response", "cost", "geo_name"}, panelRows); err != nil {
		return err
	}

	return tx.Commit()
}

func copyRows(ctx context.Context, tx Tx, table string, columns []string, rows [][]any) error {
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(table, columns...))
	if err != nil {
		return fmt.Errorf("copy %s: %w", table, err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r...); err != nil {
			return fmt.Errorf("copy %s: %w", table, err)
		}
	}
	// empty exec flushes the COPY buffer
	if _, err := stmt.ExecContext(ctx); err != nil {
		return fmt.Errorf("copy %s: %w", table, err)
	}
	return nil
}
