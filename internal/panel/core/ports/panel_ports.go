package ports

import (
	"context"

	"geo-timeseries-service/internal/panel/core/domain"
)

type SourceReaderPort interface {
	// ReadSources returns the full response and cost tables.
	// Missing tables or columns are reported as domain.ErrMissingSource /
	// domain.ErrMissingColumn, unparseable cells as domain.ErrInvalidDate /
	// domain.ErrInvalidValue.
	ReadSources(ctx context.Context) (*domain.Sources, error)
}

type PanelWriterPort interface {
	// WritePanel persists both outputs or neither.
	WritePanel(ctx context.Context, dict domain.Dictionary, panel domain.Panel) error
}

type RunLogPort interface {
	StartRun(ctx context.Context, run domain.Run) error
	FinishRun(ctx context.Context, run domain.Run) error
	// ListRuns returns the most recent runs first.
	ListRuns(ctx context.Context, limit int) ([]domain.Run, error)
}
