package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	panel "geo-timeseries-service/internal/panel/core/domain"
	"geo-timeseries-service/internal/records/core/domain"
	"geo-timeseries-service/internal/records/core/ports"
)

var (
	ErrInvalidRecord = errors.New("invalid record")
	ErrUnknownKind   = errors.New("unknown record kind")
	ErrFutureDate    = errors.New("date cannot be in the future")
)

type StoreRecordUseCase struct {
	repo ports.RecordRepositoryPort
	now  func() time.Time
}

func NewStoreRecordUseCase(repo ports.RecordRepositoryPort) *StoreRecordUseCase {
	return &StoreRecordUseCase{repo: repo, now: time.Now}
}

type StoreRecordInput struct {
	Kind    domain.Kind
	Geo     string
	GeoName string
	Date    string
	Value   float64
}

func (uc *StoreRecordUseCase) Execute(ctx context.Context, in StoreRecordInput) (bool, error) {
	r, err := uc.toRecord(in)
	if err != nil {
		return false, err
	}

	created, err := uc.repo.InsertRecord(ctx, r)
	if err != nil {
		return false, err
	}

	return created, nil
}

type BulkStoreRecordsInput struct {
	Records []StoreRecordInput
}

type BulkStoreRecordsResult struct {
	Created    int
	Duplicates int
}

// BulkStoreRecords validates every record before storing any of them.
func (uc *StoreRecordUseCase) BulkStoreRecords(ctx context.Context, in BulkStoreRecordsInput) (BulkStoreRecordsResult, error) {
	var res BulkStoreRecordsResult

	records := make([]*domain.Record, 0, len(in.Records))
	for i, rec := range in.Records {
		r, err := uc.toRecord(rec)
		if err != nil {
			return res, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, r)
	}

	for _, r := range records {
		ok, err := uc.repo.InsertRecord(ctx, r)
		if err != nil {
			return res, err
		}

		if ok {
			res.Created++
		} else {
			res.Duplicates++
		}
	}

	return res, nil
}

func (uc *StoreRecordUseCase) toRecord(in StoreRecordInput) (*domain.Record, error) {
	if !in.Kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, in.Kind)
	}

	geo := strings.TrimSpace(in.Geo)
	if geo == "" {
		return nil, fmt.Errorf("%w: geo is required", ErrInvalidRecord)
	}

	name := strings.TrimSpace(in.GeoName)
	if in.Kind == domain.KindResponse && name == "" {
		return nil, fmt.Errorf("%w: geo_name is required for responses", ErrInvalidRecord)
	}
	if in.Kind == domain.KindCost {
		name = ""
	}

	date, err := panel.ParseDate(in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if date.After(panel.DateOf(uc.now())) {
		return nil, ErrFutureDate
	}

	if math.IsNaN(in.Value) || math.IsInf(in.Value, 0) || in.Value < 0 {
		return nil, fmt.Errorf("%w: value must be a non-negative number", ErrInvalidRecord)
	}

	return &domain.Record{
		Kind:    in.Kind,
		Geo:     geo,
		GeoName: name,
		Date:    date,
		Value:   in.Value,
	}, nil
}
