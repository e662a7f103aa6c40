package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	panel "geo-timeseries-service/internal/panel/core/domain"
	"geo-timeseries-service/internal/records/core/domain"
)

// fakeResult implements sql.Result for tests.
type fakeResult struct {
	rowsAffected int64
}

func (f *fakeResult) LastInsertId() (int64, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeResult) RowsAffected() (int64, error) {
	return f.rowsAffected, nil
}

// fakeDB implements DB interface for tests.
type fakeDB struct {
	ExecFn     func(ctx context.Context, query string, args ...any) (sql.Result, error)
	lastQuery  string
	lastArgs   []any
	execCalled bool
}

func (f *fakeDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.execCalled = true
	f.lastQuery = query
	f.lastArgs = args
	if f.ExecFn != nil {
		return f.ExecFn(ctx, query, args...)
	}
	return &fakeResult{rowsAffected: 1}, nil
}

var jan3 = panel.NewDate(2024, time.January, 3)

// ------------------------------------------------------------
// RESPONSE (created)
// ------------------------------------------------------------

func TestRecordRepository_InsertResponse(t *testing.T) {
	db := &fakeDB{}
	repo := NewRecordRepository(db)

	created, err := repo.InsertRecord(context.Background(), &domain.Record{
		Kind: domain.KindResponse, Geo: "US", GeoName: "United States", Date: jan3, Value: 7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true, got false")
	}
	if !strings.Contains(db.lastQuery, "INSERT INTO response_data") {
		t.Fatalf("unexpected query: %s", db.lastQuery)
	}
	if len(db.lastArgs) != 4 || db.lastArgs[2] != "2024-01-03" {
		t.Fatalf("unexpected args: %v", db.lastArgs)
	}
}

// ------------------------------------------------------------
// COST (duplicate)
// ------------------------------------------------------------

func TestRecordRepository_InsertCost_Duplicate(t *testing.T) {
	db := &fakeDB{
		ExecFn: func(ctx context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO cost_data") {
				t.Fatalf("unexpected query: %s", query)
			}
			return &fakeResult{rowsAffected: 0}, nil
		},
	}
	repo := NewRecordRepository(db)

	created, err := repo.InsertRecord(context.Background(), &domain.Record{
		Kind: domain.KindCost, Geo: "US", Date: jan3, Value: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatalf("expected created=false for duplicate")
	}
	if len(db.lastArgs) != 3 {
		t.Fatalf("expected 3 args, got %d", len(db.lastArgs))
	}
}

// ------------------------------------------------------------
// DB ERROR
// ------------------------------------------------------------

func TestRecordRepository_Error(t *testing.T) {
	db := &fakeDB{
		ExecFn: func(ctx context.Context, query string, args ...any) (sql.Result, error) {
			return nil, errors.New("db error")
		},
	}
	repo := NewRecordRepository(db)

	created, err := repo.InsertRecord(context.Background(), &domain.Record{
		Kind: domain.KindCost, Geo: "US", Date: jan3,
	})
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if created {
		t.Fatalf("expected created=false on error")
	}
}
