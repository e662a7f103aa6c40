package postgres

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS response_data (
    geo        TEXT             NOT NULL,
    geo_name   TEXT,
    date       DATE             NOT NULL,
    response   DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ      NOT NULL DEFAULT now(),
    UNIQUE (geo, date)
)`,
	`CREATE TABLE IF NOT EXISTS cost_data (
    geo        TEXT             NOT NULL,
    date       DATE             NOT NULL,
    cost       DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ      NOT NULL DEFAULT now(),
    UNIQUE (geo, date)
)`,
	`CREATE TABLE IF NOT EXISTS geo_dictionary (
    geo      TEXT PRIMARY KEY,
    geo_name TEXT
)`,
	`CREATE TABLE IF NOT EXISTS geo_level_time_series (
    geo      TEXT             NOT NULL,
    date     DATE             NOT NULL,
    response DOUBLE PRECISION NOT NULL,
    cost     DOUBLE PRECISION NOT NULL,
    geo_name TEXT,
    PRIMARY KEY (geo, date)
)`,
	`CREATE TABLE IF NOT EXISTS panel_runs (
    id           UUID        PRIMARY KEY,
    started_at   TIMESTAMPTZ NOT NULL,
    finished_at  TIMESTAMPTZ,
    status       TEXT        NOT NULL,
    geos         INTEGER,
    days         INTEGER,
    rows_written INTEGER,
    error        TEXT
)`,
	`CREATE INDEX IF NOT EXISTS panel_runs_started_at_idx ON panel_runs (started_at DESC)`,
}

// EnsureSchema creates the source, output and journal tables when missing.
func EnsureSchema(ctx context.Context, db DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
