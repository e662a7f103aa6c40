package main

import (
	"context"
	"database/sql"
	"fmt"

	"geo-timeseries-service/internal/config"
	"geo-timeseries-service/internal/panel/adapters/csvfile"
	"geo-timeseries-service/internal/panel/adapters/memory"
	panelPg "geo-timeseries-service/internal/panel/adapters/postgres"
	"geo-timeseries-service/internal/panel/core/ports"
	"geo-timeseries-service/internal/panel/core/usecase"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// pipeline holds the wired ports plus the connections behind them.
type pipeline struct {
	db      *sql.DB // nil without a configured DSN
	runs    ports.RunLogPort
	buildUC *usecase.BuildPanelUseCase
	closers []func() error
}

func (p *pipeline) Close() {
	for i := len(p.closers) - 1; i >= 0; i-- {
		_ = p.closers[i]()
	}
}

func newPipeline(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pipeline, error) {
	p := &pipeline{}

	if cfg.Database.DSN != "" {
		db, err := openDB(ctx, "postgres", cfg.Database.DSN, cfg)
		if err != nil {
			return nil, err
		}
		p.db = db
		p.closers = append(p.closers, db.Close)

		if cfg.Database.EnsureSchema {
			if err := panelPg.EnsureSchema(ctx, panelPg.NewSQLDB(db)); err != nil {
				p.Close()
				return nil, err
			}
		}
	}

	source, err := p.newSource(ctx, cfg)
	if err != nil {
		p.Close()
		return nil, err
	}

	var sink ports.PanelWriterPort
	switch cfg.Output.Sink {
	case "sql":
		sink = panelPg.NewSink(panelPg.NewSQLDB(p.db))
	default:
		sink = csvfile.NewWriter(csvfile.WriterConfig{
			Dir:            cfg.Output.Dir,
			DictionaryFile: cfg.Output.DictionaryFile,
			PanelFile:      cfg.Output.PanelFile,
			Compress:       cfg.Output.Compress,
		})
	}

	if p.db != nil {
		p.runs = panelPg.NewRunLogRepository(panelPg.NewSQLDB(p.db))
	} else {
		p.runs = memory.NewRunLog(cfg.Pipeline.RunHistory)
	}

	p.buildUC = usecase.NewBuildPanelUseCase(source, sink, p.runs, logger,
		usecase.Options{Strict: cfg.Pipeline.Strict})

	logger.Debug("pipeline wired",
		zap.String("source", cfg.Input.Source),
		zap.String("sink", cfg.Output.Sink),
		zap.Bool("strict", cfg.Pipeline.Strict),
		zap.Bool("database", p.db != nil))

	return p, nil
}

func (p *pipeline) newSource(ctx context.Context, cfg *config.Config) (ports.SourceReaderPort, error) {
	if cfg.Input.Source != "sql" {
		return csvfile.NewReader(csvfile.ReaderConfig{
			Dir:          cfg.Input.Dir,
			ResponseFile: cfg.Input.ResponseFile,
			CostFile:     cfg.Input.CostFile,
			Marker:       cfg.Input.Marker,
		}), nil
	}

	if cfg.Database.SourceDriver == "postgres" && cfg.SourceDSN() == cfg.Database.DSN {
		return panelPg.NewSourceReader(panelPg.NewSQLDB(p.db)), nil
	}

	db, err := openDB(ctx, cfg.Database.SourceDriver, cfg.SourceDSN(), cfg)
	if err != nil {
		return nil, err
	}
	p.closers = append(p.closers, db.Close)
	return panelPg.NewSourceReader(panelPg.NewSQLDB(db)), nil
}

// ingestFeedsPipeline reports whether rows stored through the records API
// land in the tables the pipeline reads. Ingest always writes to the main
// Postgres database.
func ingestFeedsPipeline(cfg *config.Config) bool {
	return cfg.Database.DSN != "" &&
		cfg.Input.Source == "sql" &&
		cfg.Database.SourceDriver == "postgres" &&
		cfg.SourceDSN() == cfg.Database.DSN
}

func openDB(ctx context.Context, driver, dsn string, cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", driver, err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.GetConnMaxLifetime())

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", driver, err)
	}
	return db, nil
}
