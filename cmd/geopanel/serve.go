package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	panelHttp "geo-timeseries-service/internal/panel/adapters/http/fiber"
	recordsHttp "geo-timeseries-service/internal/records/adapters/http/fiber"
	recordsRepoPg "geo-timeseries-service/internal/records/adapters/postgres"
	recordsUsecase "geo-timeseries-service/internal/records/core/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	_ "geo-timeseries-service/docs"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the records ingest and panel run API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		p, err := newPipeline(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer p.Close()

		app := fiber.New(fiber.Config{DisableStartupMessage: true})

		// records endpoints
		switch {
		case p.db == nil:
			logger.Warn("no database configured, records ingest disabled")
		case !ingestFeedsPipeline(cfg):
			logger.Warn("pipeline does not read the ingest tables, records ingest disabled",
				zap.String("source", cfg.Input.Source),
				zap.String("source_driver", cfg.Database.SourceDriver))
		default:
			recordRepository := recordsRepoPg.NewRecordRepository(p.db)
			storeRecordUC := recordsUsecase.NewStoreRecordUseCase(recordRepository)
			recordsHttp.NewRecordHandler(storeRecordUC).Register(app)
		}

		// panel endpoints
		panelHttp.NewPanelHandler(p.buildUC, p.runs).Register(app)

		// Swagger
		app.Get("/docs/*", fiberSwagger.WrapHandler)

		// Graceful shutdown
		listenErr := make(chan error, 1)
		go func() {
			listenErr <- app.Listen(cfg.Server.Addr)
		}()

		logger.Info("server started", zap.String("addr", cfg.Server.Addr))

		select {
		case err := <-listenErr:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("fiber shutdown error", zap.Error(err))
		}

		logger.Info("server exiting")
		return nil
	},
}
