package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"geo-timeseries-service/internal/panel/adapters/csvfile"
	"geo-timeseries-service/internal/scheduler"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build the geo dictionary and time series once",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		p, err := newPipeline(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer p.Close()

		_, err = p.buildUC.Execute(ctx)
		return err
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Wait for the input marker file, then run once",
	Long: `watch blocks until the marker (default _SUCCESS) appears in the input
folder, so the run starts only after upstream jobs have finished writing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Input.Source != "csv" {
			return errors.New("watch needs input.source csv")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger.Info("waiting for input marker",
			zap.String("path", filepath.Join(cfg.Input.Dir, cfg.Input.Marker)))
		if err := csvfile.WaitForMarker(ctx, cfg.Input.Dir, cfg.Input.Marker); err != nil {
			return err
		}

		p, err := newPipeline(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer p.Close()

		_, err = p.buildUC.Execute(ctx)
		return err
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run on a fixed interval until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		p, err := newPipeline(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer p.Close()

		marker := filepath.Join(cfg.Input.Dir, cfg.Input.Marker)
		job := func(ctx context.Context) error {
			if cfg.Schedule.WaitForMarker && cfg.Input.Source == "csv" {
				if _, err := os.Stat(marker); err != nil {
					logger.Info("input marker missing, skipping run", zap.String("path", marker))
					return nil
				}
			}
			_, err := p.buildUC.Execute(ctx)
			return err
		}

		return scheduler.New(cfg.GetScheduleInterval(), job, logger).Run(ctx)
	},
}
