package main

import (
	"fmt"
	"os"

	"geo-timeseries-service/internal/config"
	"geo-timeseries-service/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "geopanel",
	Short: "Build a dense geo-level time series from sparse response and cost tables",
	Long: `geopanel reads a response table (geo, geo_name, date, response) and a cost
table (geo, date, cost), and writes:
  - geo_dictionary: one name per geo
  - geo_level_time_series: every response geo for every day between the
    first and last response date, with zero where nothing was observed`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		logger, err = logging.New(logging.Options{
			Level:   cfg.Logging.Level,
			Dir:     cfg.Logging.Dir,
			File:    cfg.Logging.File,
			Verbose: verbose,
		})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("GEOPANEL_CONFIG"), "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd, watchCmd, scheduleCmd, serveCmd)
}

// @title Geo Time Series Service API
// @version 1.0
// @description Ingests sparse response and cost records and builds the dense geo-level time series.
// @BasePath /
func main() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("command failed", zap.Error(err))
			_ = logger.Sync()
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
