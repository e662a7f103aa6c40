package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds everything a pipeline run, the scheduler and the API need.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
	Database DatabaseConfig `yaml:"database"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Server   ServerConfig   `yaml:"server"`
}

// InputConfig selects where the response and cost tables come from.
type InputConfig struct {
	Source       string `yaml:"source" validate:"oneof=csv sql"`
	Dir          string `yaml:"dir" validate:"required_if=Source csv"`
	ResponseFile string `yaml:"response_file" validate:"required"`
	CostFile     string `yaml:"cost_file" validate:"required"`
	Marker       string `yaml:"marker" validate:"required"`
}

// OutputConfig selects where the dictionary and the panel are written.
type OutputConfig struct {
	Sink           string `yaml:"sink" validate:"oneof=csv sql"`
	Dir            string `yaml:"dir" validate:"required_if=Sink csv"`
	DictionaryFile string `yaml:"dictionary_file" validate:"required"`
	PanelFile      string `yaml:"panel_file" validate:"required"`
	Compress       bool   `yaml:"compress"`
}

type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	// Dir receives File in append mode next to stderr. Empty logs to stderr only.
	Dir  string `yaml:"dir"`
	File string `yaml:"file" validate:"required"`
}

type DatabaseConfig struct {
	// DSN of the Postgres database holding the output tables, the run
	// journal and, for source "sql", the input tables.
	DSN string `yaml:"dsn"`
	// SourceDriver and SourceDSN point the source reader at another
	// database. Empty SourceDSN reuses DSN.
	SourceDriver    string `yaml:"source_driver" validate:"oneof=postgres mysql"`
	SourceDSN       string `yaml:"source_dsn"`
	MaxOpenConns    int    `yaml:"max_open_conns" validate:"gte=1"`
	MaxIdleConns    int    `yaml:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime"`
	EnsureSchema    bool   `yaml:"ensure_schema"`
}

type PipelineConfig struct {
	// Strict fails the run on duplicate (geo, date) keys or conflicting
	// geo names instead of keeping the first occurrence.
	Strict bool `yaml:"strict"`
	// RunHistory bounds the in-memory run journal.
	RunHistory int `yaml:"run_history" validate:"gte=1"`
}

type ScheduleConfig struct {
	Interval string `yaml:"interval" validate:"required"`
	// WaitForMarker runs only when the input marker is present.
	WaitForMarker bool `yaml:"wait_for_marker"`
}

type ServerConfig struct {
	Addr            string `yaml:"addr" validate:"required"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// DefaultConfig mirrors the container layout: inputs and outputs under
// /data, logs next to stderr only.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Source:       "csv",
			Dir:          "/data/input",
			ResponseFile: "response_data.csv",
			CostFile:     "cost_data.csv",
			Marker:       "_SUCCESS",
		},
		Output: OutputConfig{
			Sink:           "csv",
			Dir:            "/data/output",
			DictionaryFile: "geo_dictionary.csv",
			PanelFile:      "geo_level_time_series.csv",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "container.log",
		},
		Database: DatabaseConfig{
			SourceDriver:    "postgres",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: "30m",
		},
		Pipeline: PipelineConfig{
			RunHistory: 100,
		},
		Schedule: ScheduleConfig{
			Interval: "24h",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: "5s",
		},
	}
}

// Load reads path (when non-empty and present), applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
			// defaults + env
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides. The container
// contract names INPUT_DATA, OUTPUT_DATA and HABU_CONTAINER_LOGS.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("INPUT_DATA"); v != "" {
		c.Input.Dir = v
	}
	if v := os.Getenv("OUTPUT_DATA"); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv("HABU_CONTAINER_LOGS"); v != "" {
		c.Logging.Dir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("SOURCE_DSN"); v != "" {
		c.Database.SourceDSN = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("PIPELINE_STRICT"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("PIPELINE_STRICT: %w", err)
		}
		c.Pipeline.Strict = strict
	}
	return nil
}

var validate = validator.New()

// Validate checks field constraints, then the rules that span sections.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}

	if c.NeedsDatabase() && c.Database.DSN == "" {
		return errors.New("invalid config: database.dsn is required when input.source or output.sink is sql (set POSTGRES_DSN)")
	}
	if c.Database.SourceDriver == "mysql" && c.Input.Source == "sql" && c.Database.SourceDSN == "" {
		return errors.New("invalid config: database.source_dsn is required for source_driver mysql")
	}

	for name, raw := range map[string]string{
		"schedule.interval":          c.Schedule.Interval,
		"server.shutdown_timeout":    c.Server.ShutdownTimeout,
		"database.conn_max_lifetime": c.Database.ConnMaxLifetime,
	} {
		if raw == "" {
			continue
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid config: %s must be a positive duration, got %q", name, raw)
		}
	}
	return nil
}

func formatValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s %s", fe.Namespace(), friendlyMessage(fe)))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func friendlyMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	default:
		return "is invalid"
	}
}

// NeedsDatabase reports whether any pipeline side talks to Postgres.
func (c *Config) NeedsDatabase() bool {
	return c.Input.Source == "sql" || c.Output.Sink == "sql"
}

// SourceDSN returns the DSN the source reader connects with.
func (c *Config) SourceDSN() string {
	if c.Database.SourceDSN != "" {
		return c.Database.SourceDSN
	}
	return c.Database.DSN
}

func (c *Config) GetScheduleInterval() time.Duration {
	return parseDuration(c.Schedule.Interval, 24*time.Hour)
}

func (c *Config) GetShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, 5*time.Second)
}

func (c *Config) GetConnMaxLifetime() time.Duration {
	return parseDuration(c.Database.ConnMaxLifetime, 30*time.Minute)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
