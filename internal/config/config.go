// Package config loads csv2bin settings from the environment and validation
// rules from a rules file.
//
// Precedence is flags, then environment (optionally seeded from a .env file),
// then the defaults declared in the struct tags below.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds the ambient settings shared by all commands.
type Config struct {
	Logging LoggingConfig
	Convert ConvertConfig
	Paths   PathsConfig
	Lua     LuaConfig
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `env:"CSV2BIN_LOG_LEVEL" envAlt:"LOG_LEVEL" default:"info"`

	// Format is text or json.
	Format string `env:"CSV2BIN_LOG_FORMAT" envAlt:"LOG_FORMAT" default:"text"`
}

// ConvertConfig holds the pipeline intervals.
type ConvertConfig struct {
	// BatchSize is the number of records buffered before one write.
	BatchSize int `env:"CSV2BIN_BATCH_SIZE" default:"1000"`

	// CheckpointEvery is how many written records separate checkpoint saves.
	CheckpointEvery int `env:"CSV2BIN_CHECKPOINT_EVERY" default:"5000"`

	// SyncEvery is how many written records separate fsync calls.
	SyncEvery int `env:"CSV2BIN_SYNC_EVERY" default:"10000"`

	// ProgressEvery is how many processed records separate progress lines.
	ProgressEvery int `env:"CSV2BIN_PROGRESS_EVERY" default:"1000"`
}

// PathsConfig holds the side files written next to a conversion.
type PathsConfig struct {
	Checkpoint string `env:"CSV2BIN_CHECKPOINT_PATH" default:".conversion_checkpoint"`
	ErrorLog   string `env:"CSV2BIN_ERROR_LOG" default:"conversion_errors.log"`
	Report     string `env:"CSV2BIN_REPORT_PATH" default:"conversion_summary.txt"`
	ReportYAML string `env:"CSV2BIN_REPORT_YAML" default:"conversion_summary.yaml"`

	// HistoryDB is the SQLite run ledger. Empty disables it.
	HistoryDB string `env:"CSV2BIN_HISTORY_DB"`
}

// LuaConfig bounds the optional record filter.
type LuaConfig struct {
	Timeout time.Duration `env:"CSV2BIN_LUA_TIMEOUT" default:"250ms"`
}

// Validate checks that the configuration is usable and reports every problem
// at once.
func (c *Config) Validate() error {
	var errs []string

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("CSV2BIN_LOG_LEVEL %q must be debug, info, warn or error", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("CSV2BIN_LOG_FORMAT %q must be text or json", c.Logging.Format))
	}

	if c.Convert.BatchSize <= 0 {
		errs = append(errs, "CSV2BIN_BATCH_SIZE must be positive")
	}
	if c.Convert.CheckpointEvery <= 0 {
		errs = append(errs, "CSV2BIN_CHECKPOINT_EVERY must be positive")
	}
	if c.Convert.SyncEvery <= 0 {
		errs = append(errs, "CSV2BIN_SYNC_EVERY must be positive")
	}
	if c.Convert.ProgressEvery <= 0 {
		errs = append(errs, "CSV2BIN_PROGRESS_EVERY must be positive")
	}

	if c.Paths.Checkpoint == "" {
		errs = append(errs, "CSV2BIN_CHECKPOINT_PATH must not be empty")
	}
	if c.Lua.Timeout < 0 {
		errs = append(errs, "CSV2BIN_LUA_TIMEOUT must be non-negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
