// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Storage-format defaults applied when neither the environment nor a feed
// definition supplies one.
const (
	DefaultBaseLocation        = "/model.db"
	DefaultFeedFormat          = "ROW FORMAT SERDE 'org.apache.hadoop.hive.serde2.OpenCSVSerde' STORED AS TEXTFILE"
	DefaultTargetFormat        = "STORED AS ORC"
	DefaultTargetTblProperties = `TBLPROPERTIES ("orc.compress"="SNAPPY")`
	DefaultHistoryDBPath       = "feedlake_history.sqlite"
)

// StorageFormats holds the raw and target storage clauses of the managed tables.
type StorageFormats struct {
	FeedFormat          string // clause for the raw landing table
	TargetFormat        string // clause for every other table
	TargetTblProperties string // TBLPROPERTIES clause for target-format tables
}

// Config holds the settings for DDL planning and the DDL history store.
type Config struct {
	BaseLocation  string // root under which every table location is derived
	Storage       StorageFormats
	HistoryDBPath string // path to the SQLite DDL history file
	LogLevel      string // log level: debug, info, warn, error (default "info")
	Env           string // environment: "development" (default) or "production"

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Overrides are settings supplied on top of the environment, by CLI flags or
// a user profile. Empty fields leave the environment value in place.
type Overrides struct {
	BaseLocation  string
	HistoryDBPath string
	LogLevel      string
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	return Load(Overrides{})
}

// Load reads the environment, applies the non-empty fields of o and fills
// defaults. The base location is checked once, after overrides, so a flag
// can replace a relative environment value in production.
func Load(o Overrides) (*Config, error) {
	cfg := &Config{
		BaseLocation:  strings.TrimSpace(os.Getenv("FEEDLAKE_BASE_LOCATION")),
		HistoryDBPath: os.Getenv("FEEDLAKE_HISTORY_DB"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		Env:           os.Getenv("ENV"),
		Storage: StorageFormats{
			FeedFormat:          strings.TrimSpace(os.Getenv("FEEDLAKE_FEED_FORMAT")),
			TargetFormat:        strings.TrimSpace(os.Getenv("FEEDLAKE_TARGET_FORMAT")),
			TargetTblProperties: strings.TrimSpace(os.Getenv("FEEDLAKE_TARGET_TBLPROPERTIES")),
		},
	}

	if v := strings.TrimSpace(o.BaseLocation); v != "" {
		cfg.BaseLocation = v
	}
	if o.HistoryDBPath != "" {
		cfg.HistoryDBPath = o.HistoryDBPath
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}

	// Defaults
	if cfg.BaseLocation == "" {
		cfg.BaseLocation = DefaultBaseLocation
	}
	if cfg.Storage.FeedFormat == "" {
		cfg.Storage.FeedFormat = DefaultFeedFormat
	}
	if cfg.Storage.TargetFormat == "" {
		cfg.Storage.TargetFormat = DefaultTargetFormat
	}
	if cfg.Storage.TargetTblProperties == "" {
		cfg.Storage.TargetTblProperties = DefaultTargetTblProperties
	}
	if cfg.HistoryDBPath == "" {
		cfg.HistoryDBPath = DefaultHistoryDBPath
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if err := cfg.checkBaseLocation(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) checkBaseLocation() error {
	relative := !strings.Contains(c.BaseLocation, "://") && !filepath.IsAbs(c.BaseLocation)
	if !relative {
		return nil
	}
	if c.IsProduction() {
		return fmt.Errorf("FEEDLAKE_BASE_LOCATION must be absolute or a URI in production (got %q)", c.BaseLocation)
	}
	c.Warnings = append(c.Warnings, "FEEDLAKE_BASE_LOCATION is relative; table locations will resolve against the working directory")
	return nil
}

// LoadDotEnv reads a .env file and sets any variables not already in the environment.
// Lines must be in KEY=VALUE format. Comments (#) and blank lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = unquote(strings.TrimSpace(value))
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("setenv %s: %w", key, err)
		}
	}
	return scanner.Err()
}

// unquote removes one pair of matching surrounding quotes. Storage clauses
// routinely contain the other quote character, so only the outer pair goes.
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
