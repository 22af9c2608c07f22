/*
Package config loads runtime settings from the environment.

PURPOSE:
  One place that reads environment variables (optionally from a .env
  file), applies defaults and validates them. Command-line flags in
  cmd/server override the port and database path afterwards.

VARIABLES:
  PORT                     HTTP port (8080)
  DB_PATH                  SQLite file, ":memory:" for ephemeral (daybook.db)
  LOG_LEVEL                debug | info | warn | error (info)
  LOG_FORMAT               json | text (json)
  CORS_ORIGINS             Comma-separated allowed origins
  TAX_REGIME_DIR           Directory of *.json regimes added to the builtins
  OVERDUE_SWEEP_INTERVAL   Go duration, 0 disables the sweeper (1h)
  INVOICE_DUE_DAYS         Days from issue to due date (30)
  HOME_CURRENCY            Currency tax is computed in (INR)

SEE ALSO:
  - cmd/server/main.go: Uses Load and NewLogger
*/
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/httplog/v3"
	"github.com/joho/godotenv"
)

type Config struct {
	Port                 int
	DBPath               string
	LogLevel             string
	LogFormat            string
	CORSOrigins          []string
	TaxRegimeDir         string
	OverdueSweepInterval time.Duration
	InvoiceDueDays       int
	HomeCurrency         string
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	config := &Config{}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	config.Port = port

	dueDays, err := strconv.Atoi(getEnv("INVOICE_DUE_DAYS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid INVOICE_DUE_DAYS: %w", err)
	}
	config.InvoiceDueDays = dueDays

	interval, err := time.ParseDuration(getEnv("OVERDUE_SWEEP_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid OVERDUE_SWEEP_INTERVAL: %w", err)
	}
	config.OverdueSweepInterval = interval

	config.DBPath = getEnv("DB_PATH", "daybook.db")
	config.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", "info"))
	config.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", "json"))
	config.CORSOrigins = getEnvSlice("CORS_ORIGINS")
	config.TaxRegimeDir = getEnv("TAX_REGIME_DIR", "")
	config.HomeCurrency = strings.ToUpper(getEnv("HOME_CURRENCY", "INR"))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	if c.OverdueSweepInterval < 0 {
		return fmt.Errorf("OVERDUE_SWEEP_INTERVAL must not be negative")
	}
	if c.InvoiceDueDays < 0 {
		return fmt.Errorf("INVOICE_DUE_DAYS must not be negative")
	}
	if len(c.HomeCurrency) != 3 {
		return fmt.Errorf("HOME_CURRENCY must be a 3-letter code, got %q", c.HomeCurrency)
	}
	return nil
}

// ParseLevel maps a LOG_LEVEL value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", s)
}

// NewLogger builds the process logger. JSON output uses the ECS field
// names so application and request logs line up.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	lvl, err := ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}

	if format == "text" {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	}
	logFormat := httplog.SchemaECS.Concise(false)
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       lvl,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(slog.String("app", "daybook"))
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return nil
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
