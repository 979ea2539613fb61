// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as the API base URL, database path, logging, timeouts, and outbound
// rate limiting. A local .env file, when present, is folded into the
// environment before lookup.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/avolkov/orchat/internal/sysutil"
)

// Config holds all configuration values for the application.
type Config struct {
	// API
	BaseURL         string        // OpenRouter API root
	ValidateTimeout time.Duration // bound on the credits/validation call
	RateRPS         float64       // outbound completion tokens per second (0 = unlimited)
	RateBurst       int           // bucket size (>= 1)

	// Storage
	DBPath string // SQLite file in the working directory by default

	// Logging
	LogLevel  string // debug|info|warn|error|fatal|panic
	LogPretty bool   // pretty console logs in dev

	// History / export
	HistoryLimit int    // default page size for recent history
	ExportDir    string // where timestamped exports land
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from the environment (after merging an optional
// .env file), applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	// Missing .env is the common case, not an error.
	_ = godotenv.Load()

	cfg := Config{
		BaseURL: sysutil.FirstNonEmpty(
			os.Getenv("OPENROUTER_BASE_URL"),
			os.Getenv("BASE_URL"),
			"https://openrouter.ai/api/v1",
		),
		ValidateTimeout: getdur("VALIDATE_TIMEOUT", 10*time.Second),
		RateRPS:         getfloat("RATE_RPS", 1.0),
		RateBurst:       getint("RATE_BURST", 3),

		DBPath: getenv("DB_PATH", "chat_cache.db"),

		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),

		HistoryLimit: getint("HISTORY_LIMIT", 50),
		ExportDir:    getenv("EXPORT_DIR", "."),
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return cfg, errors.New("BASE_URL must not be empty")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.ValidateTimeout <= 0 {
		return cfg, errors.New("VALIDATE_TIMEOUT must be a positive duration")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.HistoryLimit < 1 {
		return cfg, errors.New("HISTORY_LIMIT must be >= 1")
	}
	if strings.TrimSpace(cfg.ExportDir) == "" {
		return cfg, errors.New("EXPORT_DIR must not be empty")
	}

	return cfg, nil
}

// ---- helpers ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return sysutil.IsTruthy(v)
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
