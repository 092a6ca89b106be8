package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by the loader
const (
	EnvConfigFile    = "HIFZ_CONFIG"
	EnvDBDriver      = "HIFZ_DB_DRIVER"
	EnvDBDSN         = "HIFZ_DB_DSN"
	EnvDueLimit      = "HIFZ_DUE_LIMIT"
	EnvWatchInterval = "HIFZ_WATCH_INTERVAL"
	EnvLogLevel      = "HIFZ_LOG_LEVEL"
	EnvLogFormat     = "HIFZ_LOG_FORMAT"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger
	// EnvFiles are dotenv files loaded before reading the environment.
	// Missing files are skipped.
	EnvFiles []string
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, EnvFiles: []string{".env"}}
}

// Load builds the configuration with layered precedence:
// 1. defaults
// 2. YAML file (path argument, else $HIFZ_CONFIG)
// 3. HIFZ_* environment variables
//
// Dotenv files are loaded first and only fill variables that are not already set.
func (l *Loader) Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	for _, f := range l.EnvFiles {
		err := godotenv.Load(f)
		switch {
		case err == nil:
			l.logger.Debug("Loaded env file", slog.String("path", f))
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		l.logger.Debug("Loaded config file", slog.String("path", path))
		cfg.Merge(fileCfg)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvDBDriver); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv(EnvDBDSN); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv(EnvDueLimit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDueLimit, err)
		}
		cfg.Review.DueLimit = n
	}
	if v := os.Getenv(EnvWatchInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWatchInterval, err)
		}
		cfg.Watch.Interval = d
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Log.Format = v
	}
	return nil
}
