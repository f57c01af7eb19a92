// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Database types
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

// Store backends (sqlite only)
const (
	BackendPersistent = "persistent"
	BackendInMemory   = "in-memory"
)

const (
	defaultPort        = 3000
	defaultDatabaseURL = "watchalong.sqlite"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	Backend      string
	LogLevel     slog.Level
}

// ParseFlags validates flags and falls back to the environment for anything unset.
// A .env file in the working directory is loaded first if present.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var logLevel string

	// Missing .env is fine
	_ = godotenv.Load()

	fs := flag.NewFlagSet("watchalong", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL (sqlite file or postgres URL)")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.Backend, "backend", "", "Store backend (persistent or in-memory)")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = defaultPort
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabaseSQLite
		}
	}
	if cfg.DatabaseType != DatabaseSQLite && cfg.DatabaseType != DatabasePostgres {
		return Config{}, fmt.Errorf("unknown database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == DatabasePostgres {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = defaultDatabaseURL
	}

	if cfg.Backend == "" {
		cfg.Backend = os.Getenv("STORE_BACKEND")
	}
	if cfg.Backend == "" {
		// Test runs get a throwaway database
		if os.Getenv("APP_ENV") == "test" {
			cfg.Backend = BackendInMemory
		} else {
			cfg.Backend = BackendPersistent
		}
	}
	if cfg.Backend != BackendPersistent && cfg.Backend != BackendInMemory {
		return Config{}, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
	if cfg.Backend == BackendInMemory && cfg.DatabaseType != DatabaseSQLite {
		return Config{}, errors.New("in-memory backend is only available for sqlite")
	}

	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
	}
	if logLevel != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(strings.ToLower(logLevel))); err != nil {
			return Config{}, fmt.Errorf("invalid log level %q", logLevel)
		}
	}

	return cfg, nil
}
