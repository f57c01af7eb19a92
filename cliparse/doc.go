// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file in the working directory is loaded before anything is read.

# Config Fields

  - Port: Server listen port (default: 3000)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - DatabaseURL: sqlite file path or postgres URL (default: watchalong.sqlite)
  - Backend: persistent or in-memory (sqlite only)
  - LogLevel: slog level (default: info)

# CLI Flags

	-p          Server port
	-d          Database URL
	-t          Database type
	-backend    Store backend
	-log-level  Log level

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	STORE_BACKEND → -backend
	LOG_LEVEL     → -log-level

CLI flags take precedence over environment variables. When no backend is
given and APP_ENV=test, the in-memory backend is selected so test runs never
touch the on-disk database.

# Validation

ParseFlags returns an error when:

  - PORT is not a number
  - the database type or backend is unknown
  - postgres is selected without a URL
  - in-memory is combined with postgres
*/
package cliparse
