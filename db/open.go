// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/watchalong/cliparse"
)

// MemoryDSN is the sqlite DSN for a throwaway database.
const MemoryDSN = ":memory:"

// Open connects to the database selected by cfg and verifies the connection.
func Open(cfg cliparse.Config) (*sql.DB, error) {
	driver, dsn := "sqlite", cfg.DatabaseURL
	switch {
	case cfg.DatabaseType == cliparse.DatabasePostgres:
		driver = "postgres"
	case cfg.Backend == cliparse.BackendInMemory:
		dsn = MemoryDSN
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if driver == "sqlite" {
		// One connection: sqlite allows a single writer anyway, and every
		// new connection to :memory: would see an empty database.
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	slog.Debug("database opened", "driver", driver, "backend", cfg.Backend)
	return conn, nil
}
