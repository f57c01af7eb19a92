// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	"github.com/danielhkuo/watchalong/cliparse"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dialect string) error {
	stmts := sqliteSchema
	if dialect == cliparse.DatabasePostgres {
		stmts = postgresSchema
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// AUTOINCREMENT keeps sqlite from handing out the id of a deleted max row again.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS movies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		watched BOOLEAN NOT NULL DEFAULT 0,
		type TEXT NOT NULL,
		proposed_by TEXT NOT NULL,
		ratings TEXT NOT NULL DEFAULT '{}',
		queue_position INTEGER
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_movies_queue_position ON movies(queue_position)`,
	`CREATE TABLE IF NOT EXISTS aliases (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		alias TEXT NOT NULL
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS movies (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		watched BOOLEAN NOT NULL DEFAULT FALSE,
		type TEXT NOT NULL,
		proposed_by TEXT NOT NULL,
		ratings TEXT NOT NULL DEFAULT '{}',
		queue_position BIGINT
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_movies_queue_position ON movies(queue_position)`,
	`CREATE TABLE IF NOT EXISTS aliases (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		alias TEXT NOT NULL
	)`,
}
