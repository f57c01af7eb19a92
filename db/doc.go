// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db owns the database: connecting, schema creation, and the Store.

# Connecting

Open picks the driver from the configuration:

	conn, err := db.Open(cfg)

  - sqlite (modernc.org/sqlite): cfg.DatabaseURL is the file path, or
    ":memory:" when cfg.Backend is in-memory. The pool is capped at one
    connection.
  - postgres (lib/pq): cfg.DatabaseURL is the connection string.

# Schema Creation

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - movies: proposed movies, ratings as JSON text, nullable queue_position
  - aliases: username (unique) → alias

A unique index on movies.queue_position keeps queued movies strictly ordered.
NULL positions (not queued) do not collide.

# Store

	store := db.NewStore(conn)
	id, err := store.CreateMovie(ctx, models.NewMovie{...})
	pos, err := store.Enqueue(ctx, id)
	id, err = store.DequeueFront(ctx)

Errors to match with errors.Is:

  - ErrValidation: a required field is empty
  - ErrNotFound: the movie id does not exist
  - ErrEmptyQueue: DequeueFront found nothing queued

Queue positions are appended (max + 1) and never renumbered.
*/
package db
