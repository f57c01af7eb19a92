// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Watchalong API server.

Watchalong is a shared movie list for a group: anyone can propose a movie,
rate it, and line it up in a watch queue. Every connected WebSocket client
receives the full list and queue whenever either changes.

# Starting the Server

With no configuration the server listens on port 3000 and keeps its data in
watchalong.sqlite:

	go run main.go

Or with flags:

	go run main.go -p 8080 -d ./data/watch.sqlite
	go run main.go -t postgres -d "postgres://..."

# Configuration

Settings come from flags, then environment variables, then a .env file:

  - PORT (-p): Server port (default: 3000)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): sqlite file path or PostgreSQL connection string
  - STORE_BACKEND (-backend): persistent or in-memory (sqlite only)
  - LOG_LEVEL (-log-level): debug, info, warn or error
  - LOG_FORMAT: set to json for JSON log lines

APP_ENV=test selects the in-memory backend.

# Architecture

  - handlers: HTTP request handlers (movies, queue, aliases)
  - router: Route definitions using gorilla/mux, WebSocket diversion
  - hub: WebSocket clients and snapshot broadcast
  - middleware: CORS, logging, JSON and text helpers
  - models: Request/response types
  - db: Schema, connection and the Store
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
