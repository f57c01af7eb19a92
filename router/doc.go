// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Watchalong API.

# Route Registration

NewRouter returns the complete handler tree, already wrapped in logging and
CORS:

	handler := router.NewRouter(store, hub)

# Endpoints

Health:

	GET /health

Movies:

	POST /add          - Propose a movie
	GET  /movies       - List every movie
	GET  /movies/{id}  - Get one movie
	POST /movies/rate  - Set a user's rating

Aliases:

	POST /alias - Set a display alias
	GET  /alias - Username to alias map

Queue:

	POST /queue/add    - Append a movie
	POST /queue/remove - Pop the head and mark it watched
	GET  /queue        - Queued movies in order

Everything else, including a known path with the wrong method, is a plain
404 "Not Found". OPTIONS on any path is a 204 preflight.

# Live Updates

A WebSocket upgrade on any path is handed to the hub before routing. The
mutating handlers share the same hub and broadcast after each successful
write.
*/
package router
