// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Watchalong API.

# Handler Types

  - MovieHandler: propose, list, fetch and rate movies
  - QueueHandler: append to, pop from and list the watch queue
  - AliasHandler: username display aliases

Handlers are created via constructor functions that accept the store and,
for handlers that mutate shared state, a Broadcaster:

	movieHandler := handlers.NewMovieHandler(store, hub)

# Responses

Success and validation messages are plain text; reads are JSON. Validation
failures never touch the store. A storage error is a 500 with no details.

# Live Updates

Every successful mutation of movies or the queue calls Broadcast exactly once,
after the write is committed. A failed broadcast is logged and does not change
the response. Alias changes are not broadcast.
*/
package handlers
