// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/watchalong/middleware"
)

// Response messages
const (
	msgMissingFields  = "Missing required fields"
	msgMissingMovieID = "Missing movie id"
	msgMovieNotFound  = "Movie not found"
	msgQueueEmpty     = "Queue is empty"
	msgInternal       = "Internal Server Error"
)

// Broadcaster pushes the current state to live clients after a mutation.
type Broadcaster interface {
	Broadcast(ctx context.Context) error
}

// notify runs after a committed write. Failures are logged only: the write
// already happened and the caller still gets its success response.
func notify(r *http.Request, b Broadcaster) {
	// Detached from the request so a client hanging up does not cancel
	// the update everyone else is waiting for
	ctx := context.WithoutCancel(r.Context())
	if err := b.Broadcast(ctx); err != nil {
		slog.Error("broadcast failed", "path", r.URL.Path, "error", err)
	}
}

func internalError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	middleware.TextResponse(w, http.StatusInternalServerError, msgInternal)
}
