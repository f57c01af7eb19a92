// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/watchalong/db"
	"github.com/danielhkuo/watchalong/middleware"
	"github.com/danielhkuo/watchalong/models"
)

type QueueHandler struct {
	store *db.Store
	hub   Broadcaster
}

func NewQueueHandler(store *db.Store, hub Broadcaster) *QueueHandler {
	return &QueueHandler{store: store, hub: hub}
}

// Enqueue handles POST /queue/add
func (h *QueueHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	var req models.EnqueueRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil || req.ID == 0 {
		middleware.TextResponse(w, http.StatusBadRequest, msgMissingMovieID)
		return
	}

	position, err := h.store.Enqueue(r.Context(), req.ID)
	if errors.Is(err, db.ErrNotFound) {
		middleware.TextResponse(w, http.StatusNotFound, msgMovieNotFound)
		return
	}
	if err != nil {
		internalError(w, "failed to enqueue movie", err)
		return
	}

	slog.Info("movie enqueued", "id", req.ID, "queue_position", position)

	notify(r, h.hub)
	middleware.TextResponse(w, http.StatusOK, "Movie added to queue successfully")
}

// Dequeue handles POST /queue/remove
// Takes no body: the head of the queue is removed and marked watched
func (h *QueueHandler) Dequeue(w http.ResponseWriter, r *http.Request) {
	id, err := h.store.DequeueFront(r.Context())
	if errors.Is(err, db.ErrEmptyQueue) {
		middleware.TextResponse(w, http.StatusBadRequest, msgQueueEmpty)
		return
	}
	if err != nil {
		internalError(w, "failed to dequeue movie", err)
		return
	}

	slog.Info("movie dequeued", "id", id)

	notify(r, h.hub)
	middleware.TextResponse(w, http.StatusOK, "Movie removed from queue successfully")
}

// GetQueue handles GET /queue
func (h *QueueHandler) GetQueue(w http.ResponseWriter, r *http.Request) {
	queue, err := h.store.ListQueue(r.Context())
	if err != nil {
		internalError(w, "failed to list queue", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, queue)
}
