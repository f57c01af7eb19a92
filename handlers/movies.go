// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/danielhkuo/watchalong/db"
	"github.com/danielhkuo/watchalong/middleware"
	"github.com/danielhkuo/watchalong/models"
)

type MovieHandler struct {
	store *db.Store
	hub   Broadcaster
}

func NewMovieHandler(store *db.Store, hub Broadcaster) *MovieHandler {
	return &MovieHandler{store: store, hub: hub}
}

// AddMovie handles POST /add
func (h *MovieHandler) AddMovie(w http.ResponseWriter, r *http.Request) {
	var req models.AddMovieRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.TextResponse(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	// watched must be an explicit boolean; the store checks the rest
	if req.Watched == nil {
		middleware.TextResponse(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	id, err := h.store.CreateMovie(r.Context(), models.NewMovie{
		Name:       req.Name,
		Watched:    *req.Watched,
		Type:       req.Type,
		ProposedBy: req.ProposedBy,
	})
	if errors.Is(err, db.ErrValidation) {
		middleware.TextResponse(w, http.StatusBadRequest, msgMissingFields)
		return
	}
	if err != nil {
		internalError(w, "failed to add movie", err)
		return
	}

	slog.Info("movie added", "id", id, "name", req.Name, "proposed_by", req.ProposedBy)

	notify(r, h.hub)
	middleware.TextResponse(w, http.StatusCreated, "Movie added successfully")
}

// GetMovies handles GET /movies
func (h *MovieHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.store.ListMovies(r.Context())
	if err != nil {
		internalError(w, "failed to list movies", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, movies)
}

// GetMovie handles GET /movies/{id}
func (h *MovieHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		middleware.TextResponse(w, http.StatusBadRequest, "Invalid movie id")
		return
	}

	movie, err := h.store.GetMovie(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		middleware.TextResponse(w, http.StatusNotFound, msgMovieNotFound)
		return
	}
	if err != nil {
		internalError(w, "failed to get movie", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, movie)
}

// RateMovie handles POST /movies/rate
func (h *MovieHandler) RateMovie(w http.ResponseWriter, r *http.Request) {
	var req models.RateMovieRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.TextResponse(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	// Any JSON value is a valid rating, including null; only absence is rejected
	if req.MovieID == 0 || len(req.Rating) == 0 || req.Username == "" {
		middleware.TextResponse(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	err := h.store.Rate(r.Context(), req.MovieID, req.Username, req.Rating)
	if errors.Is(err, db.ErrNotFound) {
		middleware.TextResponse(w, http.StatusNotFound, msgMovieNotFound)
		return
	}
	if err != nil {
		internalError(w, "failed to rate movie", err)
		return
	}

	slog.Info("movie rated", "id", req.MovieID, "username", req.Username)

	notify(r, h.hub)
	middleware.TextResponse(w, http.StatusOK, "Rating added successfully")
}
