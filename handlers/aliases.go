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

// AliasHandler does not broadcast: aliases are not part of the live snapshot.
type AliasHandler struct {
	store *db.Store
}

func NewAliasHandler(store *db.Store) *AliasHandler {
	return &AliasHandler{store: store}
}

// SetAlias handles POST /alias
func (h *AliasHandler) SetAlias(w http.ResponseWriter, r *http.Request) {
	var req models.SetAliasRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.TextResponse(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	err := h.store.UpsertAlias(r.Context(), req.Username, req.Alias)
	if errors.Is(err, db.ErrValidation) {
		middleware.TextResponse(w, http.StatusBadRequest, msgMissingFields)
		return
	}
	if err != nil {
		internalError(w, "failed to set alias", err)
		return
	}

	slog.Info("alias set", "username", req.Username, "alias", req.Alias)
	middleware.TextResponse(w, http.StatusOK, "Alias set successfully")
}

// GetAliases handles GET /alias
func (h *AliasHandler) GetAliases(w http.ResponseWriter, r *http.Request) {
	aliases, err := h.store.ListAliases(r.Context())
	if err != nil {
		internalError(w, "failed to list aliases", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, aliases)
}
