// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/danielhkuo/watchalong/db"
	"github.com/danielhkuo/watchalong/handlers"
	"github.com/danielhkuo/watchalong/hub"
	"github.com/danielhkuo/watchalong/middleware"
)

func NewRouter(store *db.Store, h *hub.Hub) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	movieHandler := handlers.NewMovieHandler(store, h)
	queueHandler := handlers.NewQueueHandler(store, h)
	aliasHandler := handlers.NewAliasHandler(store)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.TextResponse(w, http.StatusOK, "OK")
	}).Methods(http.MethodGet)

	// Movies
	r.HandleFunc("/add", movieHandler.AddMovie).Methods(http.MethodPost)
	r.HandleFunc("/movies", movieHandler.GetMovies).Methods(http.MethodGet)
	r.HandleFunc("/movies/rate", movieHandler.RateMovie).Methods(http.MethodPost)
	r.HandleFunc("/movies/{id:[0-9]+}", movieHandler.GetMovie).Methods(http.MethodGet)

	// Aliases
	r.HandleFunc("/alias", aliasHandler.SetAlias).Methods(http.MethodPost)
	r.HandleFunc("/alias", aliasHandler.GetAliases).Methods(http.MethodGet)

	// Queue
	r.HandleFunc("/queue/add", queueHandler.Enqueue).Methods(http.MethodPost)
	r.HandleFunc("/queue/remove", queueHandler.Dequeue).Methods(http.MethodPost)
	r.HandleFunc("/queue", queueHandler.GetQueue).Methods(http.MethodGet)

	// A wrong method on a known path is indistinguishable from an unknown path
	r.NotFoundHandler = http.HandlerFunc(middleware.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(middleware.NotFound)

	return middleware.WithLogging(middleware.CORS(withUpgrade(r, h)))
}

// withUpgrade diverts websocket upgrades on any path to the hub before routing.
func withUpgrade(next http.Handler, h *hub.Hub) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			h.ServeWS(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
