// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap the whole handler tree with request logging:

	handler := middleware.WithLogging(router)

Logs method, path, status, bytes written and duration_ms for every request,
matched or not. Metrics are captured with httpsnoop, which keeps the
http.Hijacker the WebSocket upgrade needs.

# CORS Middleware

Every response gets Access-Control-Allow-Origin: *. OPTIONS requests on any
path are answered directly with 204 and the allowed methods and headers.

# Response Helpers

	middleware.JSONResponse(w, http.StatusOK, movies)
	middleware.TextResponse(w, http.StatusBadRequest, "Queue is empty")
	middleware.NotFound(w, r)

Parse JSON request bodies:

	var req models.SetAliasRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.TextResponse(w, http.StatusBadRequest, "Missing required fields")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
