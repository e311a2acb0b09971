// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms) with a
per-request uuid for correlation.

# Admin Sessions

Admin-only endpoints wrap their handlers with WithAdmin, which validates the
Authorization: Bearer session token and passes the claims through:

	mux.HandleFunc("POST /polls", middleware.WithLogging(
		middleware.WithAdmin(cfg.SessionSecret, pollHandler.CreatePoll)))

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.FieldErrorResponse(w, []string{"email", "deadline"})

FieldErrorResponse is the 422 shape for request validation failures - it
names the offending fields so clients can highlight them.

Parse JSON request bodies:

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
*/
package middleware
