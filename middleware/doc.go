// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging and Metrics

Wrap handlers with request logging and per-route metrics:

	mux.HandleFunc("POST /rest/v1/votes",
		middleware.WithMetrics(collector, "/rest/v1/votes", middleware.WithLogging(handler)))

Logs request start (method, path, remote) at debug and completion
(status, duration_ms) at info.

# Panics

Recover converts a panic anywhere below it into a 500 carrying
GenericErrorMessage. The panic value and stack go to the log only.

# CORS Middleware

Enable cross-origin requests from the gallery site:

	server := http.Server{
		Handler: middleware.CORS(middleware.Recover(mux)),
	}

Allows GET, POST and OPTIONS with the headers the site sends, including
X-Device-UUID.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.ConflictResponse(w, "Already voted")

Error bodies are always {"error": "..."}; conflicts add "code": "23505".

Parse JSON request bodies:

	var req models.FeedbackRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Only ever stored hashed.
*/
package middleware
