// Copyright (c) 2026 bigblind.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and JSON helpers.

# Logging

WithLogging wraps a handler with structured request logging:

	mux.HandleFunc("POST /combine", middleware.WithLogging(h.Combine))

Logs method, path, remote address, and duration via slog.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusNotFound, "Element not found")
	err := middleware.ParseJSONBody(r, &req)

ErrorResponse writes a models.ErrorResponse body with the status text
and a message.

# CORS

CORS wraps the whole mux to allow the browser game client to call the
API from another origin, including the X-Session-Token header.
*/
package middleware
