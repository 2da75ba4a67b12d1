// Copyright (c) 2026 bigblind.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/bigblind/combine/middleware"
)

type ElementHandler struct {
	db *sql.DB
}

func NewElementHandler(db *sql.DB) *ElementHandler {
	return &ElementHandler{db: db}
}

// List handles GET /elements
// The full element catalog, player-facing shape.
func (h *ElementHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`SELECT id, name, svg FROM element ORDER BY name`)
	if err != nil {
		slog.Error("failed to query elements", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	elements, err := scanElementSummaries(rows)
	if err != nil {
		slog.Error("failed to scan elements", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, elements)
}

// Get handles GET /elements/{id}
func (h *ElementHandler) Get(w http.ResponseWriter, r *http.Request) {
	elementID := r.PathValue("id")
	if elementID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "element id is required")
		return
	}

	element, err := getElement(h.db, elementID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Element not found")
		return
	}
	if err != nil {
		slog.Error("failed to query element", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, element)
}
