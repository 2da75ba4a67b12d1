// Copyright (c) 2026 bigblind.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bigblind/combine/ai"
	"github.com/bigblind/combine/cliparse"
	"github.com/bigblind/combine/middleware"
	"github.com/bigblind/combine/models"
)

type AdminElementHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	ai  *ai.Client
}

func NewAdminElementHandler(db *sql.DB, cfg cliparse.Config, aiClient *ai.Client) *AdminElementHandler {
	return &AdminElementHandler{db: db, cfg: cfg, ai: aiClient}
}

// Add handles POST /admin/elements
// Creates an element with a normalized name. An existing element with
// the same name is returned instead of an error; an empty SVG triggers
// icon generation.
func (h *AdminElementHandler) Add(w http.ResponseWriter, r *http.Request) {
	if admin := requireAdmin(h.db, w, r); admin == nil {
		return
	}

	var req models.AddElementRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	name := models.NormalizeElementName(req.Name)
	if name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	existing, err := findElementByName(h.db, name)
	if err != nil {
		slog.Error("failed to look up element by name", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if existing != nil {
		middleware.JSONResponse(w, http.StatusOK, models.AddElementResponse{
			ID:   existing.ID,
			Name: existing.Name,
		})
		return
	}

	svg := strings.TrimSpace(req.SVG)
	if svg == "" {
		svg, err = h.ai.GenerateIcon(name)
		if err != nil {
			slog.Error("failed to generate icon", "error", err, "name", name)
			middleware.ErrorResponse(w, http.StatusBadGateway, "Failed to generate element icon")
			return
		}
	}

	element, err := insertElement(h.db, name, svg, nil)
	if err != nil {
		slog.Error("failed to insert element", "error", err, "name", name)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create element")
		return
	}

	slog.Info("element created", "element_id", element.ID, "name", name)

	middleware.JSONResponse(w, http.StatusCreated, models.AddElementResponse{
		ID:   element.ID,
		Name: element.Name,
	})
}

// Get handles GET /admin/elements/{id}
// The admin shape includes discovered_by and created_at.
func (h *AdminElementHandler) Get(w http.ResponseWriter, r *http.Request) {
	if admin := requireAdmin(h.db, w, r); admin == nil {
		return
	}

	element, err := getElement(h.db, r.PathValue("id"))
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

// Update handles PUT /admin/elements/{id}
// Renames and/or replaces the icon. The rename is not transactional
// with recipes that reference the element; they keep working because
// recipes reference IDs.
func (h *AdminElementHandler) Update(w http.ResponseWriter, r *http.Request) {
	if admin := requireAdmin(h.db, w, r); admin == nil {
		return
	}

	elementID := r.PathValue("id")

	var req models.UpdateElementRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	name := models.NormalizeElementName(req.Name)
	if name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	res, err := h.db.Exec(`
		UPDATE element SET name = $1, svg = $2 WHERE id = $3
	`, name, strings.TrimSpace(req.SVG), elementID)
	if isUniqueViolation(err) {
		middleware.ErrorResponse(w, http.StatusConflict, "An element with this name already exists")
		return
	}
	if err != nil {
		slog.Error("failed to update element", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update element")
		return
	}

	n, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Element not found")
		return
	}

	slog.Info("element updated", "element_id", elementID, "name", name)

	middleware.JSONResponse(w, http.StatusOK, models.AddElementResponse{
		ID:   elementID,
		Name: name,
	})
}

// Delete handles DELETE /admin/elements/{id}
// Cascades: every recipe where the element appears as either
// ingredient or the result, and every unlock of it, go with it.
func (h *AdminElementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if admin := requireAdmin(h.db, w, r); admin == nil {
		return
	}

	elementID := r.PathValue("id")

	if _, err := getElement(h.db, elementID); err != nil {
		if err == sql.ErrNoRows {
			middleware.ErrorResponse(w, http.StatusNotFound, "Element not found")
			return
		}
		slog.Error("failed to query element", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		DELETE FROM recipe
		WHERE ingredient1 = $1 OR ingredient2 = $1 OR result = $1
	`, elementID)
	if err != nil {
		slog.Error("failed to delete recipes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete element")
		return
	}

	_, err = tx.Exec(`DELETE FROM unlocked_element WHERE element_id = $1`, elementID)
	if err != nil {
		slog.Error("failed to delete unlocks", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete element")
		return
	}

	_, err = tx.Exec(`DELETE FROM element WHERE id = $1`, elementID)
	if err != nil {
		slog.Error("failed to delete element", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete element")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete element")
		return
	}

	slog.Info("element deleted", "element_id", elementID)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Element deleted"})
}

// RegenerateIcon handles POST /admin/elements/{id}/regenerate-icon
// Produces a new icon seeded with the current markup and feedback, and
// persists it.
func (h *AdminElementHandler) RegenerateIcon(w http.ResponseWriter, r *http.Request) {
	if admin := requireAdmin(h.db, w, r); admin == nil {
		return
	}

	element, err := getElement(h.db, r.PathValue("id"))
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Element not found")
		return
	}
	if err != nil {
		slog.Error("failed to query element", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var req models.RegenerateIconRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	svg, err := h.ai.RegenerateIcon(element.Name, element.SVG, req.Feedback)
	if err != nil {
		slog.Error("failed to regenerate icon", "error", err, "element_id", element.ID)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Failed to regenerate icon")
		return
	}

	svg = strings.TrimSpace(svg)
	_, err = h.db.Exec(`UPDATE element SET svg = $1 WHERE id = $2`, svg, element.ID)
	if err != nil {
		slog.Error("failed to save icon", "error", err, "element_id", element.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save icon")
		return
	}

	slog.Info("icon regenerated", "element_id", element.ID)

	middleware.JSONResponse(w, http.StatusOK, models.RegenerateIconResponse{SVG: svg})
}
