// Copyright (c) 2026 bigblind.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bigblind/combine/middleware"
	"github.com/bigblind/combine/models"
)

type PlayerHandler struct {
	db *sql.DB
}

func NewPlayerHandler(db *sql.DB) *PlayerHandler {
	return &PlayerHandler{db: db}
}

// Me handles GET /players/me
func (h *PlayerHandler) Me(w http.ResponseWriter, r *http.Request) {
	player := requirePlayer(h.db, w, r)
	if player == nil {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MeResponse{
		ID:        player.ID,
		Anonymous: player.Email == nil,
		Email:     player.Email,
	})
}

// Link handles POST /players/link
// Transfers every unlock the current player doesn't already hold from
// an anonymous player, then deletes the anonymous player's unlocks.
// No-ops when linking to self.
func (h *PlayerHandler) Link(w http.ResponseWriter, r *http.Request) {
	player := requirePlayer(h.db, w, r)
	if player == nil {
		return
	}

	var req models.LinkAccountRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.AnonymousPlayerID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "anonymous_player_id is required")
		return
	}

	if req.AnonymousPlayerID == player.ID {
		middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Nothing to link"})
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// Copy over unlocks the current player lacks; the primary key
	// swallows the ones they already hold.
	_, err = tx.Exec(`
		INSERT INTO unlocked_element (player_id, element_id, unlocked_at)
		SELECT $1, element_id, $2
		FROM unlocked_element
		WHERE player_id = $3
		ON CONFLICT (player_id, element_id) DO NOTHING
	`, player.ID, time.Now(), req.AnonymousPlayerID)
	if err != nil {
		slog.Error("failed to transfer unlocks", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to link account")
		return
	}

	_, err = tx.Exec(`
		DELETE FROM unlocked_element WHERE player_id = $1
	`, req.AnonymousPlayerID)
	if err != nil {
		slog.Error("failed to clear anonymous unlocks", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to link account")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to link account")
		return
	}

	slog.Info("account linked", "player_id", player.ID, "anonymous_player_id", req.AnonymousPlayerID)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Account linked"})
}

// Seed handles POST /players/seed
// Unlocks the starter elements for players with no unlocks yet.
// Idempotent; starter elements missing from the catalog are skipped.
func (h *PlayerHandler) Seed(w http.ResponseWriter, r *http.Request) {
	player := requirePlayer(h.db, w, r)
	if player == nil {
		return
	}

	var count int
	err := h.db.QueryRow(`
		SELECT COUNT(*) FROM unlocked_element WHERE player_id = $1
	`, player.ID).Scan(&count)
	if err != nil {
		slog.Error("failed to count unlocks", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if count > 0 {
		middleware.JSONResponse(w, http.StatusOK, models.SeedResponse{Seeded: false})
		return
	}

	for _, name := range models.StarterElementNames {
		element, err := findElementByName(h.db, name)
		if err != nil {
			slog.Error("failed to look up starter element", "error", err, "name", name)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if element == nil {
			continue
		}

		if _, err := unlockElement(h.db, player.ID, element.ID); err != nil {
			slog.Error("failed to unlock starter element", "error", err, "name", name)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to seed elements")
			return
		}
	}

	slog.Info("starter elements seeded", "player_id", player.ID)

	middleware.JSONResponse(w, http.StatusOK, models.SeedResponse{Seeded: true})
}

// ClearProgress handles POST /players/clear-progress
// Deletes all of the player's unlocks except the starter set.
func (h *PlayerHandler) ClearProgress(w http.ResponseWriter, r *http.Request) {
	player := requirePlayer(h.db, w, r)
	if player == nil {
		return
	}

	// Build the starter-name placeholder list ($2..$n)
	placeholders := make([]string, len(models.StarterElementNames))
	args := make([]interface{}, 0, len(models.StarterElementNames)+1)
	args = append(args, player.ID)
	for i, name := range models.StarterElementNames {
		placeholders[i] = "$" + strconv.Itoa(i+2)
		args = append(args, name)
	}

	_, err := h.db.Exec(`
		DELETE FROM unlocked_element
		WHERE player_id = $1
		AND element_id NOT IN (
			SELECT id FROM element WHERE name IN (`+strings.Join(placeholders, ", ")+`)
		)
	`, args...)
	if err != nil {
		slog.Error("failed to clear progress", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to clear progress")
		return
	}

	slog.Info("progress cleared", "player_id", player.ID)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Progress cleared"})
}

// ListUnlocked handles GET /players/me/unlocked
func (h *PlayerHandler) ListUnlocked(w http.ResponseWriter, r *http.Request) {
	player := requirePlayer(h.db, w, r)
	if player == nil {
		return
	}

	rows, err := h.db.Query(`
		SELECT e.id, e.name, e.svg
		FROM unlocked_element u
		JOIN element e ON u.element_id = e.id
		WHERE u.player_id = $1
		ORDER BY u.unlocked_at
	`, player.ID)
	if err != nil {
		slog.Error("failed to query unlocked elements", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	elements, err := scanElementSummaries(rows)
	if err != nil {
		slog.Error("failed to scan unlocked elements", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, elements)
}

// ListDiscovered handles GET /players/me/discovered
// Elements whose creation was this player's combination.
func (h *PlayerHandler) ListDiscovered(w http.ResponseWriter, r *http.Request) {
	player := requirePlayer(h.db, w, r)
	if player == nil {
		return
	}

	rows, err := h.db.Query(`
		SELECT id, name, svg
		FROM element
		WHERE discovered_by = $1
		ORDER BY created_at
	`, player.ID)
	if err != nil {
		slog.Error("failed to query discovered elements", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	elements, err := scanElementSummaries(rows)
	if err != nil {
		slog.Error("failed to scan discovered elements", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, elements)
}

func scanElementSummaries(rows *sql.Rows) ([]models.ElementSummary, error) {
	elements := []models.ElementSummary{}
	for rows.Next() {
		var el models.ElementSummary
		if err := rows.Scan(&el.ID, &el.Name, &el.SVG); err != nil {
			return nil, err
		}
		elements = append(elements, el)
	}
	return elements, rows.Err()
}
