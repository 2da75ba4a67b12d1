// Copyright (c) 2026 bigblind.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bigblind/combine/middleware"
	"github.com/bigblind/combine/models"
)

var errNoSession = errors.New("no valid session")

// currentPlayer resolves the player behind the X-Session-Token header.
// Returns errNoSession when the header is missing or the token is unknown.
func currentPlayer(db *sql.DB, r *http.Request) (*models.Player, error) {
	token := r.Header.Get("X-Session-Token")
	if token == "" {
		return nil, errNoSession
	}

	var p models.Player
	err := db.QueryRow(`
		SELECT p.id, p.email, p.created_at
		FROM session s
		JOIN player p ON s.player_id = p.id
		WHERE s.token = $1
	`, token).Scan(&p.ID, &p.Email, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errNoSession
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// isAdmin reports whether the player has the admin flag.
func isAdmin(db *sql.DB, playerID string) (bool, error) {
	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM admin_user WHERE player_id = $1)
	`, playerID).Scan(&exists)
	return exists, err
}

// requirePlayer authenticates the request, writing a 401 and returning
// nil when there is no valid session.
func requirePlayer(db *sql.DB, w http.ResponseWriter, r *http.Request) *models.Player {
	player, err := currentPlayer(db, r)
	if err == errNoSession {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Not authenticated")
		return nil
	}
	if err != nil {
		slog.Error("failed to resolve session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return nil
	}
	return player
}

// requireAdmin authenticates the request and checks the admin flag,
// writing a 401/403 and returning nil on failure.
func requireAdmin(db *sql.DB, w http.ResponseWriter, r *http.Request) *models.Player {
	player := requirePlayer(db, w, r)
	if player == nil {
		return nil
	}

	admin, err := isAdmin(db, player.ID)
	if err != nil {
		slog.Error("failed to check admin flag", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return nil
	}
	if !admin {
		middleware.ErrorResponse(w, http.StatusForbidden, "Not authorized")
		return nil
	}

	return player
}
