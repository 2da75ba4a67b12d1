// Copyright (c) 2026 bigblind.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bigblind/combine/auth"
	"github.com/bigblind/combine/cliparse"
	"github.com/bigblind/combine/middleware"
	"github.com/bigblind/combine/models"
)

type AuthHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAuthHandler(db *sql.DB, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

// Anonymous handles POST /auth/anonymous
// Creates a new anonymous player and a session for it.
func (h *AuthHandler) Anonymous(w http.ResponseWriter, r *http.Request) {
	playerID := uuid.NewString()
	now := time.Now()

	_, err := h.db.Exec(`
		INSERT INTO player (id, email, created_at)
		VALUES ($1, NULL, $2)
	`, playerID, now)
	if err != nil {
		slog.Error("failed to insert player", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create player")
		return
	}

	token, err := h.createSession(playerID)
	if err != nil {
		slog.Error("failed to create session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	slog.Info("anonymous player created", "player_id", playerID)

	middleware.JSONResponse(w, http.StatusCreated, models.SessionResponse{
		SessionToken: token,
		PlayerID:     playerID,
		Anonymous:    true,
	})
}

// Login handles POST /auth/login
// Issues a login token for the email. Delivery of the magic link is
// the mail provider's job; this handler only mints the token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	email := normalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		middleware.ErrorResponse(w, http.StatusBadRequest, "valid email is required")
		return
	}

	token := auth.GenerateLoginToken(email, h.cfg.LoginTokenSalt)

	// The token reaches the player by email; it is logged here only so
	// a dev setup without a mail provider can complete the flow.
	slog.Info("login token issued", "email", email, "token", token)

	middleware.JSONResponse(w, http.StatusAccepted, models.MessageResponse{
		Message: "Login link sent",
	})
}

// Verify handles POST /auth/verify
// Validates a login token, finds or creates the player for the email,
// and starts a session.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	email := normalizeEmail(req.Email)
	if email == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := auth.ValidateLoginToken(email, req.Token, h.cfg.LoginTokenSalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid login token")
		return
	}

	// Find or create the player for this email
	var playerID string
	err := h.db.QueryRow(`SELECT id FROM player WHERE email = $1`, email).Scan(&playerID)
	if err == sql.ErrNoRows {
		playerID = uuid.NewString()
		_, err = h.db.Exec(`
			INSERT INTO player (id, email, created_at)
			VALUES ($1, $2, $3)
		`, playerID, email, time.Now())
	}
	if err != nil {
		slog.Error("failed to find or create player", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	// Configured admins get the flag on sign-in
	if h.cfg.IsAdminEmail(email) {
		_, err = h.db.Exec(`
			INSERT INTO admin_user (player_id)
			VALUES ($1)
			ON CONFLICT (player_id) DO NOTHING
		`, playerID)
		if err != nil {
			slog.Error("failed to set admin flag", "error", err, "player_id", playerID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign in")
			return
		}
	}

	token, err := h.createSession(playerID)
	if err != nil {
		slog.Error("failed to create session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	slog.Info("player signed in", "player_id", playerID)

	middleware.JSONResponse(w, http.StatusOK, models.SessionResponse{
		SessionToken: token,
		PlayerID:     playerID,
		Anonymous:    false,
		Email:        &email,
	})
}

func (h *AuthHandler) createSession(playerID string) (string, error) {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return "", err
	}

	_, err = h.db.Exec(`
		INSERT INTO session (token, player_id, created_at)
		VALUES ($1, $2, $3)
	`, token, playerID, time.Now())
	if err != nil {
		return "", err
	}

	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
