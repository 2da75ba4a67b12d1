// Copyright (c) 2026 bigblind.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/bigblind/combine/ai"
	"github.com/bigblind/combine/cliparse"
	"github.com/bigblind/combine/middleware"
	"github.com/bigblind/combine/models"
)

type GameHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	ai  *ai.Client
}

func NewGameHandler(db *sql.DB, cfg cliparse.Config, aiClient *ai.Client) *GameHandler {
	return &GameHandler{db: db, cfg: cfg, ai: aiClient}
}

// Combine handles POST /combine
//
// The discovery workflow: look up an existing recipe for the unordered
// pair; otherwise gate on verified email and the daily rate limit,
// then generate a result via the AI gateway, dedupe it by normalized
// name, persist the element and recipe, and unlock the result.
// Responds with one of the combine result shapes, or JSON null when
// the elements don't combine.
//
// The steps run as separate statements, not one transaction: two
// concurrent requests for the same unexplored pair can both reach the
// AI gateway. The pair_key+result constraint stops an exact duplicate
// recipe, nothing stops two differently-named results.
func (h *GameHandler) Combine(w http.ResponseWriter, r *http.Request) {
	player := requirePlayer(h.db, w, r)
	if player == nil {
		return
	}

	var req models.CombineRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Element1ID == "" || req.Element2ID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "element1_id and element2_id are required")
		return
	}

	element1, err := getElement(h.db, req.Element1ID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "One or both elements not found")
		return
	}
	if err != nil {
		slog.Error("failed to query element", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	element2, err := getElement(h.db, req.Element2ID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "One or both elements not found")
		return
	}
	if err != nil {
		slog.Error("failed to query element", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	h.combine(w, player, element1, element2)
}

func (h *GameHandler) combine(w http.ResponseWriter, player *models.Player, element1, element2 *models.Element) {
	recipe, err := findRecipeByPair(h.db, element1.ID, element2.ID)
	if err != nil {
		slog.Error("failed to query recipe", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if recipe != nil {
		result, err := getElement(h.db, recipe.Result)
		if err != nil && err != sql.ErrNoRows {
			slog.Error("failed to query result element", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		// A recipe whose result element was deleted behaves like no
		// recipe at all: fall through to generation.
		if err == nil {
			isNew, err := unlockElement(h.db, player.ID, result.ID)
			if err != nil {
				slog.Error("failed to unlock element", "error", err)
				middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to unlock element")
				return
			}

			middleware.JSONResponse(w, http.StatusOK, models.CombineElementResponse{
				Element:           *result,
				IsNew:             isNew,
				RecipeDiscovered:  false,
				ElementDiscovered: false,
			})
			return
		}
	}

	// New content is gated to verified accounts to bound AI spend.
	if player.Email == nil {
		middleware.JSONResponse(w, http.StatusOK, models.RequiresLoginResponse{RequiresLogin: true})
		return
	}

	count, err := h.bumpDiscoveryCount(player.ID)
	if err != nil {
		slog.Error("failed to bump discovery count", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if count > h.cfg.DailyDiscoveryLimit {
		admin, err := isAdmin(h.db, player.ID)
		if err != nil {
			slog.Error("failed to check admin flag", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if !admin {
			slog.Info("discovery rate limited", "player_id", player.ID, "count", count)
			middleware.JSONResponse(w, http.StatusOK, models.RateLimitExceededResponse{RateLimitExceeded: true})
			return
		}
	}

	result, elementDiscovered, ok := h.discover(w, player, element1, element2)
	if !ok {
		return
	}
	if result == nil {
		// The model declared the pair uncombinable.
		middleware.JSONResponse(w, http.StatusOK, nil)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CombineElementResponse{
		Element:           *result,
		IsNew:             true,
		RecipeDiscovered:  true,
		ElementDiscovered: elementDiscovered,
	})
}

// discover runs the generate-and-persist path: AI name generation,
// dedupe by normalized name, element + recipe insert, unlock. A nil
// element with ok=true means the model answered NO RESULT. ok=false
// means the response has already been written.
func (h *GameHandler) discover(w http.ResponseWriter, player *models.Player, element1, element2 *models.Element) (*models.Element, bool, bool) {
	examples, err := recipeExamplesText(h.db)
	if err != nil {
		slog.Error("failed to build recipe examples", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return nil, false, false
	}

	names, err := allElementNames(h.db)
	if err != nil {
		slog.Error("failed to list element names", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return nil, false, false
	}

	name, err := h.ai.GenerateResultName(element1.Name, element2.Name, examples, names)
	if err != nil {
		slog.Error("failed to generate result name", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Failed to generate combination")
		return nil, false, false
	}

	if name == ai.NoResult {
		slog.Info("no result for combination", "element1", element1.Name, "element2", element2.Name)
		return nil, false, true
	}

	name = models.NormalizeElementName(name)

	result, err := findElementByName(h.db, name)
	if err != nil {
		slog.Error("failed to look up element by name", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return nil, false, false
	}

	elementDiscovered := false
	if result == nil {
		svg, err := h.ai.GenerateIcon(name)
		if err != nil {
			slog.Error("failed to generate icon", "error", err, "name", name)
			middleware.ErrorResponse(w, http.StatusBadGateway, "Failed to generate element icon")
			return nil, false, false
		}

		created, err := insertElement(h.db, name, svg, &player.ID)
		if err != nil {
			slog.Error("failed to insert element", "error", err, "name", name)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create element")
			return nil, false, false
		}
		result = &created
		elementDiscovered = true

		slog.Info("element discovered", "element_id", created.ID, "name", name, "player_id", player.ID)
	}

	_, err = insertRecipe(h.db, element1.ID, element2.ID, result.ID)
	if err == ErrDuplicateRecipe {
		// Lost a race with a concurrent identical discovery. The
		// element persists either way; surface the conflict.
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
		return nil, false, false
	}
	if err != nil {
		slog.Error("failed to insert recipe", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create recipe")
		return nil, false, false
	}

	if _, err := unlockElement(h.db, player.ID, result.ID); err != nil {
		slog.Error("failed to unlock element", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to unlock element")
		return nil, false, false
	}

	slog.Info("recipe discovered",
		"element1", element1.Name,
		"element2", element2.Name,
		"result", result.Name,
		"player_id", player.ID,
	)

	return result, elementDiscovered, true
}

// bumpDiscoveryCount increments and returns the player's counter for
// the current UTC day. The (player_id, day) key is the fixed window;
// it resets at midnight UTC because the day string changes.
func (h *GameHandler) bumpDiscoveryCount(playerID string) (int, error) {
	day := time.Now().UTC().Format("2006-01-02")

	_, err := h.db.Exec(`
		INSERT INTO discovery_count (player_id, day, count)
		VALUES ($1, $2, 1)
		ON CONFLICT (player_id, day) DO UPDATE SET count = discovery_count.count + 1
	`, playerID, day)
	if err != nil {
		return 0, err
	}

	var count int
	err = h.db.QueryRow(`
		SELECT count FROM discovery_count WHERE player_id = $1 AND day = $2
	`, playerID, day).Scan(&count)
	return count, err
}
