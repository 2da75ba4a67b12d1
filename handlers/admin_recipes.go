// Copyright (c) 2026 bigblind.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/bigblind/combine/ai"
	"github.com/bigblind/combine/cliparse"
	"github.com/bigblind/combine/middleware"
	"github.com/bigblind/combine/models"
)

type AdminRecipeHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	ai  *ai.Client
}

func NewAdminRecipeHandler(db *sql.DB, cfg cliparse.Config, aiClient *ai.Client) *AdminRecipeHandler {
	return &AdminRecipeHandler{db: db, cfg: cfg, ai: aiClient}
}

// List handles GET /admin/recipes, newest first.
func (h *AdminRecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	if admin := requireAdmin(h.db, w, r); admin == nil {
		return
	}

	rows, err := h.db.Query(`
		SELECT id, ingredient1, ingredient2, result, created_at
		FROM recipe
		ORDER BY created_at DESC
	`)
	if err != nil {
		slog.Error("failed to query recipes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	recipes, err := scanRecipes(rows)
	if err != nil {
		slog.Error("failed to scan recipes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, recipes)
}

// Create handles POST /admin/recipes
func (h *AdminRecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	if admin := requireAdmin(h.db, w, r); admin == nil {
		return
	}

	var req models.AddRecipeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Ingredient1ID == "" || req.Ingredient2ID == "" || req.ResultID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "ingredient1_id, ingredient2_id, and result_id are required")
		return
	}

	for _, id := range []string{req.Ingredient1ID, req.Ingredient2ID, req.ResultID} {
		if _, err := getElement(h.db, id); err != nil {
			if err == sql.ErrNoRows {
				middleware.ErrorResponse(w, http.StatusNotFound, "Element not found: "+id)
				return
			}
			slog.Error("failed to query element", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
	}

	recipe, err := insertRecipe(h.db, req.Ingredient1ID, req.Ingredient2ID, req.ResultID)
	if err == ErrDuplicateRecipe {
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to insert recipe", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create recipe")
		return
	}

	slog.Info("recipe created", "recipe_id", recipe.ID)

	middleware.JSONResponse(w, http.StatusCreated, recipe)
}

// Get handles GET /admin/recipes/{id}
func (h *AdminRecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	if admin := requireAdmin(h.db, w, r); admin == nil {
		return
	}

	var recipe models.Recipe
	err := h.db.QueryRow(`
		SELECT id, ingredient1, ingredient2, result, created_at
		FROM recipe
		WHERE id = $1
	`, r.PathValue("id")).Scan(
		&recipe.ID, &recipe.Ingredient1, &recipe.Ingredient2, &recipe.Result, &recipe.CreatedAt,
	)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Recipe not found")
		return
	}
	if err != nil {
		slog.Error("failed to query recipe", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, recipe)
}

// Update handles PUT /admin/recipes/{id}
// Patches all three element references and recomputes the pair key.
func (h *AdminRecipeHandler) Update(w http.ResponseWriter, r *http.Request) {
	if admin := requireAdmin(h.db, w, r); admin == nil {
		return
	}

	recipeID := r.PathValue("id")

	var req models.UpdateRecipeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Ingredient1ID == "" || req.Ingredient2ID == "" || req.ResultID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "ingredient1_id, ingredient2_id, and result_id are required")
		return
	}

	res, err := h.db.Exec(`
		UPDATE recipe
		SET ingredient1 = $1, ingredient2 = $2, result = $3, pair_key = $4
		WHERE id = $5
	`, req.Ingredient1ID, req.Ingredient2ID, req.ResultID,
		pairKey(req.Ingredient1ID, req.Ingredient2ID), recipeID)
	if isUniqueViolation(err) {
		middleware.ErrorResponse(w, http.StatusConflict, ErrDuplicateRecipe.Error())
		return
	}
	if err != nil {
		slog.Error("failed to update recipe", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update recipe")
		return
	}

	n, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Recipe not found")
		return
	}

	slog.Info("recipe updated", "recipe_id", recipeID)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Recipe updated"})
}

// Delete handles DELETE /admin/recipes/{id}
func (h *AdminRecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if admin := requireAdmin(h.db, w, r); admin == nil {
		return
	}

	recipeID := r.PathValue("id")

	res, err := h.db.Exec(`DELETE FROM recipe WHERE id = $1`, recipeID)
	if err != nil {
		slog.Error("failed to delete recipe", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete recipe")
		return
	}

	n, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Recipe not found")
		return
	}

	slog.Info("recipe deleted", "recipe_id", recipeID)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Recipe deleted"})
}

// ForElement handles GET /admin/elements/{id}/recipes
// Recipes producing the element and recipes using it as an ingredient.
func (h *AdminRecipeHandler) ForElement(w http.ResponseWriter, r *http.Request) {
	if admin := requireAdmin(h.db, w, r); admin == nil {
		return
	}

	elementID := r.PathValue("id")

	asResult, err := h.queryRecipes(`
		SELECT id, ingredient1, ingredient2, result, created_at
		FROM recipe
		WHERE result = $1
		ORDER BY created_at DESC
	`, elementID)
	if err != nil {
		slog.Error("failed to query recipes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	asIngredient, err := h.queryRecipes(`
		SELECT id, ingredient1, ingredient2, result, created_at
		FROM recipe
		WHERE ingredient1 = $1 OR ingredient2 = $1
		ORDER BY created_at DESC
	`, elementID)
	if err != nil {
		slog.Error("failed to query recipes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RecipesForElementResponse{
		AsResult:     asResult,
		AsIngredient: asIngredient,
	})
}

// Generate handles POST /admin/recipes/generate
// The discovery path without the login and rate-limit gates, and
// without discoverer attribution. Returns null when the model answers
// NO RESULT.
func (h *AdminRecipeHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if admin := requireAdmin(h.db, w, r); admin == nil {
		return
	}

	var req models.GenerateRecipeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
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

	h.generate(w, element1, element2)
}

func (h *AdminRecipeHandler) generate(w http.ResponseWriter, element1, element2 *models.Element) {
	examples, err := recipeExamplesText(h.db)
	if err != nil {
		slog.Error("failed to build recipe examples", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	names, err := allElementNames(h.db)
	if err != nil {
		slog.Error("failed to list element names", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	name, err := h.ai.GenerateResultName(element1.Name, element2.Name, examples, names)
	if err != nil {
		slog.Error("failed to generate result name", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Failed to generate combination")
		return
	}

	if name == ai.NoResult {
		middleware.JSONResponse(w, http.StatusOK, nil)
		return
	}

	result, _, err := h.findOrCreateElement(models.NormalizeElementName(name))
	if err != nil {
		slog.Error("failed to create result element", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Failed to create result element")
		return
	}

	if _, err := insertRecipe(h.db, element1.ID, element2.ID, result.ID); err != nil {
		if err == ErrDuplicateRecipe {
			middleware.ErrorResponse(w, http.StatusConflict, err.Error())
			return
		}
		slog.Error("failed to insert recipe", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create recipe")
		return
	}

	slog.Info("recipe generated",
		"element1", element1.Name,
		"element2", element2.Name,
		"result", result.Name,
	)

	middleware.JSONResponse(w, http.StatusOK, models.GenerateRecipeResponse{ElementID: result.ID})
}

// Suggest handles POST /admin/recipes/suggest
// Asks the AI gateway for a batch of new recipes over the current
// catalog. Suggestions are names only; nothing is persisted until one
// is accepted.
func (h *AdminRecipeHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	if admin := requireAdmin(h.db, w, r); admin == nil {
		return
	}

	examples, err := recipeExamplesText(h.db)
	if err != nil {
		slog.Error("failed to build recipe examples", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	suggestions, err := h.ai.SuggestRecipes(examples)
	if err != nil {
		slog.Error("failed to suggest recipes", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Failed to suggest recipes")
		return
	}

	out := make([]models.Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, models.Suggestion{
			Ingredient1: models.NormalizeElementName(s.Ingredient1),
			Ingredient2: models.NormalizeElementName(s.Ingredient2),
			Result:      models.NormalizeElementName(s.Result),
		})
	}

	slog.Info("recipes suggested", "count", len(out))

	middleware.JSONResponse(w, http.StatusOK, models.SuggestionsResponse{Suggestions: out})
}

// Accept handles POST /admin/recipes/accept
// Persists one suggestion by name: any element that doesn't exist yet
// is created (with a generated icon), then the recipe is inserted.
func (h *AdminRecipeHandler) Accept(w http.ResponseWriter, r *http.Request) {
	if admin := requireAdmin(h.db, w, r); admin == nil {
		return
	}

	var req models.AcceptSuggestionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	ing1 := models.NormalizeElementName(req.Ingredient1)
	ing2 := models.NormalizeElementName(req.Ingredient2)
	result := models.NormalizeElementName(req.Result)
	if ing1 == "" || ing2 == "" || result == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "ingredient1, ingredient2, and result are required")
		return
	}

	var elements [3]*models.Element
	for i, name := range []string{ing1, ing2, result} {
		element, _, err := h.findOrCreateElement(name)
		if err != nil {
			slog.Error("failed to create element for suggestion", "error", err, "name", name)
			middleware.ErrorResponse(w, http.StatusBadGateway, "Failed to create element: "+name)
			return
		}
		elements[i] = element
	}

	recipe, err := insertRecipe(h.db, elements[0].ID, elements[1].ID, elements[2].ID)
	if err == ErrDuplicateRecipe {
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to insert recipe", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create recipe")
		return
	}

	slog.Info("suggestion accepted", "recipe_id", recipe.ID, "result", result)

	middleware.JSONResponse(w, http.StatusCreated, recipe)
}

// findOrCreateElement resolves a normalized name to an element,
// generating an icon and inserting a new row when needed.
func (h *AdminRecipeHandler) findOrCreateElement(name string) (*models.Element, bool, error) {
	existing, err := findElementByName(h.db, name)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	svg, err := h.ai.GenerateIcon(name)
	if err != nil {
		return nil, false, err
	}

	element, err := insertElement(h.db, name, svg, nil)
	if err != nil {
		return nil, false, err
	}

	slog.Info("element created", "element_id", element.ID, "name", name)

	return &element, true, nil
}

func (h *AdminRecipeHandler) queryRecipes(query string, args ...interface{}) ([]models.Recipe, error) {
	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecipes(rows)
}

func scanRecipes(rows *sql.Rows) ([]models.Recipe, error) {
	recipes := []models.Recipe{}
	for rows.Next() {
		var rec models.Recipe
		if err := rows.Scan(&rec.ID, &rec.Ingredient1, &rec.Ingredient2, &rec.Result, &rec.CreatedAt); err != nil {
			return nil, err
		}
		recipes = append(recipes, rec)
	}
	return recipes, rows.Err()
}
