// Copyright (c) 2026 bigblind.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bigblind/combine/models"
)

// ErrDuplicateRecipe is returned when a recipe with the same unordered
// ingredient pair and the same result already exists.
var ErrDuplicateRecipe = errors.New("a recipe with these ingredients and result already exists")

// pairKey canonicalizes an unordered ingredient pair. Both orderings
// of the same two elements produce the same key.
func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}

// isUniqueViolation matches unique-constraint errors from both the
// sqlite and postgres drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

// getElement fetches an element by id. Returns sql.ErrNoRows when absent.
func getElement(db *sql.DB, id string) (*models.Element, error) {
	var el models.Element
	err := db.QueryRow(`
		SELECT id, name, svg, discovered_by, created_at
		FROM element
		WHERE id = $1
	`, id).Scan(&el.ID, &el.Name, &el.SVG, &el.DiscoveredBy, &el.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &el, nil
}

// findElementByName looks up an element by its exact normalized name.
// Returns (nil, nil) when no element has that name.
func findElementByName(db *sql.DB, name string) (*models.Element, error) {
	var el models.Element
	err := db.QueryRow(`
		SELECT id, name, svg, discovered_by, created_at
		FROM element
		WHERE name = $1
	`, name).Scan(&el.ID, &el.Name, &el.SVG, &el.DiscoveredBy, &el.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &el, nil
}

// insertElement creates an element. The name must already be normalized.
func insertElement(db *sql.DB, name, svg string, discoveredBy *string) (models.Element, error) {
	el := models.Element{
		ID:           uuid.NewString(),
		Name:         name,
		SVG:          svg,
		DiscoveredBy: discoveredBy,
		CreatedAt:    time.Now(),
	}

	_, err := db.Exec(`
		INSERT INTO element (id, name, svg, discovered_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, el.ID, el.Name, el.SVG, el.DiscoveredBy, el.CreatedAt)
	if err != nil {
		return models.Element{}, err
	}

	return el, nil
}

// findRecipeByPair looks up a recipe by its unordered ingredient pair.
// Returns (nil, nil) when no recipe matches.
func findRecipeByPair(db *sql.DB, element1, element2 string) (*models.Recipe, error) {
	var rec models.Recipe
	err := db.QueryRow(`
		SELECT id, ingredient1, ingredient2, result, created_at
		FROM recipe
		WHERE pair_key = $1
	`, pairKey(element1, element2)).Scan(
		&rec.ID, &rec.Ingredient1, &rec.Ingredient2, &rec.Result, &rec.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// insertRecipe creates a recipe. The (pair_key, result) unique
// constraint rejects a duplicate pair+result in either ingredient
// order; that case comes back as ErrDuplicateRecipe.
func insertRecipe(db *sql.DB, ingredient1, ingredient2, result string) (models.Recipe, error) {
	rec := models.Recipe{
		ID:          uuid.NewString(),
		Ingredient1: ingredient1,
		Ingredient2: ingredient2,
		Result:      result,
		CreatedAt:   time.Now(),
	}

	_, err := db.Exec(`
		INSERT INTO recipe (id, ingredient1, ingredient2, result, pair_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rec.ID, rec.Ingredient1, rec.Ingredient2, rec.Result,
		pairKey(ingredient1, ingredient2), rec.CreatedAt)
	if isUniqueViolation(err) {
		return models.Recipe{}, ErrDuplicateRecipe
	}
	if err != nil {
		return models.Recipe{}, err
	}

	return rec, nil
}

// unlockElement records that a player holds an element. Idempotent:
// returns true only when the unlock row was actually inserted.
func unlockElement(db *sql.DB, playerID, elementID string) (bool, error) {
	res, err := db.Exec(`
		INSERT INTO unlocked_element (player_id, element_id, unlocked_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (player_id, element_id) DO NOTHING
	`, playerID, elementID, time.Now())
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// recipeExamplesText renders the full recipe catalog as "A + B = C"
// lines for AI prompts.
func recipeExamplesText(db *sql.DB) (string, error) {
	rows, err := db.Query(`
		SELECT i1.name, i2.name, res.name
		FROM recipe r
		JOIN element i1 ON r.ingredient1 = i1.id
		JOIN element i2 ON r.ingredient2 = i2.id
		JOIN element res ON r.result = res.id
		ORDER BY r.created_at
	`)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var ing1, ing2, result string
		if err := rows.Scan(&ing1, &ing2, &result); err != nil {
			return "", err
		}
		lines = append(lines, fmt.Sprintf("%s + %s = %s", ing1, ing2, result))
	}

	return strings.Join(lines, "\n"), rows.Err()
}

// allElementNames renders the element catalog as one name per line for
// AI prompts.
func allElementNames(db *sql.DB) (string, error) {
	rows, err := db.Query(`SELECT name FROM element ORDER BY name`)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return "", err
		}
		names = append(names, name)
	}

	return strings.Join(names, "\n"), rows.Err()
}
