package models

import (
	"strings"
	"time"
	"unicode"
)

// StarterElementNames is the fixed set of elements every new player
// begins with. Seeding only unlocks the ones present in the catalog.
var StarterElementNames = []string{"Earth", "Air", "Water", "Fire", "Time"}

// NormalizeElementName trims the name and capitalizes each
// space-delimited word: "  fire ant " -> "Fire Ant".
// Element names are always stored and compared in this form.
func NormalizeElementName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// Request types

type LoginRequest struct {
	Email string `json:"email"`
}

type VerifyRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

type LinkAccountRequest struct {
	AnonymousPlayerID string `json:"anonymous_player_id"`
}

type CombineRequest struct {
	Element1ID string `json:"element1_id"`
	Element2ID string `json:"element2_id"`
}

type AddElementRequest struct {
	Name string `json:"name"`
	SVG  string `json:"svg"`
}

type UpdateElementRequest struct {
	Name string `json:"name"`
	SVG  string `json:"svg"`
}

type RegenerateIconRequest struct {
	Feedback string `json:"feedback"`
}

type AddRecipeRequest struct {
	Ingredient1ID string `json:"ingredient1_id"`
	Ingredient2ID string `json:"ingredient2_id"`
	ResultID      string `json:"result_id"`
}

type UpdateRecipeRequest struct {
	Ingredient1ID string `json:"ingredient1_id"`
	Ingredient2ID string `json:"ingredient2_id"`
	ResultID      string `json:"result_id"`
}

type GenerateRecipeRequest struct {
	Element1ID string `json:"element1_id"`
	Element2ID string `json:"element2_id"`
}

// AcceptSuggestionRequest carries element names, not IDs, because
// suggested results usually don't exist yet.
type AcceptSuggestionRequest struct {
	Ingredient1 string `json:"ingredient1"`
	Ingredient2 string `json:"ingredient2"`
	Result      string `json:"result"`
}

// Response types

type SessionResponse struct {
	SessionToken string  `json:"session_token"`
	PlayerID     string  `json:"player_id"`
	Anonymous    bool    `json:"anonymous"`
	Email        *string `json:"email,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type MeResponse struct {
	ID        string  `json:"id"`
	Anonymous bool    `json:"anonymous"`
	Email     *string `json:"email,omitempty"`
}

type SeedResponse struct {
	Seeded bool `json:"seeded"`
}

// Combine result shapes. The combine endpoint returns exactly one of
// these, or a JSON null when the elements don't combine.

type CombineElementResponse struct {
	Element           Element `json:"element"`
	IsNew             bool    `json:"is_new"`
	RecipeDiscovered  bool    `json:"recipe_discovered"`
	ElementDiscovered bool    `json:"element_discovered"`
}

type RequiresLoginResponse struct {
	RequiresLogin bool `json:"requires_login"`
}

type RateLimitExceededResponse struct {
	RateLimitExceeded bool `json:"rate_limit_exceeded"`
}

type AddElementResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type RegenerateIconResponse struct {
	SVG string `json:"svg"`
}

type RecipesForElementResponse struct {
	AsResult     []Recipe `json:"as_result"`
	AsIngredient []Recipe `json:"as_ingredient"`
}

type GenerateRecipeResponse struct {
	ElementID string `json:"element_id"`
}

type SuggestionsResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// Domain types

type Player struct {
	ID        string    `json:"id"`
	Email     *string   `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Element struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	SVG          string    `json:"svg"`
	DiscoveredBy *string   `json:"discovered_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ElementSummary is the player-facing element shape: no discoverer,
// no timestamps.
type ElementSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	SVG  string `json:"svg"`
}

type Recipe struct {
	ID          string    `json:"id"`
	Ingredient1 string    `json:"ingredient1"`
	Ingredient2 string    `json:"ingredient2"`
	Result      string    `json:"result"`
	CreatedAt   time.Time `json:"created_at"`
}

// Suggestion is one AI-proposed recipe, by element name.
type Suggestion struct {
	Ingredient1 string `json:"ingredient1"`
	Ingredient2 string `json:"ingredient2"`
	Result      string `json:"result"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
