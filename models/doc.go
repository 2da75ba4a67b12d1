// Copyright (c) 2026 bigblind.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - LoginRequest: email
  - VerifyRequest: email, token
  - LinkAccountRequest: anonymous_player_id
  - CombineRequest: element1_id, element2_id
  - AddElementRequest / UpdateElementRequest: name, svg
  - AddRecipeRequest / UpdateRecipeRequest: ingredient1_id, ingredient2_id, result_id
  - AcceptSuggestionRequest: ingredient1, ingredient2, result (names)

# Response Types

The combine endpoint returns one of three shapes, or a JSON null when
the elements don't combine:

  - CombineElementResponse: element, is_new, recipe_discovered, element_discovered
  - RequiresLoginResponse: requires_login
  - RateLimitExceededResponse: rate_limit_exceeded

plus SessionResponse, MeResponse, AddElementResponse, and the other
per-endpoint shapes. Errors use ErrorResponse.

# Domain Types

  - Player: identity; Email is nil for anonymous players
  - Element: named entity with an SVG icon and optional discoverer
  - ElementSummary: player-facing element (id, name, svg only)
  - Recipe: unordered ingredient pair -> result, stored positionally
  - Suggestion: AI-proposed recipe by element name

# Name Normalization

NormalizeElementName is the single normalization used everywhere an
element name enters the system:

	models.NormalizeElementName("  fire ant ") // "Fire Ant"

# Starter Elements

StarterElementNames lists the elements every new player begins with.
*/
package models
