// Copyright (c) 2026 bigblind.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Combine API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, aiClient)

# Endpoints

Health:

	GET /health

Authentication:

	POST /auth/anonymous - Create anonymous player and session
	POST /auth/login     - Issue a login token for an email
	POST /auth/verify    - Exchange a login token for a session

Player state (requires X-Session-Token):

	GET  /players/me             - Current player info
	POST /players/link           - Merge anonymous progress into an email account
	POST /players/seed           - Grant the starter elements
	POST /players/clear-progress - Reset to the starter elements
	GET  /players/me/unlocked    - Unlocked elements
	GET  /players/me/discovered  - Elements the player discovered first

Element catalog (public):

	GET /elements      - All elements
	GET /elements/{id} - One element

Game (requires X-Session-Token):

	POST /combine - Combine two unlocked elements

Element administration (requires admin session):

	POST   /admin/elements                      - Add element
	GET    /admin/elements/{id}                 - Element details
	PUT    /admin/elements/{id}                 - Update element
	DELETE /admin/elements/{id}                 - Delete element (cascades)
	POST   /admin/elements/{id}/regenerate-icon - New AI icon
	GET    /admin/elements/{id}/recipes         - Recipes touching the element

Recipe administration (requires admin session):

	GET    /admin/recipes          - All recipes
	POST   /admin/recipes          - Add recipe
	GET    /admin/recipes/{id}     - Recipe details
	PUT    /admin/recipes/{id}     - Update recipe
	DELETE /admin/recipes/{id}     - Delete recipe
	POST   /admin/recipes/generate - AI-generate a recipe for a pair
	POST   /admin/recipes/suggest  - Batch of AI recipe suggestions
	POST   /admin/recipes/accept   - Persist one suggestion

# Handler Initialization

The router creates handler instances with dependency injection:

	authHandler := handlers.NewAuthHandler(db, cfg)
	gameHandler := handlers.NewGameHandler(db, cfg, aiClient)

All handlers receive the database connection; game and admin handlers
also receive the AI gateway client.
*/
package router
