// Copyright (c) 2026 bigblind.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Combine API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - AuthHandler: Anonymous sessions and email login
  - PlayerHandler: Player state (seed, link, progress)
  - ElementHandler: Public element catalog
  - GameHandler: The combine operation
  - AdminElementHandler: Element CRUD and icon regeneration
  - AdminRecipeHandler: Recipe CRUD, generation, and suggestions

Handlers are created via constructor functions that accept *sql.DB,
Config, and (where AI is involved) an *ai.Client:

	gameHandler := handlers.NewGameHandler(db, cfg, aiClient)

# Session Flow

Every player operation requires an X-Session-Token header. Sessions
come from either an anonymous signup or an email login:

	POST /auth/anonymous → Anonymous (returns session token)
	POST /auth/login     → Login (issues a login token)
	POST /auth/verify    → Verify (exchanges login token for a session)

Linking an anonymous session to an email account transfers unlocked
elements to the email-backed player.

# Combine Flow

The core game operation:

	POST /combine → Combine

A known recipe unlocks its result immediately. An unknown pair is a
discovery: it requires a logged-in player, consumes one unit of the
daily discovery allowance, and asks the AI gateway for a result name
and (for a brand-new element) an icon. The model may answer that the
pair makes nothing, in which case the response body is JSON null.

# Admin Operations

Admin endpoints require a session whose player has the admin flag:

	POST   /admin/elements
	PUT    /admin/elements/{id}
	DELETE /admin/elements/{id}
	POST   /admin/elements/{id}/regenerate-icon
	GET    /admin/elements/{id}/recipes
	POST   /admin/recipes
	POST   /admin/recipes/generate
	POST   /admin/recipes/suggest
	POST   /admin/recipes/accept

Deleting an element cascades to its recipes and unlocks.
*/
package handlers
