// Copyright (c) 2026 bigblind.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Combine API server.

Combine is a crafting game: players combine pairs of elements to
unlock new ones. Known combinations come from a recipe catalog;
unknown combinations are resolved by an LLM, which names the result
and draws an SVG icon for brand-new elements.

# Starting the Server

The server requires environment variables or CLI flags for
configuration. A .env file in the working directory is loaded first:

	DATABASE_URL=combine.db LOGIN_TOKEN_SALT=... go run .

Or with flags:

	go run . -p 3320 -d combine.db --login-salt ...

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite path or PostgreSQL connection string
  - LOGIN_TOKEN_SALT (--login-salt): Secret for login token HMAC

Optional settings:

  - PORT (-p): Server port (default: 3320)
  - DATABASE_TYPE: "sqlite" (default) or "postgres"
  - OPENROUTER_API_KEY: AI gateway key; without it, discovery fails
  - OPENROUTER_URL: AI gateway endpoint override
  - TEXT_MODEL / ICON_MODEL: model overrides
  - ADMIN_EMAILS: comma-separated emails granted admin on login
  - DISCOVERY_DAILY_LIMIT: discoveries per player per UTC day (default: 20)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (auth, players, elements, game, admin)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types and name normalization
  - auth: Token generation and validation
  - ai: OpenRouter chat client (result names, icons, suggestions)
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
