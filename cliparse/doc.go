// Copyright (c) 2026 bigblind.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration from CLI flags and environment
variables.

# Usage

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Flags take precedence over environment variables.

# Required Settings

  - DATABASE_URL (-d): sqlite path or postgres connection string
  - LOGIN_TOKEN_SALT (--login-salt): secret for login token HMAC

# Optional Settings

  - PORT (-p): server port (default: 3320)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - OPENROUTER_API_KEY (--openrouter-key): AI calls fail without it
  - OPENROUTER_URL (--openrouter-url): chat completions endpoint
  - TEXT_MODEL / ICON_MODEL: model overrides
  - ADMIN_EMAILS (--admin-emails): comma-separated admin list
  - DISCOVERY_DAILY_LIMIT (--discovery-limit): default 20
*/
package cliparse
