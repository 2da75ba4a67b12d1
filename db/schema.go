// Copyright (c) 2026 bigblind.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL sticks to the subset of SQL that both sqlite and postgres
// accept, so the same schema serves production and tests.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Players. Anonymous players have a NULL email.
CREATE TABLE IF NOT EXISTS player (
    id TEXT PRIMARY KEY,
    email TEXT UNIQUE,
    created_at TIMESTAMP NOT NULL
);

-- Bearer sessions, presented via the X-Session-Token header.
CREATE TABLE IF NOT EXISTS session (
    token TEXT PRIMARY KEY,
    player_id TEXT NOT NULL REFERENCES player(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_session_player ON session(player_id);

-- Players allowed to use the admin surface.
CREATE TABLE IF NOT EXISTS admin_user (
    player_id TEXT PRIMARY KEY REFERENCES player(id) ON DELETE CASCADE
);

-- Elements. Names are stored normalized (each word capitalized) and
-- must be unique. discovered_by is set when a player's combination
-- created the element, NULL for curated ones.
CREATE TABLE IF NOT EXISTS element (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    svg TEXT NOT NULL,
    discovered_by TEXT REFERENCES player(id),
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_element_discovered_by ON element(discovered_by);

-- Recipes. pair_key is the canonical unordered ingredient pair
-- (lexicographically sorted "minID:maxID"), so a pair lookup is one
-- indexed equality and the UNIQUE constraint rejects a duplicate
-- pair+result in either ingredient order.
CREATE TABLE IF NOT EXISTS recipe (
    id TEXT PRIMARY KEY,
    ingredient1 TEXT NOT NULL REFERENCES element(id),
    ingredient2 TEXT NOT NULL REFERENCES element(id),
    result TEXT NOT NULL REFERENCES element(id),
    pair_key TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (pair_key, result)
);

CREATE INDEX IF NOT EXISTS idx_recipe_pair_key ON recipe(pair_key);
CREATE INDEX IF NOT EXISTS idx_recipe_result ON recipe(result);

-- Per-player unlocked elements. The primary key makes unlocking and
-- starter seeding idempotent (INSERT ... ON CONFLICT DO NOTHING).
CREATE TABLE IF NOT EXISTS unlocked_element (
    player_id TEXT NOT NULL REFERENCES player(id) ON DELETE CASCADE,
    element_id TEXT NOT NULL REFERENCES element(id),
    unlocked_at TIMESTAMP NOT NULL,
    PRIMARY KEY (player_id, element_id)
);

CREATE INDEX IF NOT EXISTS idx_unlocked_element_element ON unlocked_element(element_id);

-- Fixed-window discovery counters. day is the UTC date (YYYY-MM-DD),
-- so the window resets at midnight UTC by construction.
CREATE TABLE IF NOT EXISTS discovery_count (
    player_id TEXT NOT NULL REFERENCES player(id) ON DELETE CASCADE,
    day TEXT NOT NULL,
    count INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (player_id, day)
);
`
