// Copyright (c) 2026 bigblind.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The DDL is portable between sqlite and postgres.

# Tables

The schema includes:

  - player: Player identities (email NULL for anonymous players)
  - session: Bearer session tokens
  - admin_user: Admin flags
  - element: Named elements with SVG icons
  - recipe: Unordered ingredient pair -> result element
  - unlocked_element: Per-player discovered elements
  - discovery_count: Per-player per-UTC-day discovery counters

# Relationships

	player 1──* session
	player 1──* unlocked_element
	player 1──* discovery_count
	element *──* recipe (as ingredient1, ingredient2, or result)
	element 1──* unlocked_element

Sessions, unlocks, counters, and admin flags cascade on player deletion.
Element deletion cascades are handled in application code because an
element may be referenced from three recipe columns.

# Keys

  - element.name is unique (names are stored normalized)
  - recipe.(pair_key, result) is unique; pair_key is the sorted
    ingredient pair, so both orderings collide
  - unlocked_element.(player_id, element_id) is the primary key, which
    makes unlock and starter seeding idempotent
  - discovery_count.(player_id, day) is the primary key for the
    fixed-window rate limiter
*/
package db
