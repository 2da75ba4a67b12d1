// Copyright (c) 2026 bigblind.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bigblind/combine/models"
	"github.com/bigblind/combine/testutil"
)

func strPtr(s string) *string { return &s }

func TestMe(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewPlayerHandler(db)

	t.Run("anonymous player", func(t *testing.T) {
		playerID, token := testutil.CreateTestPlayer(t, db, nil)

		req := testutil.MakeRequest("GET", "/players/me", nil, testutil.SessionHeaders(token))
		w := httptest.NewRecorder()
		handler.Me(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.MeResponse
		testutil.AssertJSON(t, w, &resp)

		if resp.ID != playerID {
			t.Errorf("Expected player %s, got %s", playerID, resp.ID)
		}
		if !resp.Anonymous {
			t.Error("Expected anonymous=true")
		}
	})

	t.Run("email player", func(t *testing.T) {
		_, token := testutil.CreateTestPlayer(t, db, strPtr("alice@example.com"))

		req := testutil.MakeRequest("GET", "/players/me", nil, testutil.SessionHeaders(token))
		w := httptest.NewRecorder()
		handler.Me(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.MeResponse
		testutil.AssertJSON(t, w, &resp)

		if resp.Anonymous {
			t.Error("Expected anonymous=false")
		}
		if resp.Email == nil || *resp.Email != "alice@example.com" {
			t.Errorf("Expected email in response, got %v", resp.Email)
		}
	})

	t.Run("no session", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/players/me", nil, nil)
		w := httptest.NewRecorder()
		handler.Me(w, req)

		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("unknown token", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/players/me", nil, testutil.SessionHeaders("bogus"))
		w := httptest.NewRecorder()
		handler.Me(w, req)

		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})
}

func TestSeed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewPlayerHandler(db)

	// Catalog holds four of the five starters; Time is missing
	for _, name := range []string{"Earth", "Air", "Water", "Fire"} {
		testutil.CreateTestElement(t, db, name, nil)
	}
	testutil.CreateTestElement(t, db, "Steam", nil)

	playerID, token := testutil.CreateTestPlayer(t, db, nil)

	req := testutil.MakeRequest("POST", "/players/seed", nil, testutil.SessionHeaders(token))
	w := httptest.NewRecorder()
	handler.Seed(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.SeedResponse
	testutil.AssertJSON(t, w, &resp)
	if !resp.Seeded {
		t.Error("Expected seeded=true on first seed")
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM unlocked_element WHERE player_id = $1`, playerID).Scan(&count); err != nil {
		t.Fatalf("Failed to count unlocks: %v", err)
	}
	if count != 4 {
		t.Errorf("Expected 4 starter unlocks (missing starter skipped), got %d", count)
	}

	// Second seed is a no-op
	req = testutil.MakeRequest("POST", "/players/seed", nil, testutil.SessionHeaders(token))
	w = httptest.NewRecorder()
	handler.Seed(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &resp)
	if resp.Seeded {
		t.Error("Expected seeded=false when the player already has unlocks")
	}
}

func TestSeedSkippedWithExistingProgress(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewPlayerHandler(db)

	testutil.CreateTestElement(t, db, "Earth", nil)
	steam := testutil.CreateTestElement(t, db, "Steam", nil)

	playerID, token := testutil.CreateTestPlayer(t, db, nil)
	testutil.UnlockTestElement(t, db, playerID, steam)

	req := testutil.MakeRequest("POST", "/players/seed", nil, testutil.SessionHeaders(token))
	w := httptest.NewRecorder()
	handler.Seed(w, req)

	var resp models.SeedResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Seeded {
		t.Error("Expected seeded=false for a player with any unlocks")
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM unlocked_element WHERE player_id = $1`, playerID).Scan(&count); err != nil {
		t.Fatalf("Failed to count unlocks: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected unlocks untouched, got %d", count)
	}
}

func TestClearProgress(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewPlayerHandler(db)

	earth := testutil.CreateTestElement(t, db, "Earth", nil)
	fire := testutil.CreateTestElement(t, db, "Fire", nil)
	steam := testutil.CreateTestElement(t, db, "Steam", nil)
	mud := testutil.CreateTestElement(t, db, "Mud", nil)

	playerID, token := testutil.CreateTestPlayer(t, db, strPtr("alice@example.com"))
	for _, id := range []string{earth, fire, steam, mud} {
		testutil.UnlockTestElement(t, db, playerID, id)
	}

	// Another player's progress must survive
	otherID, _ := testutil.CreateTestPlayer(t, db, nil)
	testutil.UnlockTestElement(t, db, otherID, steam)

	req := testutil.MakeRequest("POST", "/players/clear-progress", nil, testutil.SessionHeaders(token))
	w := httptest.NewRecorder()
	handler.ClearProgress(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	rows, err := db.Query(`SELECT element_id FROM unlocked_element WHERE player_id = $1`, playerID)
	if err != nil {
		t.Fatalf("Failed to query unlocks: %v", err)
	}
	defer rows.Close()

	remaining := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			t.Fatalf("Failed to scan unlock: %v", err)
		}
		remaining[id] = true
	}

	if len(remaining) != 2 || !remaining[earth] || !remaining[fire] {
		t.Errorf("Expected only the starter unlocks to remain, got %v", remaining)
	}

	var otherCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM unlocked_element WHERE player_id = $1`, otherID).Scan(&otherCount); err != nil {
		t.Fatalf("Failed to count other player's unlocks: %v", err)
	}
	if otherCount != 1 {
		t.Error("Expected other player's unlocks to be untouched")
	}
}

func TestLink(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewPlayerHandler(db)

	e1 := testutil.CreateTestElement(t, db, "Earth", nil)
	e2 := testutil.CreateTestElement(t, db, "Fire", nil)
	e3 := testutil.CreateTestElement(t, db, "Steam", nil)

	// The email account holds {e1, e2}, the anonymous one {e2, e3}
	playerID, token := testutil.CreateTestPlayer(t, db, strPtr("alice@example.com"))
	testutil.UnlockTestElement(t, db, playerID, e1)
	testutil.UnlockTestElement(t, db, playerID, e2)

	anonID, _ := testutil.CreateTestPlayer(t, db, nil)
	testutil.UnlockTestElement(t, db, anonID, e2)
	testutil.UnlockTestElement(t, db, anonID, e3)

	req := testutil.MakeRequest("POST", "/players/link",
		models.LinkAccountRequest{AnonymousPlayerID: anonID},
		testutil.SessionHeaders(token))
	w := httptest.NewRecorder()
	handler.Link(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	// The union lands on the email account
	rows, err := db.Query(`SELECT element_id FROM unlocked_element WHERE player_id = $1`, playerID)
	if err != nil {
		t.Fatalf("Failed to query unlocks: %v", err)
	}
	defer rows.Close()

	merged := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			t.Fatalf("Failed to scan unlock: %v", err)
		}
		merged[id] = true
	}
	if len(merged) != 3 || !merged[e1] || !merged[e2] || !merged[e3] {
		t.Errorf("Expected merged unlocks {e1,e2,e3}, got %v", merged)
	}

	// The anonymous account is emptied
	var anonCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM unlocked_element WHERE player_id = $1`, anonID).Scan(&anonCount); err != nil {
		t.Fatalf("Failed to count anonymous unlocks: %v", err)
	}
	if anonCount != 0 {
		t.Errorf("Expected anonymous unlocks cleared, got %d", anonCount)
	}
}

func TestLinkEdgeCases(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewPlayerHandler(db)

	playerID, token := testutil.CreateTestPlayer(t, db, strPtr("alice@example.com"))
	e1 := testutil.CreateTestElement(t, db, "Earth", nil)
	testutil.UnlockTestElement(t, db, playerID, e1)

	t.Run("self link is a no-op", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/players/link",
			models.LinkAccountRequest{AnonymousPlayerID: playerID},
			testutil.SessionHeaders(token))
		w := httptest.NewRecorder()
		handler.Link(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var count int
		if err := db.QueryRow(`SELECT COUNT(*) FROM unlocked_element WHERE player_id = $1`, playerID).Scan(&count); err != nil {
			t.Fatalf("Failed to count unlocks: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected unlocks untouched on self link, got %d", count)
		}
	})

	t.Run("missing anonymous player id", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/players/link",
			models.LinkAccountRequest{},
			testutil.SessionHeaders(token))
		w := httptest.NewRecorder()
		handler.Link(w, req)

		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("unknown anonymous player transfers nothing", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/players/link",
			models.LinkAccountRequest{AnonymousPlayerID: "no-such-player"},
			testutil.SessionHeaders(token))
		w := httptest.NewRecorder()
		handler.Link(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
	})
}

func TestListUnlocked(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewPlayerHandler(db)

	e1 := testutil.CreateTestElement(t, db, "Earth", nil)
	e2 := testutil.CreateTestElement(t, db, "Fire", nil)
	testutil.CreateTestElement(t, db, "Steam", nil)

	playerID, token := testutil.CreateTestPlayer(t, db, nil)
	testutil.UnlockTestElement(t, db, playerID, e1)
	testutil.UnlockTestElement(t, db, playerID, e2)

	req := testutil.MakeRequest("GET", "/players/me/unlocked", nil, testutil.SessionHeaders(token))
	w := httptest.NewRecorder()
	handler.ListUnlocked(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var elements []models.ElementSummary
	testutil.AssertJSON(t, w, &elements)

	if len(elements) != 2 {
		t.Fatalf("Expected 2 unlocked elements, got %d", len(elements))
	}
	for _, el := range elements {
		if el.SVG == "" {
			t.Error("Expected SVG markup in the unlocked listing")
		}
	}
}

func TestListDiscovered(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewPlayerHandler(db)

	playerID, token := testutil.CreateTestPlayer(t, db, strPtr("alice@example.com"))
	otherID, _ := testutil.CreateTestPlayer(t, db, nil)

	testutil.CreateTestElement(t, db, "Earth", nil)
	testutil.CreateTestElement(t, db, "Steam", &playerID)
	testutil.CreateTestElement(t, db, "Mud", &otherID)

	req := testutil.MakeRequest("GET", "/players/me/discovered", nil, testutil.SessionHeaders(token))
	w := httptest.NewRecorder()
	handler.ListDiscovered(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var elements []models.ElementSummary
	testutil.AssertJSON(t, w, &elements)

	if len(elements) != 1 || elements[0].Name != "Steam" {
		t.Errorf("Expected only the player's own discovery, got %+v", elements)
	}
}
