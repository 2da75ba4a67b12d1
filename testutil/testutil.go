// Copyright (c) 2026 bigblind.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/bigblind/combine/auth"
	"github.com/bigblind/combine/cliparse"
	"github.com/bigblind/combine/db"
)

// SetupTestDB creates a fresh in-memory database with the full schema.
// Each call gets its own database, named by a fresh UUID so parallel
// tests never share state. The connection pool is pinned to a single
// connection because an in-memory sqlite database lives and dies with
// its connections.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:                3320,
		DatabaseURL:         ":memory:",
		DatabaseType:        "sqlite",
		LoginTokenSalt:      "test-login-salt",
		OpenRouterAPIKey:    "test-api-key",
		TextModel:           cliparse.DefaultTextModel,
		IconModel:           cliparse.DefaultIconModel,
		AdminEmails:         []string{"admin@example.com"},
		DailyDiscoveryLimit: 20,
	}
}

// CreateTestPlayer creates a player with a session and returns the
// player ID and session token. email is nil for an anonymous player.
func CreateTestPlayer(t *testing.T, conn *sql.DB, email *string) (playerID, token string) {
	t.Helper()

	playerID = uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO player (id, email, created_at)
		VALUES ($1, $2, $3)
	`, playerID, email, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test player: %v", err)
	}

	token, err = auth.GenerateSessionToken()
	if err != nil {
		t.Fatalf("Failed to generate session token: %v", err)
	}
	_, err = conn.Exec(`
		INSERT INTO session (token, player_id, created_at)
		VALUES ($1, $2, $3)
	`, token, playerID, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	return playerID, token
}

// MakeAdmin grants the admin flag to a player
func MakeAdmin(t *testing.T, conn *sql.DB, playerID string) {
	t.Helper()

	_, err := conn.Exec(`INSERT INTO admin_user (player_id) VALUES ($1)`, playerID)
	if err != nil {
		t.Fatalf("Failed to make player admin: %v", err)
	}
}

// CreateTestElement inserts an element and returns its ID.
// discoveredBy is nil for a curated element.
func CreateTestElement(t *testing.T, conn *sql.DB, name string, discoveredBy *string) string {
	t.Helper()

	elementID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO element (id, name, svg, discovered_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, elementID, name, "<svg>"+name+"</svg>", discoveredBy, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test element: %v", err)
	}

	return elementID
}

// CreateTestRecipe inserts a recipe and returns its ID
func CreateTestRecipe(t *testing.T, conn *sql.DB, ingredient1, ingredient2, result string) string {
	t.Helper()

	a, b := ingredient1, ingredient2
	if b < a {
		a, b = b, a
	}

	recipeID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO recipe (id, ingredient1, ingredient2, result, pair_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, recipeID, ingredient1, ingredient2, result, a+":"+b, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test recipe: %v", err)
	}

	return recipeID
}

// UnlockTestElement grants an element to a player
func UnlockTestElement(t *testing.T, conn *sql.DB, playerID, elementID string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO unlocked_element (player_id, element_id, unlocked_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (player_id, element_id) DO NOTHING
	`, playerID, elementID, time.Now())
	if err != nil {
		t.Fatalf("Failed to unlock test element: %v", err)
	}
}

// ScriptedAI starts a fake AI gateway that answers each chat request
// with the next scripted message content, in order. Requests past the
// end of the script fail the test. The server is shut down when the
// test finishes.
func ScriptedAI(t *testing.T, responses ...string) *httptest.Server {
	t.Helper()

	var mu sync.Mutex
	next := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		if next >= len(responses) {
			t.Errorf("Unexpected AI request #%d, only %d responses scripted", next+1, len(responses))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		content := responses[next]
		next++

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		})
	}))
	t.Cleanup(server.Close)

	return server
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// SessionHeaders returns the header map for an authenticated request
func SessionHeaders(token string) map[string]string {
	return map[string]string{"X-Session-Token": token}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
