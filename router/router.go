// Copyright (c) 2026 bigblind.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/bigblind/combine/ai"
	"github.com/bigblind/combine/cliparse"
	"github.com/bigblind/combine/handlers"
	"github.com/bigblind/combine/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, aiClient *ai.Client) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	playerHandler := handlers.NewPlayerHandler(db)
	elementHandler := handlers.NewElementHandler(db)
	gameHandler := handlers.NewGameHandler(db, cfg, aiClient)
	adminElementHandler := handlers.NewAdminElementHandler(db, cfg, aiClient)
	adminRecipeHandler := handlers.NewAdminRecipeHandler(db, cfg, aiClient)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Authentication
	mux.HandleFunc("POST /auth/anonymous", middleware.WithLogging(authHandler.Anonymous))
	mux.HandleFunc("POST /auth/login", middleware.WithLogging(authHandler.Login))
	mux.HandleFunc("POST /auth/verify", middleware.WithLogging(authHandler.Verify))

	// Player state
	mux.HandleFunc("GET /players/me", middleware.WithLogging(playerHandler.Me))
	mux.HandleFunc("POST /players/link", middleware.WithLogging(playerHandler.Link))
	mux.HandleFunc("POST /players/seed", middleware.WithLogging(playerHandler.Seed))
	mux.HandleFunc("POST /players/clear-progress", middleware.WithLogging(playerHandler.ClearProgress))
	mux.HandleFunc("GET /players/me/unlocked", middleware.WithLogging(playerHandler.ListUnlocked))
	mux.HandleFunc("GET /players/me/discovered", middleware.WithLogging(playerHandler.ListDiscovered))

	// Public element catalog
	mux.HandleFunc("GET /elements", middleware.WithLogging(elementHandler.List))
	mux.HandleFunc("GET /elements/{id}", middleware.WithLogging(elementHandler.Get))

	// Game
	mux.HandleFunc("POST /combine", middleware.WithLogging(gameHandler.Combine))

	// Element administration
	mux.HandleFunc("POST /admin/elements", middleware.WithLogging(adminElementHandler.Add))
	mux.HandleFunc("GET /admin/elements/{id}", middleware.WithLogging(adminElementHandler.Get))
	mux.HandleFunc("PUT /admin/elements/{id}", middleware.WithLogging(adminElementHandler.Update))
	mux.HandleFunc("DELETE /admin/elements/{id}", middleware.WithLogging(adminElementHandler.Delete))
	mux.HandleFunc("POST /admin/elements/{id}/regenerate-icon", middleware.WithLogging(adminElementHandler.RegenerateIcon))
	mux.HandleFunc("GET /admin/elements/{id}/recipes", middleware.WithLogging(adminRecipeHandler.ForElement))

	// Recipe administration
	mux.HandleFunc("GET /admin/recipes", middleware.WithLogging(adminRecipeHandler.List))
	mux.HandleFunc("POST /admin/recipes", middleware.WithLogging(adminRecipeHandler.Create))
	mux.HandleFunc("GET /admin/recipes/{id}", middleware.WithLogging(adminRecipeHandler.Get))
	mux.HandleFunc("PUT /admin/recipes/{id}", middleware.WithLogging(adminRecipeHandler.Update))
	mux.HandleFunc("DELETE /admin/recipes/{id}", middleware.WithLogging(adminRecipeHandler.Delete))
	mux.HandleFunc("POST /admin/recipes/generate", middleware.WithLogging(adminRecipeHandler.Generate))
	mux.HandleFunc("POST /admin/recipes/suggest", middleware.WithLogging(adminRecipeHandler.Suggest))
	mux.HandleFunc("POST /admin/recipes/accept", middleware.WithLogging(adminRecipeHandler.Accept))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("combine API v1"))
	})

	return mux
}
