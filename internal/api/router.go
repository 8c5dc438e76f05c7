package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/webgame/internal/api/handler"
	"github.com/mcoot/webgame/internal/api/middleware"
	"github.com/mcoot/webgame/internal/dependencies/clock"
	"github.com/mcoot/webgame/internal/services/game"
	"github.com/mcoot/webgame/internal/services/user"
	"github.com/mcoot/webgame/internal/validation"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	Clock          clock.Clock
	Validator      *validation.Validator
	UserService    *user.Service
	GameController *game.Controller
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handler.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(handler.MethodNotAllowed)

	// Create handlers
	links := handler.NewLinks(r)
	userHandler := handler.NewUserHandler(cfg.UserService, links, cfg.Logger)
	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.Validator, links)
	healthHandler := handler.NewHealthHandler(cfg.Clock)

	// API subrouter with common middleware
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// User routes
	users := api.PathPrefix("/users").Subrouter()
	users.HandleFunc("", userHandler.Options).Methods(http.MethodOptions)
	users.HandleFunc("", userHandler.List).Methods(http.MethodGet).Name(handler.RouteGetUsers)
	users.HandleFunc("", userHandler.Create).Methods(http.MethodPost)
	users.HandleFunc("/{userId}", userHandler.Get).Methods(http.MethodGet, http.MethodHead).Name(handler.RouteGetUserByID)
	users.HandleFunc("/{userId}", userHandler.Put).Methods(http.MethodPut)
	users.HandleFunc("/{userId}", userHandler.Patch).Methods(http.MethodPatch)
	users.HandleFunc("/{userId}", userHandler.Delete).Methods(http.MethodDelete)

	// Game routes
	games := api.PathPrefix("/games").Subrouter()
	games.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("/{gameId}", gameHandler.Get).Methods(http.MethodGet).Name(handler.RouteGetGame)
	games.HandleFunc("/{gameId}", gameHandler.Delete).Methods(http.MethodDelete)
	games.HandleFunc("/{gameId}/players", gameHandler.AddPlayer).Methods(http.MethodPost)
	games.HandleFunc("/{gameId}/start", gameHandler.Start).Methods(http.MethodPost)
	games.HandleFunc("/{gameId}/finish", gameHandler.Finish).Methods(http.MethodPost)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler.Get).Methods(http.MethodGet)

	return r
}
