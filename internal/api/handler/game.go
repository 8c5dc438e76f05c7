package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/mcoot/webgame/internal/api/request"
	"github.com/mcoot/webgame/internal/api/response"
	"github.com/mcoot/webgame/internal/model"
	"github.com/mcoot/webgame/internal/services/game"
	"github.com/mcoot/webgame/internal/validation"
)

// GameHandler handles game endpoints
type GameHandler struct {
	games     *game.Controller
	validator *validation.Validator
	links     *Links
}

// NewGameHandler creates a new game handler
func NewGameHandler(games *game.Controller, validator *validation.Validator, links *Links) *GameHandler {
	return &GameHandler{
		games:     games,
		validator: validator,
		links:     links,
	}
}

// Create handles POST /api/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	g, err := h.games.CreateGame(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, h.links.Game(r, g.ID), response.GameFromModel(g))
}

// Get handles GET /api/games/{gameId}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := request.PathUUID(r, "gameId")
	if !ok {
		WriteError(w, model.ErrGameNotFound)
		return
	}

	g, err := h.games.GetGame(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// AddPlayer handles POST /api/games/{gameId}/players
func (h *GameHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := request.PathUUID(r, "gameId")
	if !ok {
		WriteError(w, model.ErrGameNotFound)
		return
	}

	var req request.AddPlayerRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		WriteError(w, NewInvalidRequestError("userId must be a uuid"))
		return
	}

	g, err := h.games.AddPlayer(r.Context(), id, userID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Start handles POST /api/games/{gameId}/start
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.games.StartGame)
}

// Finish handles POST /api/games/{gameId}/finish
func (h *GameHandler) Finish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.games.FinishGame)
}

// Delete handles DELETE /api/games/{gameId}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := request.PathUUID(r, "gameId")
	if !ok {
		WriteError(w, model.ErrGameNotFound)
		return
	}

	if err := h.games.DeleteGame(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

func (h *GameHandler) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, model.GameID) (*model.Game, error)) {
	id, ok := request.PathUUID(r, "gameId")
	if !ok {
		WriteError(w, model.ErrGameNotFound)
		return
	}

	g, err := fn(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}
