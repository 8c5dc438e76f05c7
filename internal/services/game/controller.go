package game

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/webgame/internal/dependencies/random"
	"github.com/mcoot/webgame/internal/model"
	"github.com/mcoot/webgame/internal/storage"
)

// MinPlayers is the number of players needed to start a game
const MinPlayers = 2

// Controller manages the game lifecycle and keeps users' current game in sync.
// Turn resolution is left to clients.
type Controller struct {
	storage storage.Storage
	random  random.Random
	logger  *slog.Logger
}

// NewController creates a new GameController
func NewController(storage storage.Storage, random random.Random, logger *slog.Logger) *Controller {
	return &Controller{
		storage: storage,
		random:  random,
		logger:  logger,
	}
}

// CreateGame stores a new game with no players
func (c *Controller) CreateGame(ctx context.Context) (*model.Game, error) {
	game, err := c.storage.InsertGame(ctx, model.NewGame(c.random.UUID()))
	if err != nil {
		c.logger.Error("failed to save game", slog.String("error", err.Error()))
		return nil, err
	}

	c.logger.Info("game created", slog.String("game_id", game.ID.String()))
	return game, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.FindGameByID(ctx, gameID)
}

// AddPlayer seats a user in a game that has not started yet.
//
// The user is claimed for the game before the seat is written, and the claim
// is released again if seating fails. A user left claimed but unseated by an
// earlier failure can be added to the same game again.
func (c *Controller) AddPlayer(ctx context.Context, gameID model.GameID, userID model.UserID) (*model.Game, error) {
	game, err := c.storage.FindGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Status != model.GameStatusNotStarted {
		return nil, model.ErrGameNotJoinable
	}

	user, err := c.storage.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if game.FindPlayer(userID) >= 0 {
		return nil, model.ErrAlreadyInGame
	}

	claimed := false
	switch {
	case user.CurrentGameID == nil:
		user.CurrentGameID = &game.ID
		if err := c.storage.UpdateUser(ctx, user); err != nil {
			return nil, err
		}
		claimed = true
	case *user.CurrentGameID != game.ID:
		return nil, model.ErrAlreadyInGame
	}

	game.Players = append(game.Players, model.NewPlayer(user.ID, user.Login))
	if err := c.storage.UpdateGame(ctx, game); err != nil {
		if claimed {
			c.releaseClaim(ctx, game.ID, user)
		}
		return nil, err
	}

	c.logger.Info("player joined game",
		slog.String("game_id", game.ID.String()),
		slog.String("user_id", user.ID.String()),
		slog.Int("player_count", len(game.Players)),
	)
	return game, nil
}

// StartGame moves a game from NotStarted to Playing
func (c *Controller) StartGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	game, err := c.storage.FindGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Status != model.GameStatusNotStarted {
		return nil, model.ErrInvalidGameStatus
	}
	if len(game.Players) < MinPlayers {
		return nil, model.ErrNotEnoughPlayers
	}

	game.Status = model.GameStatusPlaying
	game.CurrentTurnIndex = 0
	if err := c.storage.UpdateGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("game started",
		slog.String("game_id", game.ID.String()),
		slog.Int("player_count", len(game.Players)),
	)
	return game, nil
}

// FinishGame ends a game in progress, counts it for every participant and
// releases them from it.
//
// Participants are settled before the game is marked finished. If any of them
// cannot be written the game stays in progress and the joined errors are
// returned; calling FinishGame again settles only the participants still
// holding the game, so nobody is counted twice.
func (c *Controller) FinishGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	game, err := c.storage.FindGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Status != model.GameStatusPlaying {
		return nil, model.ErrInvalidGameStatus
	}

	err = c.settleParticipants(ctx, game, func(u *model.User) {
		u.GamesPlayed++
	})
	if err != nil {
		return nil, err
	}

	game.Status = model.GameStatusFinished
	if err := c.storage.UpdateGame(ctx, game); err != nil {
		c.logger.Error("failed to mark game finished",
			slog.String("game_id", game.ID.String()),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("game finished", slog.String("game_id", game.ID.String()))
	return game, nil
}

// DeleteGame releases a game's players and removes it. The game is kept when
// any player cannot be released so the call can be retried.
func (c *Controller) DeleteGame(ctx context.Context, gameID model.GameID) error {
	game, err := c.storage.FindGameByID(ctx, gameID)
	if err != nil {
		return err
	}

	if err := c.settleParticipants(ctx, game, nil); err != nil {
		return err
	}

	if err := c.storage.DeleteGame(ctx, gameID); err != nil {
		return err
	}

	c.logger.Info("game deleted", slog.String("game_id", gameID.String()))
	return nil
}

// settleParticipants releases every player still holding the game, applying
// fn to each. Every player is attempted; failures are logged and joined.
func (c *Controller) settleParticipants(ctx context.Context, game *model.Game, fn func(*model.User)) error {
	var errs []error
	for _, player := range game.Players {
		if err := c.releaseParticipant(ctx, game.ID, player.UserID, fn); err != nil {
			c.logger.Error("failed to update participant",
				slog.String("game_id", game.ID.String()),
				slog.String("user_id", player.UserID.String()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// releaseParticipant clears the user's current game and applies fn. Users
// deleted since joining, or no longer holding this game, are left alone.
func (c *Controller) releaseParticipant(ctx context.Context, gameID model.GameID, userID model.UserID, fn func(*model.User)) error {
	user, err := c.storage.FindUserByID(ctx, userID)
	if errors.Is(err, model.ErrUserNotFound) {
		c.logger.Warn("participant no longer exists",
			slog.String("game_id", gameID.String()),
			slog.String("user_id", userID.String()),
		)
		return nil
	}
	if err != nil {
		return err
	}
	if user.CurrentGameID == nil || *user.CurrentGameID != gameID {
		return nil
	}

	user.CurrentGameID = nil
	if fn != nil {
		fn(user)
	}
	return c.storage.UpdateUser(ctx, user)
}

// releaseClaim undoes AddPlayer's claim on a user whose seat was not written
func (c *Controller) releaseClaim(ctx context.Context, gameID model.GameID, user *model.User) {
	user.CurrentGameID = nil
	if err := c.storage.UpdateUser(ctx, user); err != nil {
		c.logger.Error("failed to release user after seating failed",
			slog.String("game_id", gameID.String()),
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}
