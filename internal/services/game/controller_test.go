package game

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/webgame/internal/dependencies/mocks"
	"github.com/mcoot/webgame/internal/model"
	"github.com/mcoot/webgame/internal/storage"
	"github.com/mcoot/webgame/internal/storage/memory"
	"github.com/mcoot/webgame/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	random     *mocks.MockRandom
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.random = mocks.NewMockRandom()
	s.controller = NewController(s.storage, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ControllerSuite) createUser(login string) *model.User {
	user, err := s.storage.InsertUser(s.ctx, &model.User{Login: login})
	s.Require().NoError(err)
	return user
}

func (s *ControllerSuite) getUser(id model.UserID) *model.User {
	user, err := s.storage.FindUserByID(s.ctx, id)
	s.Require().NoError(err)
	return user
}

var errWriteFailed = errors.New("write failed")

// failingStorage fails writes for selected users and games. The first
// userWritesBeforeFailure writes to a failing user still go through.
type failingStorage struct {
	storage.Storage
	userWrites              map[model.UserID]error
	gameWrites              map[model.GameID]error
	userWritesBeforeFailure int
}

func (f *failingStorage) UpdateUser(ctx context.Context, user *model.User) error {
	if err := f.userWrites[user.ID]; err != nil {
		if f.userWritesBeforeFailure == 0 {
			return err
		}
		f.userWritesBeforeFailure--
	}
	return f.Storage.UpdateUser(ctx, user)
}

func (f *failingStorage) UpdateGame(ctx context.Context, game *model.Game) error {
	if err := f.gameWrites[game.ID]; err != nil {
		return err
	}
	return f.Storage.UpdateGame(ctx, game)
}

// withFailingStorage swaps in a controller whose writes can be made to fail
// and returns the storage wrapper and captured logs
func (s *ControllerSuite) withFailingStorage() (*failingStorage, *testutil.LogCapture) {
	failing := &failingStorage{
		Storage:    s.storage,
		userWrites: map[model.UserID]error{},
		gameWrites: map[model.GameID]error{},
	}
	logger, logs := testutil.CaptureLogger()
	s.controller = NewController(failing, s.random, logger)
	return failing, logs
}

// errorLogs returns captured error-level entries with the given message
func errorLogs(logs *testutil.LogCapture, msg string) []map[string]any {
	var found []map[string]any
	for _, entry := range logs.Entries() {
		if entry["level"] == "ERROR" && entry["msg"] == msg {
			found = append(found, entry)
		}
	}
	return found
}

// playingGame creates a started game with the given users seated
func (s *ControllerSuite) playingGame(users ...*model.User) *model.Game {
	game, err := s.controller.CreateGame(s.ctx)
	s.Require().NoError(err)
	for _, u := range users {
		_, err := s.controller.AddPlayer(s.ctx, game.ID, u.ID)
		s.Require().NoError(err)
	}
	game, err = s.controller.StartGame(s.ctx, game.ID)
	s.Require().NoError(err)
	return game
}

// CreateGame tests

func (s *ControllerSuite) TestCreateGameSucceeds() {
	id := uuid.New()
	s.random.QueueUUID(id)

	game, err := s.controller.CreateGame(s.ctx)
	s.Require().NoError(err)

	s.Equal(id, game.ID)
	s.Equal(model.GameStatusNotStarted, game.Status)
	s.Equal(0, game.CurrentTurnIndex)
	s.Nil(game.Players)

	stored, err := s.controller.GetGame(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(game, stored)
}

func (s *ControllerSuite) TestGetGameNotFound() {
	_, err := s.controller.GetGame(s.ctx, uuid.New())
	s.ErrorIs(err, model.ErrGameNotFound)
}

// AddPlayer tests

func (s *ControllerSuite) TestAddPlayerSnapshotsLogin() {
	alice := s.createUser("alice")
	game, err := s.controller.CreateGame(s.ctx)
	s.Require().NoError(err)

	game, err = s.controller.AddPlayer(s.ctx, game.ID, alice.ID)
	s.Require().NoError(err)

	s.Require().Len(game.Players, 1)
	s.Equal(model.Player{UserID: alice.ID, Name: "alice"}, game.Players[0])
	s.Equal(&game.ID, s.getUser(alice.ID).CurrentGameID)
}

func (s *ControllerSuite) TestAddPlayerKeepsJoinOrder() {
	alice, bob := s.createUser("alice"), s.createUser("bob")
	game, err := s.controller.CreateGame(s.ctx)
	s.Require().NoError(err)

	_, err = s.controller.AddPlayer(s.ctx, game.ID, bob.ID)
	s.Require().NoError(err)
	game, err = s.controller.AddPlayer(s.ctx, game.ID, alice.ID)
	s.Require().NoError(err)

	s.Equal(0, game.FindPlayer(bob.ID))
	s.Equal(1, game.FindPlayer(alice.ID))
}

func (s *ControllerSuite) TestAddPlayerTwiceFails() {
	alice := s.createUser("alice")
	game, err := s.controller.CreateGame(s.ctx)
	s.Require().NoError(err)
	_, err = s.controller.AddPlayer(s.ctx, game.ID, alice.ID)
	s.Require().NoError(err)

	_, err = s.controller.AddPlayer(s.ctx, game.ID, alice.ID)
	s.ErrorIs(err, model.ErrAlreadyInGame)
}

func (s *ControllerSuite) TestAddPlayerInAnotherGameFails() {
	alice := s.createUser("alice")
	first, err := s.controller.CreateGame(s.ctx)
	s.Require().NoError(err)
	second, err := s.controller.CreateGame(s.ctx)
	s.Require().NoError(err)
	_, err = s.controller.AddPlayer(s.ctx, first.ID, alice.ID)
	s.Require().NoError(err)

	_, err = s.controller.AddPlayer(s.ctx, second.ID, alice.ID)
	s.ErrorIs(err, model.ErrAlreadyInGame)
}

func (s *ControllerSuite) TestAddPlayerToStartedGameFails() {
	game := s.playingGame(s.createUser("alice"), s.createUser("bob"))

	_, err := s.controller.AddPlayer(s.ctx, game.ID, s.createUser("carol").ID)
	s.ErrorIs(err, model.ErrGameNotJoinable)
}

func (s *ControllerSuite) TestAddPlayerUnknownUser() {
	game, err := s.controller.CreateGame(s.ctx)
	s.Require().NoError(err)

	_, err = s.controller.AddPlayer(s.ctx, game.ID, uuid.New())
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *ControllerSuite) TestAddPlayerReleasesUserWhenSeatingFails() {
	alice := s.createUser("alice")
	game, err := s.controller.CreateGame(s.ctx)
	s.Require().NoError(err)
	failing, _ := s.withFailingStorage()
	failing.gameWrites[game.ID] = errWriteFailed

	_, err = s.controller.AddPlayer(s.ctx, game.ID, alice.ID)
	s.ErrorIs(err, errWriteFailed)

	s.Nil(s.getUser(alice.ID).CurrentGameID)
	stored, err := s.storage.FindGameByID(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Empty(stored.Players)

	// The user is free to join once writes succeed again
	delete(failing.gameWrites, game.ID)
	game, err = s.controller.AddPlayer(s.ctx, game.ID, alice.ID)
	s.Require().NoError(err)
	s.Equal(0, game.FindPlayer(alice.ID))
}

func (s *ControllerSuite) TestAddPlayerClaimWriteFailsLeavesGameUntouched() {
	alice := s.createUser("alice")
	game, err := s.controller.CreateGame(s.ctx)
	s.Require().NoError(err)
	failing, _ := s.withFailingStorage()
	failing.userWrites[alice.ID] = errWriteFailed

	_, err = s.controller.AddPlayer(s.ctx, game.ID, alice.ID)
	s.ErrorIs(err, errWriteFailed)

	stored, err := s.storage.FindGameByID(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Empty(stored.Players)
	s.Nil(s.getUser(alice.ID).CurrentGameID)
}

func (s *ControllerSuite) TestAddPlayerLogsUnreleasedClaim() {
	alice := s.createUser("alice")
	game, err := s.controller.CreateGame(s.ctx)
	s.Require().NoError(err)
	failing, logs := s.withFailingStorage()
	failing.gameWrites[game.ID] = errWriteFailed
	failing.userWrites[alice.ID] = errWriteFailed
	failing.userWritesBeforeFailure = 1

	_, err = s.controller.AddPlayer(s.ctx, game.ID, alice.ID)
	s.ErrorIs(err, errWriteFailed)

	s.Equal(&game.ID, s.getUser(alice.ID).CurrentGameID)
	entries := errorLogs(logs, "failed to release user after seating failed")
	s.Require().Len(entries, 1)
	s.Equal(game.ID.String(), entries[0]["game_id"])
	s.Equal(alice.ID.String(), entries[0]["user_id"])
}

func (s *ControllerSuite) TestAddPlayerSeatsUserClaimedForSameGame() {
	alice := s.createUser("alice")
	game, err := s.controller.CreateGame(s.ctx)
	s.Require().NoError(err)
	alice.CurrentGameID = &game.ID
	s.Require().NoError(s.storage.UpdateUser(s.ctx, alice))

	game, err = s.controller.AddPlayer(s.ctx, game.ID, alice.ID)
	s.Require().NoError(err)
	s.Equal(0, game.FindPlayer(alice.ID))
	s.Equal(&game.ID, s.getUser(alice.ID).CurrentGameID)

	other, err := s.controller.CreateGame(s.ctx)
	s.Require().NoError(err)
	_, err = s.controller.AddPlayer(s.ctx, other.ID, alice.ID)
	s.ErrorIs(err, model.ErrAlreadyInGame)
}

// StartGame tests

func (s *ControllerSuite) TestStartGameNeedsTwoPlayers() {
	game, err := s.controller.CreateGame(s.ctx)
	s.Require().NoError(err)
	_, err = s.controller.AddPlayer(s.ctx, game.ID, s.createUser("alice").ID)
	s.Require().NoError(err)

	_, err = s.controller.StartGame(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrNotEnoughPlayers)
}

func (s *ControllerSuite) TestStartGameSucceeds() {
	game := s.playingGame(s.createUser("alice"), s.createUser("bob"))

	s.Equal(model.GameStatusPlaying, game.Status)
	s.Equal(0, game.CurrentTurnIndex)
}

func (s *ControllerSuite) TestStartGameTwiceFails() {
	game := s.playingGame(s.createUser("alice"), s.createUser("bob"))

	_, err := s.controller.StartGame(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrInvalidGameStatus)
}

// FinishGame tests

func (s *ControllerSuite) TestFinishGameReleasesPlayers() {
	alice, bob := s.createUser("alice"), s.createUser("bob")
	game := s.playingGame(alice, bob)

	game, err := s.controller.FinishGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStatusFinished, game.Status)

	for _, id := range []model.UserID{alice.ID, bob.ID} {
		user := s.getUser(id)
		s.Equal(1, user.GamesPlayed)
		s.Nil(user.CurrentGameID)
	}
}

func (s *ControllerSuite) TestFinishGameNotPlaying() {
	game, err := s.controller.CreateGame(s.ctx)
	s.Require().NoError(err)

	_, err = s.controller.FinishGame(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrInvalidGameStatus)
}

func (s *ControllerSuite) TestFinishGameSkipsDeletedUsers() {
	alice, bob := s.createUser("alice"), s.createUser("bob")
	game := s.playingGame(alice, bob)
	s.Require().NoError(s.storage.DeleteUser(s.ctx, bob.ID))

	_, err := s.controller.FinishGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(1, s.getUser(alice.ID).GamesPlayed)
}

func (s *ControllerSuite) TestFinishGameRetrySettlesRemainingPlayers() {
	alice, bob, carol := s.createUser("alice"), s.createUser("bob"), s.createUser("carol")
	game := s.playingGame(alice, bob, carol)
	failing, logs := s.withFailingStorage()
	failing.userWrites[bob.ID] = errWriteFailed

	_, err := s.controller.FinishGame(s.ctx, game.ID)
	s.ErrorIs(err, errWriteFailed)

	stored, err := s.controller.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStatusPlaying, stored.Status)
	for _, id := range []model.UserID{alice.ID, carol.ID} {
		user := s.getUser(id)
		s.Equal(1, user.GamesPlayed)
		s.Nil(user.CurrentGameID)
	}
	s.Equal(0, s.getUser(bob.ID).GamesPlayed)
	entries := errorLogs(logs, "failed to update participant")
	s.Require().Len(entries, 1)
	s.Equal(bob.ID.String(), entries[0]["user_id"])
	s.Equal(game.ID.String(), entries[0]["game_id"])

	delete(failing.userWrites, bob.ID)
	game, err = s.controller.FinishGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStatusFinished, game.Status)
	for _, id := range []model.UserID{alice.ID, bob.ID, carol.ID} {
		user := s.getUser(id)
		s.Equal(1, user.GamesPlayed)
		s.Nil(user.CurrentGameID)
	}
}

func (s *ControllerSuite) TestFinishGameRetryAfterStatusWriteFails() {
	alice, bob := s.createUser("alice"), s.createUser("bob")
	game := s.playingGame(alice, bob)
	failing, logs := s.withFailingStorage()
	failing.gameWrites[game.ID] = errWriteFailed

	_, err := s.controller.FinishGame(s.ctx, game.ID)
	s.ErrorIs(err, errWriteFailed)
	s.Len(errorLogs(logs, "failed to mark game finished"), 1)

	delete(failing.gameWrites, game.ID)
	_, err = s.controller.FinishGame(s.ctx, game.ID)
	s.Require().NoError(err)
	for _, id := range []model.UserID{alice.ID, bob.ID} {
		s.Equal(1, s.getUser(id).GamesPlayed)
	}
}

func (s *ControllerSuite) TestFinishGameReportsEveryFailedPlayer() {
	alice, bob := s.createUser("alice"), s.createUser("bob")
	game := s.playingGame(alice, bob)
	failing, logs := s.withFailingStorage()
	errAlice, errBob := errors.New("alice write failed"), errors.New("bob write failed")
	failing.userWrites[alice.ID] = errAlice
	failing.userWrites[bob.ID] = errBob

	_, err := s.controller.FinishGame(s.ctx, game.ID)
	s.ErrorIs(err, errAlice)
	s.ErrorIs(err, errBob)
	s.Len(errorLogs(logs, "failed to update participant"), 2)
}

// DeleteGame tests

func (s *ControllerSuite) TestDeleteGameKeptWhenReleaseFails() {
	alice, bob := s.createUser("alice"), s.createUser("bob")
	game := s.playingGame(alice, bob)
	failing, _ := s.withFailingStorage()
	failing.userWrites[alice.ID] = errWriteFailed

	s.ErrorIs(s.controller.DeleteGame(s.ctx, game.ID), errWriteFailed)

	_, err := s.controller.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Nil(s.getUser(bob.ID).CurrentGameID)

	delete(failing.userWrites, alice.ID)
	s.Require().NoError(s.controller.DeleteGame(s.ctx, game.ID))
	s.Nil(s.getUser(alice.ID).CurrentGameID)
	_, err = s.controller.GetGame(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ControllerSuite) TestDeleteGameReleasesPlayers() {
	alice := s.createUser("alice")
	game, err := s.controller.CreateGame(s.ctx)
	s.Require().NoError(err)
	_, err = s.controller.AddPlayer(s.ctx, game.ID, alice.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.controller.DeleteGame(s.ctx, game.ID))

	_, err = s.controller.GetGame(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrGameNotFound)
	user := s.getUser(alice.ID)
	s.Nil(user.CurrentGameID)
	s.Equal(0, user.GamesPlayed)
}

func (s *ControllerSuite) TestDeleteGameNotFound() {
	s.ErrorIs(s.controller.DeleteGame(s.ctx, uuid.New()), model.ErrGameNotFound)
}
