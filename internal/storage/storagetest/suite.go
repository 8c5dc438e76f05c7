// Package storagetest holds behavioural tests shared by every storage backend.
package storagetest

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/webgame/internal/model"
	"github.com/mcoot/webgame/internal/storage"
)

// Suite runs the storage contract against a backend. Embed it in a backend
// test suite and set Storage in SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

// MustInsertUser stores a user with the given login and fails the test on error
func (s *Suite) MustInsertUser(login string) *model.User {
	user, err := s.Storage.InsertUser(s.Ctx, &model.User{Login: login, FirstName: "F", LastName: "L"})
	s.Require().NoError(err)
	return user
}

// User tests

func (s *Suite) TestInsertUserAssignsID() {
	user := s.MustInsertUser("alice")
	s.NotEqual(uuid.Nil, user.ID)

	found, err := s.Storage.FindUserByID(s.Ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(user, found)
}

func (s *Suite) TestInsertUserKeepsGivenID() {
	id := uuid.New()
	user, err := s.Storage.InsertUser(s.Ctx, &model.User{ID: id, Login: "bob"})
	s.Require().NoError(err)
	s.Equal(id, user.ID)
}

func (s *Suite) TestInsertUserDuplicateIDFails() {
	user := s.MustInsertUser("alice")

	_, err := s.Storage.InsertUser(s.Ctx, &model.User{ID: user.ID, Login: "mallory"})
	s.ErrorIs(err, model.ErrUserAlreadyExists)

	found, err := s.Storage.FindUserByID(s.Ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(user, found)

	page, err := s.Storage.GetUserPage(s.Ctx, 1, 10)
	s.Require().NoError(err)
	s.Equal(1, page.TotalCount)
}

func (s *Suite) TestFindUserNotFound() {
	_, err := s.Storage.FindUserByID(s.Ctx, uuid.New())
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestFoundUserIsACopy() {
	user := s.MustInsertUser("alice")

	found, err := s.Storage.FindUserByID(s.Ctx, user.ID)
	s.Require().NoError(err)
	found.Login = "mallory"

	again, err := s.Storage.FindUserByID(s.Ctx, user.ID)
	s.Require().NoError(err)
	s.Equal("alice", again.Login)
}

func (s *Suite) TestUpdateUser() {
	user := s.MustInsertUser("alice")
	gameID := uuid.New()
	user.Login = "alice2"
	user.GamesPlayed = 3
	user.CurrentGameID = &gameID

	s.Require().NoError(s.Storage.UpdateUser(s.Ctx, user))

	found, err := s.Storage.FindUserByID(s.Ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(user, found)
}

func (s *Suite) TestUpdateUserNotFound() {
	err := s.Storage.UpdateUser(s.Ctx, &model.User{ID: uuid.New(), Login: "ghost"})
	s.ErrorIs(err, model.ErrUserNotFound)

	page, err := s.Storage.GetUserPage(s.Ctx, 1, 10)
	s.Require().NoError(err)
	s.Equal(0, page.TotalCount)
}

func (s *Suite) TestUpsertUserInsertsThenUpdates() {
	user := &model.User{ID: uuid.New(), Login: "carol"}

	inserted, err := s.Storage.UpsertUser(s.Ctx, user)
	s.Require().NoError(err)
	s.True(inserted)

	user.FirstName = "Carol"
	inserted, err = s.Storage.UpsertUser(s.Ctx, user)
	s.Require().NoError(err)
	s.False(inserted)

	found, err := s.Storage.FindUserByID(s.Ctx, user.ID)
	s.Require().NoError(err)
	s.Equal("Carol", found.FirstName)

	page, err := s.Storage.GetUserPage(s.Ctx, 1, 10)
	s.Require().NoError(err)
	s.Equal(1, page.TotalCount)
}

func (s *Suite) TestDeleteUser() {
	user := s.MustInsertUser("alice")

	s.Require().NoError(s.Storage.DeleteUser(s.Ctx, user.ID))

	_, err := s.Storage.FindUserByID(s.Ctx, user.ID)
	s.ErrorIs(err, model.ErrUserNotFound)

	page, err := s.Storage.GetUserPage(s.Ctx, 1, 10)
	s.Require().NoError(err)
	s.Equal(0, page.TotalCount)
}

func (s *Suite) TestDeleteMissingUserLeavesStorageUntouched() {
	user := s.MustInsertUser("alice")

	err := s.Storage.DeleteUser(s.Ctx, uuid.New())
	s.ErrorIs(err, model.ErrUserNotFound)

	found, err := s.Storage.FindUserByID(s.Ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(user, found)
}

// Pagination tests

func (s *Suite) TestGetUserPageFirstOfMany() {
	for i := 0; i < 42; i++ {
		s.MustInsertUser(fmt.Sprintf("user%02d", i))
	}

	page, err := s.Storage.GetUserPage(s.Ctx, 1, 10)
	s.Require().NoError(err)

	s.Len(page.Items, 10)
	s.False(page.HasPrevious())
	s.True(page.HasNext())
	s.Equal(42, page.TotalCount)
	s.Equal(5, page.TotalPages)
	s.Equal(1, page.CurrentPage)
	s.Equal(10, page.PageSize)
	s.Equal("user00", page.Items[0].Login)
	s.Equal("user09", page.Items[9].Login)
}

func (s *Suite) TestGetUserPageLastPartialPage() {
	for i := 0; i < 42; i++ {
		s.MustInsertUser(fmt.Sprintf("user%02d", i))
	}

	page, err := s.Storage.GetUserPage(s.Ctx, 5, 10)
	s.Require().NoError(err)

	s.Len(page.Items, 2)
	s.True(page.HasPrevious())
	s.False(page.HasNext())
	s.Equal("user40", page.Items[0].Login)
}

func (s *Suite) TestGetUserPageBeyondEnd() {
	s.MustInsertUser("alice")

	page, err := s.Storage.GetUserPage(s.Ctx, 3, 10)
	s.Require().NoError(err)
	s.Empty(page.Items)
	s.Equal(1, page.TotalCount)
	s.Equal(1, page.TotalPages)
}

func (s *Suite) TestGetUserPageFarPastEnd() {
	for _, login := range []string{"alice", "bob", "carol"} {
		s.MustInsertUser(login)
	}

	for _, size := range []int{1, 10, 20} {
		page, err := s.Storage.GetUserPage(s.Ctx, math.MaxInt, size)
		s.Require().NoError(err)
		s.NotNil(page.Items)
		s.Empty(page.Items)
		s.Equal(3, page.TotalCount)
		s.Equal(math.MaxInt, page.CurrentPage)
		s.False(page.HasNext())
	}
}

func (s *Suite) TestGetUserPageOrdersByLogin() {
	s.MustInsertUser("charlie")
	s.MustInsertUser("alice")
	bob := s.MustInsertUser("bob")

	bob.Login = "zed"
	s.Require().NoError(s.Storage.UpdateUser(s.Ctx, bob))

	page, err := s.Storage.GetUserPage(s.Ctx, 1, 10)
	s.Require().NoError(err)
	s.Require().Len(page.Items, 3)
	s.Equal([]string{"alice", "charlie", "zed"}, []string{page.Items[0].Login, page.Items[1].Login, page.Items[2].Login})
}

func (s *Suite) TestGetUserPageRejectsInvalidRequest() {
	_, err := s.Storage.GetUserPage(s.Ctx, 0, 10)
	s.Error(err)
	_, err = s.Storage.GetUserPage(s.Ctx, 1, 0)
	s.Error(err)
}

// Game tests

func (s *Suite) TestInsertAndFindGame() {
	game, err := s.Storage.InsertGame(s.Ctx, model.NewGame(uuid.Nil))
	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, game.ID)

	found, err := s.Storage.FindGameByID(s.Ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(game, found)
	s.Nil(found.Players)
}

func (s *Suite) TestInsertGameDuplicateIDFails() {
	game, err := s.Storage.InsertGame(s.Ctx, model.NewGame(uuid.Nil))
	s.Require().NoError(err)

	other := model.NewGame(game.ID)
	other.Status = model.GameStatusFinished
	_, err = s.Storage.InsertGame(s.Ctx, other)
	s.ErrorIs(err, model.ErrGameAlreadyExists)

	found, err := s.Storage.FindGameByID(s.Ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStatusNotStarted, found.Status)
}

func (s *Suite) TestUpdateGame() {
	game, err := s.Storage.InsertGame(s.Ctx, model.NewGame(uuid.Nil))
	s.Require().NoError(err)

	game.Status = model.GameStatusPlaying
	game.CurrentTurnIndex = 4
	game.Players = []model.Player{
		{UserID: uuid.New(), Name: "a", Decision: model.PlayerDecisionScissors, Score: 2},
		{UserID: uuid.New(), Name: "b", Decision: model.PlayerDecisionRock, Score: 1},
	}
	s.Require().NoError(s.Storage.UpdateGame(s.Ctx, game))

	found, err := s.Storage.FindGameByID(s.Ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(game, found)
}

func (s *Suite) TestUpdateGameNotFound() {
	err := s.Storage.UpdateGame(s.Ctx, model.NewGame(uuid.New()))
	s.ErrorIs(err, model.ErrGameNotFound)

	_, err = s.Storage.FindGameByID(s.Ctx, uuid.New())
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *Suite) TestDeleteGame() {
	game, err := s.Storage.InsertGame(s.Ctx, model.NewGame(uuid.Nil))
	s.Require().NoError(err)

	s.Require().NoError(s.Storage.DeleteGame(s.Ctx, game.ID))
	s.ErrorIs(s.Storage.DeleteGame(s.Ctx, game.ID), model.ErrGameNotFound)

	_, err = s.Storage.FindGameByID(s.Ctx, game.ID)
	s.ErrorIs(err, model.ErrGameNotFound)
}
