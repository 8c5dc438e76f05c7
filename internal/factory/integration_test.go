package factory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/webgame/internal/model"
	"github.com/mcoot/webgame/internal/services/user"
	"github.com/mcoot/webgame/internal/storage/memory"
	"github.com/mcoot/webgame/internal/storage/sqlite"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) createUser(login string) *model.User {
	u, err := s.app.UserService.Create(s.ctx, user.CreateFields{Login: login, FirstName: "F", LastName: "L"})
	s.Require().NoError(err)
	return u
}

// Test: Complete game flow from user creation to game completion
func (s *IntegrationSuite) TestCompleteGameFlow() {
	gameID := uuid.New()
	s.app.MockRandom.QueueUUID(uuid.New(), uuid.New(), gameID)

	// Step 1: Register two users
	alice := s.createUser("alice")
	bob := s.createUser("bob")

	// Step 2: Create a game
	game, err := s.app.GameController.CreateGame(s.ctx)
	s.Require().NoError(err)
	s.Equal(gameID, game.ID)

	// Step 3: Both users join
	_, err = s.app.GameController.AddPlayer(s.ctx, game.ID, alice.ID)
	s.Require().NoError(err)
	_, err = s.app.GameController.AddPlayer(s.ctx, game.ID, bob.ID)
	s.Require().NoError(err)

	current, err := s.app.UserService.Get(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.Equal(&gameID, current.CurrentGameID)

	// Step 4: Play and finish
	game, err = s.app.GameController.StartGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStatusPlaying, game.Status)

	game, err = s.app.GameController.FinishGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStatusFinished, game.Status)

	// Step 5: Users are free again and the game is counted
	page, err := s.app.UserService.List(s.ctx, 1, 10)
	s.Require().NoError(err)
	s.Require().Len(page.Items, 2)
	for _, u := range page.Items {
		s.Equal(1, u.GamesPlayed)
		s.Nil(u.CurrentGameID)
	}
}

// Test: A renamed user keeps the name snapshot taken when joining
func (s *IntegrationSuite) TestPlayerNameIsSnapshot() {
	alice := s.createUser("alice")
	game, err := s.app.GameController.CreateGame(s.ctx)
	s.Require().NoError(err)
	_, err = s.app.GameController.AddPlayer(s.ctx, game.ID, alice.ID)
	s.Require().NoError(err)

	err = s.app.UserService.Patch(s.ctx, alice.ID, []byte(`[{"op":"replace","path":"/login","value":"alicia"}]`))
	s.Require().NoError(err)

	game, err = s.app.GameController.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal("alice", game.Players[0].Name)
}

func TestNewDefaultsToMemory(t *testing.T) {
	app, err := New(Config{})
	require.NoError(t, err)
	defer app.Close()

	assert.IsType(t, &memory.Storage{}, app.Storage)
}

func TestNewSQLite(t *testing.T) {
	app, err := New(Config{
		StorageType: StorageTypeSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "webgame.db"),
	})
	require.NoError(t, err)
	defer app.Close()

	assert.IsType(t, &sqlite.Storage{}, app.Storage)
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(Config{StorageType: "postgres"})
	assert.Error(t, err)

	_, err = New(Config{StorageType: StorageTypeRedis})
	assert.Error(t, err)

	_, err = New(Config{StorageType: StorageTypeSQLite})
	assert.Error(t, err)
}
