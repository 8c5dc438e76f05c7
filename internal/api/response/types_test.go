package response

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/webgame/internal/model"
)

func TestUserFromModel(t *testing.T) {
	id := uuid.MustParse("6a1c3f0e-5d8e-4f0c-9f59-6a3f7b0c1d2e")
	gameID := uuid.MustParse("0b4cbd09-1a2b-4c3d-8e9f-a0b1c2d3e4f5")

	u := UserFromModel(&model.User{
		ID:            id,
		Login:         "ivan",
		FirstName:     "Ivan",
		LastName:      "Petrov",
		GamesPlayed:   2,
		CurrentGameID: &gameID,
	})

	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "6a1c3f0e-5d8e-4f0c-9f59-6a3f7b0c1d2e",
		"login": "ivan",
		"fullName": "Petrov Ivan",
		"gamesPlayed": 2,
		"currentGameId": "0b4cbd09-1a2b-4c3d-8e9f-a0b1c2d3e4f5"
	}`, string(data))
}

func TestUserFromModelWithoutGame(t *testing.T) {
	u := UserFromModel(&model.User{ID: uuid.New(), Login: "ivan"})
	assert.Nil(t, u.CurrentGameID)
}

func TestGameFromModelNilPlayers(t *testing.T) {
	g := GameFromModel(model.NewGame(uuid.New()))

	assert.Equal(t, "NotStarted", g.Status)
	assert.NotNil(t, g.Players)
	assert.Empty(t, g.Players)
}
