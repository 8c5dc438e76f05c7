package response

import (
	"github.com/mcoot/webgame/internal/model"
)

// User represents a user in API responses
type User struct {
	ID            string  `json:"id"`
	Login         string  `json:"login"`
	FullName      string  `json:"fullName"`
	GamesPlayed   int     `json:"gamesPlayed"`
	CurrentGameID *string `json:"currentGameId"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	var current *string
	if u.CurrentGameID != nil {
		id := u.CurrentGameID.String()
		current = &id
	}
	return User{
		ID:            u.ID.String(),
		Login:         u.Login,
		FullName:      u.FullName(),
		GamesPlayed:   u.GamesPlayed,
		CurrentGameID: current,
	}
}

// UsersFromModel converts a page of users
func UsersFromModel(users []model.User) []User {
	out := make([]User, len(users))
	for i := range users {
		out[i] = UserFromModel(&users[i])
	}
	return out
}

// Pagination is the JSON body of the X-Pagination header
type Pagination struct {
	PreviousPageLink *string `json:"previousPageLink"`
	NextPageLink     *string `json:"nextPageLink"`
	TotalCount       int     `json:"totalCount"`
	PageSize         int     `json:"pageSize"`
	CurrentPage      int     `json:"currentPage"`
	TotalPages       int     `json:"totalPages"`
}

// Player represents a seat in a game
type Player struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Decision string `json:"decision"`
	Score    int    `json:"score"`
}

// Game represents a game in API responses
type Game struct {
	ID               string   `json:"id"`
	Status           string   `json:"status"`
	CurrentTurnIndex int      `json:"currentTurnIndex"`
	Players          []Player `json:"players"`
}

// GameFromModel converts a model.Game
func GameFromModel(g *model.Game) Game {
	players := make([]Player, len(g.Players))
	for i, p := range g.Players {
		players[i] = Player{
			UserID:   p.UserID.String(),
			Name:     p.Name,
			Decision: p.Decision.String(),
			Score:    p.Score,
		}
	}
	return Game{
		ID:               g.ID.String(),
		Status:           g.Status.String(),
		CurrentTurnIndex: g.CurrentTurnIndex,
		Players:          players,
	}
}

// Health is the health check response
type Health struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
}
