package model

import (
	"fmt"

	"github.com/google/uuid"
)

// GameID uniquely identifies a game
type GameID = uuid.UUID

// GameStatus represents the current phase of a game
type GameStatus int

const (
	GameStatusNotStarted GameStatus = iota // Waiting for players to join
	GameStatusPlaying                      // Turns in progress
	GameStatusFinished                     // Game over, scores final
)

var gameStatusNames = [...]string{
	GameStatusNotStarted: "NotStarted",
	GameStatusPlaying:    "Playing",
	GameStatusFinished:   "Finished",
}

// GameStatuses lists every known status in ordinal order
func GameStatuses() []GameStatus {
	return []GameStatus{GameStatusNotStarted, GameStatusPlaying, GameStatusFinished}
}

// Valid reports whether s is a known status
func (s GameStatus) Valid() bool {
	return s >= 0 && int(s) < len(gameStatusNames)
}

func (s GameStatus) String() string {
	if !s.Valid() {
		return fmt.Sprintf("GameStatus(%d)", int(s))
	}
	return gameStatusNames[s]
}

// Game is a single rock-paper-scissors match between users
type Game struct {
	ID               GameID
	Status           GameStatus
	CurrentTurnIndex int

	// Players in join order; order drives turn rotation. nil until someone joins.
	Players []Player
}

// NewGame creates a game that has not started yet
func NewGame(id GameID) *Game {
	return &Game{
		ID:     id,
		Status: GameStatusNotStarted,
	}
}

// FindPlayer returns the index of the player for userID, or -1
func (g *Game) FindPlayer(userID UserID) int {
	for i := range g.Players {
		if g.Players[i].UserID == userID {
			return i
		}
	}
	return -1
}

// IsFinished returns true if the game is over
func (g *Game) IsFinished() bool {
	return g.Status == GameStatusFinished
}

// Clone returns a deep copy of the game
func (g *Game) Clone() *Game {
	c := *g
	if g.Players != nil {
		c.Players = make([]Player, len(g.Players))
		copy(c.Players, g.Players)
	}
	return &c
}
