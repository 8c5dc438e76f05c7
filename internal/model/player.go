package model

import "fmt"

// PlayerDecision is the move a player picked for the current turn
type PlayerDecision int

const (
	PlayerDecisionNone PlayerDecision = iota // Nothing chosen yet
	PlayerDecisionRock
	PlayerDecisionPaper
	PlayerDecisionScissors
)

var playerDecisionNames = [...]string{
	PlayerDecisionNone:     "None",
	PlayerDecisionRock:     "Rock",
	PlayerDecisionPaper:    "Paper",
	PlayerDecisionScissors: "Scissors",
}

// PlayerDecisions lists every known decision in ordinal order
func PlayerDecisions() []PlayerDecision {
	return []PlayerDecision{PlayerDecisionNone, PlayerDecisionRock, PlayerDecisionPaper, PlayerDecisionScissors}
}

// Valid reports whether d is a known decision
func (d PlayerDecision) Valid() bool {
	return d >= 0 && int(d) < len(playerDecisionNames)
}

func (d PlayerDecision) String() string {
	if !d.Valid() {
		return fmt.Sprintf("PlayerDecision(%d)", int(d))
	}
	return playerDecisionNames[d]
}

// Player is a user's seat within a game
type Player struct {
	UserID   UserID
	Name     string // snapshot of the user's login when they joined
	Decision PlayerDecision
	Score    int
}

// NewPlayer creates a player with no decision and zero score
func NewPlayer(userID UserID, name string) Player {
	return Player{
		UserID: userID,
		Name:   name,
	}
}
