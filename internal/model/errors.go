package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")

	// Game errors
	ErrGameNotFound      = errors.New("game not found")
	ErrGameAlreadyExists = errors.New("game already exists")
	ErrGameNotJoinable   = errors.New("game is not accepting players")
	ErrAlreadyInGame     = errors.New("user is already in a game")
	ErrNotEnoughPlayers  = errors.New("not enough players to start game")
	ErrInvalidGameStatus = errors.New("game is not in the required status")
)
