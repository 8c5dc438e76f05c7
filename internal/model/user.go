package model

import "github.com/google/uuid"

// UserID uniquely identifies a user
type UserID = uuid.UUID

// User is a registered participant of the game service
type User struct {
	ID          UserID
	Login       string // letters or digits only
	FirstName   string
	LastName    string
	GamesPlayed int

	// CurrentGameID references the game the user is currently in, nil when idle
	CurrentGameID *GameID
}

// FullName returns "LastName FirstName", the way names are shown to clients
func (u *User) FullName() string {
	switch {
	case u.LastName == "":
		return u.FirstName
	case u.FirstName == "":
		return u.LastName
	default:
		return u.LastName + " " + u.FirstName
	}
}

// Clone returns a deep copy of the user
func (u *User) Clone() *User {
	c := *u
	if u.CurrentGameID != nil {
		id := *u.CurrentGameID
		c.CurrentGameID = &id
	}
	return &c
}
