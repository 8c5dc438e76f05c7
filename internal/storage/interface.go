package storage

import (
	"context"

	"github.com/mcoot/webgame/internal/model"
)

// Storage defines the interface for data persistence.
//
// Implementations store and return copies: mutating an entity obtained from
// storage has no effect until it is written back through an update operation.
//
// Insert operations assign a fresh id when the entity has none and never
// replace an existing record: inserting an id that is already stored fails
// with model.ErrUserAlreadyExists or model.ErrGameAlreadyExists and leaves
// the stored record untouched. UpsertUser is the only overwriting create.
type Storage interface {
	// User operations
	InsertUser(ctx context.Context, user *model.User) (*model.User, error)
	FindUserByID(ctx context.Context, id model.UserID) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	UpsertUser(ctx context.Context, user *model.User) (inserted bool, err error)
	DeleteUser(ctx context.Context, id model.UserID) error
	GetUserPage(ctx context.Context, pageNumber, pageSize int) (*model.Page[model.User], error)

	// Game operations
	InsertGame(ctx context.Context, game *model.Game) (*model.Game, error)
	FindGameByID(ctx context.Context, id model.GameID) (*model.Game, error)
	UpdateGame(ctx context.Context, game *model.Game) error
	DeleteGame(ctx context.Context, id model.GameID) error
}
