package user

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/google/uuid"

	"github.com/mcoot/webgame/internal/dependencies/random"
	"github.com/mcoot/webgame/internal/model"
	"github.com/mcoot/webgame/internal/storage"
	"github.com/mcoot/webgame/internal/validation"
)

// Paging limits applied to list requests
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
	MaxPageSize       = 20
)

// ErrInvalidPatch is returned when a patch document cannot be parsed
var ErrInvalidPatch = errors.New("invalid patch document")

// CreateFields are the client-supplied fields of a new user
type CreateFields struct {
	Login     string `json:"login" validate:"required,alphanumunicode"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UpdateFields are the client-writable fields of an existing user.
// JSON-Patch documents are applied to this projection.
type UpdateFields struct {
	Login     string `json:"login" validate:"required,alphanumunicode"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

// UpdateFieldsFromModel projects a stored user onto its writable fields
func UpdateFieldsFromModel(u *model.User) UpdateFields {
	return UpdateFields{
		Login:     u.Login,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func (f UpdateFields) applyTo(u *model.User) {
	u.Login = f.Login
	u.FirstName = f.FirstName
	u.LastName = f.LastName
}

// ClampPage forces a page request into the allowed range
func ClampPage(pageNumber, pageSize int) (int, int) {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	} else if pageSize < 1 {
		pageSize = 1
	}
	return pageNumber, pageSize
}

// Service implements user use cases on top of storage
type Service struct {
	storage   storage.Storage
	validator *validation.Validator
	random    random.Random
	logger    *slog.Logger
}

// New creates a new user service
func New(storage storage.Storage, validator *validation.Validator, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage:   storage,
		validator: validator,
		random:    random,
		logger:    logger,
	}
}

// List returns one page of users ordered by login. Out-of-range page
// requests are clamped rather than rejected.
func (s *Service) List(ctx context.Context, pageNumber, pageSize int) (*model.Page[model.User], error) {
	pageNumber, pageSize = ClampPage(pageNumber, pageSize)
	return s.storage.GetUserPage(ctx, pageNumber, pageSize)
}

// Get returns a single user. The nil id never names a user.
func (s *Service) Get(ctx context.Context, id model.UserID) (*model.User, error) {
	if id == uuid.Nil {
		return nil, model.ErrUserNotFound
	}
	return s.storage.FindUserByID(ctx, id)
}

// Create validates and stores a new user
func (s *Service) Create(ctx context.Context, fields CreateFields) (*model.User, error) {
	if err := s.validator.Struct(fields); err != nil {
		return nil, err
	}

	user, err := s.storage.InsertUser(ctx, &model.User{
		ID:        s.random.UUID(),
		Login:     fields.Login,
		FirstName: fields.FirstName,
		LastName:  fields.LastName,
	})
	if err != nil {
		s.logger.Error("failed to insert user",
			slog.String("login", fields.Login),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("user created",
		slog.String("user_id", user.ID.String()),
		slog.String("login", user.Login),
	)
	return user, nil
}

// Upsert replaces the writable fields of the user with the given id, or
// creates the user if it does not exist. Game tracking fields of an
// existing user are kept.
func (s *Service) Upsert(ctx context.Context, id model.UserID, fields UpdateFields) (inserted bool, err error) {
	if id == uuid.Nil {
		return false, validation.NewError("userId", "User id must not be empty")
	}
	if err := s.validator.Struct(fields); err != nil {
		return false, err
	}

	user, err := s.storage.FindUserByID(ctx, id)
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		user = &model.User{ID: id}
	case err != nil:
		return false, err
	}
	fields.applyTo(user)

	inserted, err = s.storage.UpsertUser(ctx, user)
	if err != nil {
		return false, err
	}

	s.logger.Info("user upserted",
		slog.String("user_id", id.String()),
		slog.Bool("inserted", inserted),
	)
	return inserted, nil
}

// Patch applies an RFC 6902 JSON-Patch document to the user's writable
// fields, re-validates the result and persists it.
func (s *Service) Patch(ctx context.Context, id model.UserID, patchDoc []byte) error {
	trimmed := bytes.TrimSpace(patchDoc)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ErrInvalidPatch
	}
	patch, err := jsonpatch.DecodePatch(trimmed)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	current, err := json.Marshal(UpdateFieldsFromModel(user))
	if err != nil {
		return err
	}
	patched, err := patch.Apply(current)
	if err != nil {
		return validation.NewError("patch", err.Error())
	}

	var fields UpdateFields
	dec := json.NewDecoder(bytes.NewReader(patched))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fields); err != nil {
		return validation.NewError("patch", err.Error())
	}
	if err := s.validator.Struct(fields); err != nil {
		return err
	}

	fields.applyTo(user)
	if err := s.storage.UpdateUser(ctx, user); err != nil {
		return err
	}

	s.logger.Info("user patched",
		slog.String("user_id", id.String()),
		slog.Int("operations", len(patch)),
	)
	return nil
}

// Delete removes a user
func (s *Service) Delete(ctx context.Context, id model.UserID) error {
	if id == uuid.Nil {
		return model.ErrUserNotFound
	}
	if err := s.storage.DeleteUser(ctx, id); err != nil {
		return err
	}

	s.logger.Info("user deleted", slog.String("user_id", id.String()))
	return nil
}
