package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/mcoot/webgame/internal/model"
	"github.com/mcoot/webgame/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	users map[model.UserID]*model.User
	games map[model.GameID]*model.Game
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users: make(map[model.UserID]*model.User),
		games: make(map[model.GameID]*model.Game),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) InsertUser(ctx context.Context, user *model.User) (*model.User, error) {
	id, err := storage.AssignID(user.ID)
	if err != nil {
		return nil, err
	}
	stored := user.Clone()
	stored.ID = id

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[id]; exists {
		return nil, model.ErrUserAlreadyExists
	}
	s.users[id] = stored
	return stored.Clone(), nil
}

func (s *Storage) FindUserByID(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user.Clone(), nil
}

func (s *Storage) UpdateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return model.ErrUserNotFound
	}
	s.users[user.ID] = user.Clone()
	return nil
}

func (s *Storage) UpsertUser(ctx context.Context, user *model.User) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.users[user.ID]
	s.users[user.ID] = user.Clone()
	return !exists, nil
}

func (s *Storage) DeleteUser(ctx context.Context, id model.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *Storage) GetUserPage(ctx context.Context, pageNumber, pageSize int) (*model.Page[model.User], error) {
	if err := storage.ValidPage(pageNumber, pageSize); err != nil {
		return nil, err
	}

	s.mu.RLock()
	all := make([]*model.User, 0, len(s.users))
	for _, user := range s.users {
		all = append(all, user)
	}
	s.mu.RUnlock()

	slices.SortFunc(all, func(a, b *model.User) int {
		if c := cmp.Compare(a.Login, b.Login); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})

	items := []model.User{}
	offset, ok := model.PageOffset(pageNumber, pageSize)
	if !ok || offset >= len(all) {
		return model.NewPage(items, pageNumber, pageSize, len(all)), nil
	}
	end := min(len(all), offset+pageSize)
	for _, u := range all[offset:end] {
		items = append(items, *u.Clone())
	}
	return model.NewPage(items, pageNumber, pageSize, len(all)), nil
}

// Game operations

func (s *Storage) InsertGame(ctx context.Context, game *model.Game) (*model.Game, error) {
	id, err := storage.AssignID(game.ID)
	if err != nil {
		return nil, err
	}
	stored := game.Clone()
	stored.ID = id

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.games[id]; exists {
		return nil, model.ErrGameAlreadyExists
	}
	s.games[id] = stored
	return stored.Clone(), nil
}

func (s *Storage) FindGameByID(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game.Clone(), nil
}

func (s *Storage) UpdateGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[game.ID]; !ok {
		return model.ErrGameNotFound
	}
	s.games[game.ID] = game.Clone()
	return nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return model.ErrGameNotFound
	}
	delete(s.games, id)
	return nil
}

// UserCount returns the number of stored users
func (s *Storage) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
