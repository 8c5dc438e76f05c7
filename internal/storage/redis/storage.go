package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/webgame/internal/codec"
	"github.com/mcoot/webgame/internal/model"
	"github.com/mcoot/webgame/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Entities are stored as BSON documents produced by the codec package.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
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

	if _, err := s.putUser(ctx, stored, writeInsert); err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *Storage) FindUserByID(ctx context.Context, id model.UserID) (*model.User, error) {
	return getUser(ctx, s.client, id)
}

func (s *Storage) UpdateUser(ctx context.Context, user *model.User) error {
	_, err := s.putUser(ctx, user, writeUpdate)
	return err
}

func (s *Storage) UpsertUser(ctx context.Context, user *model.User) (bool, error) {
	return s.putUser(ctx, user, writeUpsert)
}

// writeMode restricts putUser to creating or replacing a document
type writeMode int

const (
	writeUpsert writeMode = iota
	writeInsert
	writeUpdate
)

// putUser writes the user document and keeps the login index in sync.
// The read of the previous version and the write run under WATCH so a
// concurrent writer aborts the transaction instead of corrupting the index.
func (s *Storage) putUser(ctx context.Context, user *model.User, mode writeMode) (inserted bool, err error) {
	data, err := codec.Users.Encode(user)
	if err != nil {
		return false, err
	}

	key := userKey(user.ID)
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		previous, err := getUser(ctx, tx, user.ID)
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			if mode == writeUpdate {
				return err
			}
			previous = nil
		case err != nil:
			return err
		case mode == writeInsert:
			return model.ErrUserAlreadyExists
		}
		inserted = previous == nil

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			if previous != nil && loginMember(previous) != loginMember(user) {
				pipe.ZRem(ctx, usersByLoginKey(), loginMember(previous))
			}
			pipe.ZAdd(ctx, usersByLoginKey(), redis.Z{Score: 0, Member: loginMember(user)})
			return nil
		})
		return err
	}, key)
	if err != nil {
		return false, err
	}
	return inserted, nil
}

func (s *Storage) DeleteUser(ctx context.Context, id model.UserID) error {
	key := userKey(id)
	return s.client.Watch(ctx, func(tx *redis.Tx) error {
		previous, err := getUser(ctx, tx, id)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.ZRem(ctx, usersByLoginKey(), loginMember(previous))
			return nil
		})
		return err
	}, key)
}

func (s *Storage) GetUserPage(ctx context.Context, pageNumber, pageSize int) (*model.Page[model.User], error) {
	if err := storage.ValidPage(pageNumber, pageSize); err != nil {
		return nil, err
	}

	total, err := s.client.ZCard(ctx, usersByLoginKey()).Result()
	if err != nil {
		return nil, err
	}

	offset, ok := model.PageOffset(pageNumber, pageSize)
	if !ok || int64(offset) >= total {
		return model.NewPage([]model.User{}, pageNumber, pageSize, int(total)), nil
	}

	start := int64(offset)
	members, err := s.client.ZRange(ctx, usersByLoginKey(), start, start+int64(pageSize)-1).Result()
	if err != nil {
		return nil, err
	}

	items := make([]model.User, 0, len(members))
	if len(members) == 0 {
		return model.NewPage(items, pageNumber, pageSize, int(total)), nil
	}

	keys := make([]string, len(members))
	for i, member := range members {
		id, err := parseLoginMember(member)
		if err != nil {
			return nil, err
		}
		keys[i] = userKey(id)
	}

	// Fetch all users in one round trip using MGET
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for i, val := range values {
		if val == nil {
			continue // Deleted between ZRANGE and MGET
		}
		raw, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected value type %T for %s", val, keys[i])
		}
		user, err := codec.Users.Decode([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", keys[i], err)
		}
		items = append(items, *user)
	}

	return model.NewPage(items, pageNumber, pageSize, int(total)), nil
}

// Game operations

func (s *Storage) InsertGame(ctx context.Context, game *model.Game) (*model.Game, error) {
	id, err := storage.AssignID(game.ID)
	if err != nil {
		return nil, err
	}
	stored := game.Clone()
	stored.ID = id

	data, err := codec.Games.Encode(stored)
	if err != nil {
		return nil, err
	}
	// NX never replaces a stored game
	err = s.client.SetArgs(ctx, gameKey(id), data, redis.SetArgs{
		Mode: "NX",
		TTL:  s.gameTTL(stored),
	}).Err()
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrGameAlreadyExists
	}
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *Storage) FindGameByID(ctx context.Context, id model.GameID) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}
	return codec.Games.Decode(data)
}

func (s *Storage) UpdateGame(ctx context.Context, game *model.Game) error {
	data, err := codec.Games.Encode(game)
	if err != nil {
		return err
	}

	// XX only overwrites an existing game
	err = s.client.SetArgs(ctx, gameKey(game.ID), data, redis.SetArgs{
		Mode: "XX",
		TTL:  s.gameTTL(game),
	}).Err()
	if errors.Is(err, redis.Nil) {
		return model.ErrGameNotFound
	}
	return err
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	n, err := s.client.Del(ctx, gameKey(id)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrGameNotFound
	}
	return nil
}

// gameTTL applies expiry only to finished games
func (s *Storage) gameTTL(game *model.Game) time.Duration {
	if game.IsFinished() {
		return s.cfg.FinishedGameTTL
	}
	return 0
}

// stringGetter is satisfied by both *redis.Client and *redis.Tx
type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// getUser reads and decodes a user through the client or a watching transaction
func getUser(ctx context.Context, c stringGetter, id model.UserID) (*model.User, error) {
	data, err := c.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return codec.Users.Decode(data)
}
