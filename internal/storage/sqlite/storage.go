package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mcoot/webgame/internal/codec"
	"github.com/mcoot/webgame/internal/model"
	"github.com/mcoot/webgame/internal/storage"
)

// Documents are stored as BSON blobs; login and status are copied into
// columns only for ordering and inspection.
const createTables = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	login TEXT NOT NULL,
	document BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS users_by_login ON users (login, id);
CREATE TABLE IF NOT EXISTS games (
	id TEXT PRIMARY KEY,
	status TEXT NOT NULL,
	document BLOB NOT NULL
);
`

// Storage is a SQLite-backed implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// New opens the database at path and creates the tables
func New(ctx context.Context, path string) (*Storage, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	s := NewWithDB(db)
	if err := s.Init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an already opened database
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// Init creates the tables if they do not exist
func (s *Storage) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTables); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
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

	data, err := codec.Users.Encode(stored)
	if err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, `
INSERT INTO users (id, login, document)
VALUES (?, ?, ?)
ON CONFLICT (id) DO NOTHING`,
		id.String(), stored.Login, data,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	if err := requireAffected(res, model.ErrUserAlreadyExists); err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *Storage) FindUserByID(ctx context.Context, id model.UserID) (*model.User, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT document FROM users WHERE id = ?`, id.String()).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return codec.Users.Decode(data)
}

func (s *Storage) UpdateUser(ctx context.Context, user *model.User) error {
	data, err := codec.Users.Encode(user)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
UPDATE users SET login = ?, document = ?
WHERE id = ?`,
		user.Login, data, user.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireAffected(res, model.ErrUserNotFound)
}

func (s *Storage) UpsertUser(ctx context.Context, user *model.User) (inserted bool, err error) {
	data, err := codec.Users.Encode(user)
	if err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin upsert: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE id = ?`, user.ID.String()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `
INSERT INTO users (id, login, document)
VALUES (?, ?, ?)
ON CONFLICT (id) DO UPDATE SET login = excluded.login, document = excluded.document`,
		user.ID.String(), user.Login, data,
	); err != nil {
		return false, fmt.Errorf("upsert user: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit upsert: %w", err)
	}
	return exists == 0, nil
}

func (s *Storage) DeleteUser(ctx context.Context, id model.UserID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireAffected(res, model.ErrUserNotFound)
}

func (s *Storage) GetUserPage(ctx context.Context, pageNumber, pageSize int) (*model.Page[model.User], error) {
	if err := storage.ValidPage(pageNumber, pageSize); err != nil {
		return nil, err
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	offset, ok := model.PageOffset(pageNumber, pageSize)
	if !ok || offset >= total {
		return model.NewPage([]model.User{}, pageNumber, pageSize, total), nil
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT document FROM users
ORDER BY login, id
LIMIT ? OFFSET ?`,
		pageSize, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("select users page: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]model.User, 0, pageSize)
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		user, err := codec.Users.Decode(data)
		if err != nil {
			return nil, err
		}
		items = append(items, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return model.NewPage(items, pageNumber, pageSize, total), nil
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

	res, err := s.db.ExecContext(ctx, `
INSERT INTO games (id, status, document)
VALUES (?, ?, ?)
ON CONFLICT (id) DO NOTHING`,
		id.String(), stored.Status.String(), data,
	)
	if err != nil {
		return nil, fmt.Errorf("insert game: %w", err)
	}
	if err := requireAffected(res, model.ErrGameAlreadyExists); err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *Storage) FindGameByID(ctx context.Context, id model.GameID) (*model.Game, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT document FROM games WHERE id = ?`, id.String()).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrGameNotFound
		}
		return nil, fmt.Errorf("select game: %w", err)
	}
	return codec.Games.Decode(data)
}

func (s *Storage) UpdateGame(ctx context.Context, game *model.Game) error {
	data, err := codec.Games.Encode(game)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
UPDATE games SET status = ?, document = ?
WHERE id = ?`,
		game.Status.String(), data, game.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	return requireAffected(res, model.ErrGameNotFound)
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return requireAffected(res, model.ErrGameNotFound)
}

// requireAffected returns errNone when the statement changed no rows
func requireAffected(res sql.Result, errNone error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return errNone
	}
	return nil
}

