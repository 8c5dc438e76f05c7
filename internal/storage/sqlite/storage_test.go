package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/webgame/internal/codec"
	"github.com/mcoot/webgame/internal/model"
	"github.com/mcoot/webgame/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.Ctx = context.Background()

	st, err := New(s.Ctx, MemoryPath)
	s.Require().NoError(err)
	s.storage = st
	s.Storage = st
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

func (s *StorageSuite) TestInitIsIdempotent() {
	s.MustInsertUser("alice")
	s.Require().NoError(s.storage.Init(s.Ctx))

	page, err := s.storage.GetUserPage(s.Ctx, 1, 10)
	s.Require().NoError(err)
	s.Equal(1, page.TotalCount)
}

func (s *StorageSuite) TestStoresDocumentBlob() {
	user := s.MustInsertUser("alice")

	var blob []byte
	err := s.storage.db.QueryRowContext(s.Ctx, `SELECT document FROM users WHERE id = ?`, user.ID.String()).Scan(&blob)
	s.Require().NoError(err)

	decoded, err := codec.Users.Decode(blob)
	s.Require().NoError(err)
	s.Equal(user, decoded)
}

func (s *StorageSuite) TestCorruptDocumentSurfacesDecodeError() {
	id := uuid.New()
	_, err := s.storage.db.ExecContext(s.Ctx, `INSERT INTO users (id, login, document) VALUES (?, ?, ?)`, id.String(), "x", []byte{1, 2, 3})
	s.Require().NoError(err)

	_, err = s.storage.FindUserByID(s.Ctx, id)
	s.ErrorIs(err, codec.ErrDecode)
	s.NotErrorIs(err, model.ErrUserNotFound)
}

func TestOpenFileDatabasePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "webgame.db")

	st, err := New(ctx, path)
	require.NoError(t, err)
	user, err := st.InsertUser(ctx, &model.User{Login: "alice"})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = New(ctx, path)
	require.NoError(t, err)
	defer st.Close()

	found, err := st.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, user, found)
}
