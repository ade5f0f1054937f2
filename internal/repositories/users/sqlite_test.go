package users

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/securevault/internal/common"
	"github.com/dmitrijs2005/securevault/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:users_tests?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		DROP TABLE IF EXISTS users;
		CREATE TABLE users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash BLOB NOT NULL,
			salt BLOB NOT NULL,
			master_key_salt BLOB NOT NULL,
			encrypted_master_key BLOB NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`)
	require.NoError(t, err)
	return db
}

func sqliteSampleUser(username string) *models.User {
	return &models.User{
		Username:           username,
		PasswordHash:       []byte("hash"),
		Salt:               []byte("salt"),
		MasterKeySalt:      []byte("mksalt"),
		EncryptedMasterKey: []byte("encmk"),
	}
}

func TestSQLiteRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupSQLiteDB(t))

	created, err := repo.Create(ctx, sqliteSampleUser("alice"))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, []byte("encmk"), got.EncryptedMasterKey)
}

func TestSQLiteRepository_Create_UniqueViolation(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupSQLiteDB(t))

	_, err := repo.Create(ctx, sqliteSampleUser("alice"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, sqliteSampleUser("alice"))
	assert.ErrorIs(t, err, common.ErrUsernameTaken)
}

func TestSQLiteRepository_GetByUsername_NotFound(t *testing.T) {
	repo := NewSQLiteRepository(setupSQLiteDB(t))

	_, err := repo.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupSQLiteDB(t))

	created, err := repo.Create(ctx, sqliteSampleUser("alice"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.GetByUsername(ctx, "alice")
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, created.ID), common.ErrNotFound)
}
