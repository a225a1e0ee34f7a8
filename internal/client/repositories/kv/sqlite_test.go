package kv

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDatabase_MigrationsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='kv'`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSQLiteStore_StampsUpdatedAt(t *testing.T) {
	ctx := context.Background()
	db, err := InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	s := NewSQLiteStore(db)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	require.NoError(t, s.Set(ctx, "chats", "[]"))

	var ts int64
	require.NoError(t, db.QueryRow(`SELECT updated_at FROM kv WHERE key='chats'`).Scan(&ts))
	assert.Equal(t, int64(1700000000000), ts)
}

func newMockStore(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteStore(db), mock
}

func TestSQLiteStore_GetErrorWrapped(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT value FROM kv`).WithArgs("chats").WillReturnError(errors.New("io"))

	_, ok, err := s.Get(context.Background(), "chats")
	require.ErrorContains(t, err, "failed to get kv[chats]")
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_SetErrorWrapped(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(`INSERT INTO kv`).WillReturnError(errors.New("quota exceeded"))

	err := s.Set(context.Background(), "chats", "[]")
	require.ErrorContains(t, err, "failed to set kv[chats]: quota exceeded")
}

func TestSQLiteStore_SetManyRollsBack(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO kv`).WillReturnError(errors.New("locked"))
	mock.ExpectRollback()

	err := s.SetMany(context.Background(), map[string]string{"authToken": "t"})
	require.ErrorContains(t, err, "failed to set kv[authToken]")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_DeleteCommits(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM kv`).WithArgs("authToken").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM kv`).WithArgs("user").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, s.Delete(context.Background(), "authToken", "user"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_ClosedDB(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, _, err = NewSQLiteStore(db).Get(context.Background(), "chats")
	require.Error(t, err)
}
