package metadata

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB NOT NULL)`)
	require.NoError(t, err)
	return db
}

func TestSQLiteRepository_GetSet(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(setupTestDB(t))

	got, err := r.Get(ctx, "missing")
	require.NoError(t, err)
	require.Nil(t, got)

	require.NoError(t, r.Set(ctx, "token", []byte("abc")))
	got, err = r.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), got)

	// Set on an existing key overwrites.
	require.NoError(t, r.Set(ctx, "token", []byte("def")))
	got, err = r.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, []byte("def"), got)
}

func TestSQLiteRepository_SetMany(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(setupTestDB(t))

	err := r.SetMany(ctx, map[string][]byte{
		"token": []byte("abc"),
		"user":  []byte(`{"id":1}`),
	})
	require.NoError(t, err)

	got, err := r.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), got)

	got, err = r.Get(ctx, "user")
	require.NoError(t, err)
	require.Equal(t, []byte(`{"id":1}`), got)
}

func TestSQLiteRepository_DeleteMany(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(setupTestDB(t))

	require.NoError(t, r.Set(ctx, "token", []byte("abc")))
	require.NoError(t, r.Set(ctx, "user", []byte("u")))
	require.NoError(t, r.Set(ctx, "other", []byte("o")))

	require.NoError(t, r.DeleteMany(ctx, "token", "user"))

	got, err := r.Get(ctx, "token")
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = r.Get(ctx, "user")
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = r.Get(ctx, "other")
	require.NoError(t, err)
	require.Equal(t, []byte("o"), got)
}

func TestSQLiteRepository_DeleteMissingKey(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(setupTestDB(t))

	require.NoError(t, r.Delete(ctx, "missing"))
}

func TestSQLiteRepository_Clear(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(setupTestDB(t))

	require.NoError(t, r.Set(ctx, "a", []byte("1")))
	require.NoError(t, r.Set(ctx, "b", []byte("2")))
	require.NoError(t, r.Clear(ctx))

	for _, key := range []string{"a", "b"} {
		got, err := r.Get(ctx, key)
		require.NoError(t, err)
		require.Nil(t, got)
	}
}

func TestRunMigrations(t *testing.T) {
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, RunMigrations(context.Background(), db))

	r := NewSQLiteRepository(db)
	require.NoError(t, r.Set(context.Background(), "k", []byte("v")))
}
