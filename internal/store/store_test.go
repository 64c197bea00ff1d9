package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftlog/internal/db"
	"shiftlog/internal/migrate"
	"shiftlog/internal/repo"
	"shiftlog/internal/store"
)

func backends(t *testing.T) map[string]store.KV {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	conn, err := db.Open(ctx, db.Config{Workspace: dir})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, migrate.Migrate(ctx, conn))
	return map[string]store.KV{
		"memory": store.NewMemory(),
		"file":   store.File{Dir: t.TempDir()},
		"sqlite": store.SQLite{Repo: repo.Repo{DB: conn}},
	}
}

func TestKVContract(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := kv.Get(ctx, "shiftlog.state")
			assert.ErrorIs(t, err, store.ErrNotFound)

			require.NoError(t, kv.Set(ctx, "shiftlog.state", []byte("one")))
			require.NoError(t, kv.Set(ctx, "shiftlog.state", []byte("two")))
			got, err := kv.Get(ctx, "shiftlog.state")
			require.NoError(t, err)
			assert.Equal(t, "two", string(got))

			require.NoError(t, kv.Delete(ctx, "shiftlog.state"))
			require.NoError(t, kv.Delete(ctx, "shiftlog.state"), "deleting a missing key is fine")
			_, err = kv.Get(ctx, "shiftlog.state")
			assert.ErrorIs(t, err, store.ErrNotFound)
		})
	}
}

func TestFileRejectsPathKeys(t *testing.T) {
	f := store.File{Dir: t.TempDir()}
	ctx := context.Background()
	assert.Error(t, f.Set(ctx, "../escape", []byte("x")))
	_, err := f.Get(ctx, "")
	assert.Error(t, err)
}

func TestMemoryCopiesValues(t *testing.T) {
	m := store.NewMemory()
	ctx := context.Background()
	buf := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", buf))
	buf[0] = 'z'
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}
