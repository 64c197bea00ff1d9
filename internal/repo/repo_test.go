package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftlog/internal/db"
	"shiftlog/internal/domain"
	"shiftlog/internal/migrate"
	"shiftlog/internal/repo"
)

func newRepo(t *testing.T) repo.Repo {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(ctx, db.Config{Workspace: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, migrate.Migrate(ctx, conn))
	return repo.Repo{DB: conn}
}

func TestBlobUpsertAndDelete(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	_, err := r.GetBlob(ctx, "state")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	require.NoError(t, r.PutBlob(ctx, "state", []byte(`{"a":1}`)))
	require.NoError(t, r.PutBlob(ctx, "state", []byte(`{"a":2}`)))
	got, err := r.GetBlob(ctx, "state")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(got))

	require.NoError(t, r.DeleteBlob(ctx, "state"))
	require.NoError(t, r.DeleteBlob(ctx, "state"))
	_, err = r.GetBlob(ctx, "state")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestLatestEventsNewestFirst(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	for _, typ := range []string{"shift.start", "patrol.start", "patrol.end"} {
		_, err := r.InsertEvent(ctx, domain.Event{TS: "2024-01-01T00:00:00Z", Type: typ, EntityKind: "shift", EntityID: "s-1", Payload: "{}"})
		require.NoError(t, err)
	}

	all, err := r.LatestEvents(ctx, 10, "", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "patrol.end", all[0].Type)
	assert.Equal(t, "s-1", all[0].EntityID)

	filtered, err := r.LatestEvents(ctx, 10, "patrol.start", "")
	require.NoError(t, err)
	require.Len(t, filtered, 1)

	limited, err := r.LatestEvents(ctx, 2, "", "shift")
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
