package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftlog/internal/db"
	"shiftlog/internal/events"
	"shiftlog/internal/migrate"
	"shiftlog/internal/repo"
)

func TestAppendWritesRow(t *testing.T) {
	ctx := context.Background()
	conn, err := db.Open(ctx, db.Config{Workspace: t.TempDir()})
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, migrate.Migrate(ctx, conn))

	r := repo.Repo{DB: conn}
	w := events.Writer{Repo: r, Now: func() time.Time { return time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC) }}
	require.NoError(t, w.Append(ctx, events.PatrolStart, "patrol", "s-1/1", events.EventPayload{"index": 1}))
	require.NoError(t, w.Append(ctx, events.DataReset, "state", "", nil))

	got, err := r.LatestEvents(ctx, 5, "", "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, events.DataReset, got[0].Type)
	assert.Equal(t, "", got[0].EntityID)
	assert.JSONEq(t, `{}`, got[0].Payload)
	assert.Equal(t, "2024-01-01T08:00:00Z", got[1].TS)
	assert.JSONEq(t, `{"index":1}`, got[1].Payload)
}
