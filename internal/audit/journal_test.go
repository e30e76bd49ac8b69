package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atharvakonge/portfolio-admin/internal/db"
)

func TestMemory_RecentNewestFirst(t *testing.T) {
	j := NewMemory(3)
	ctx := context.Background()

	for _, action := range []string{ActionLogin, ActionNotify, ActionUpdateStock, ActionImpersonate} {
		require.NoError(t, j.Record(ctx, Entry{Actor: "abc", Action: action, Success: true}))
	}

	entries, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3, "oldest entry is evicted")
	assert.Equal(t, ActionImpersonate, entries[0].Action)
	assert.Equal(t, ActionNotify, entries[2].Action)
	assert.False(t, entries[0].CreatedAt.IsZero())

	entries, err = j.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLog_NilJournal(t *testing.T) {
	assert.NotPanics(t, func() {
		Log(context.Background(), nil, Entry{Action: ActionLogin})
	})
}

func TestPostgres_RecordAndRecent(t *testing.T) {
	database := db.SetupTestDB(t)
	defer database.Close()
	defer db.CleanupTestDB(t, database)

	j := NewPostgres(database)
	ctx := context.Background()

	require.NoError(t, j.Record(ctx, Entry{Actor: "abc", Action: ActionCreateAdmin, Target: "ops@x.com", Success: true}))
	require.NoError(t, j.Record(ctx, Entry{Actor: "abc", Action: ActionUpdateStock, Target: "TCS", Success: false, Detail: "Failed to update stock"}))

	entries, err := j.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ActionUpdateStock, entries[0].Action)
	assert.False(t, entries[0].Success)
	assert.Equal(t, "ops@x.com", entries[1].Target)
}
