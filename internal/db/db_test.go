package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (*DB, func()) {
	t.Helper()

	db, err := OpenPath(context.Background(), ":memory:")
	require.NoError(t, err, "failed to open database")

	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup
}

func TestOpenPath(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM recent_components").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	versions, err := MigrationStatus(context.Background(), db.DB)
	require.NoError(t, err)
	assert.Equal(t, []string{"001", "002"}, versions)
}

func TestOpenPathIsIdempotent(t *testing.T) {
	path := t.TempDir() + "/history.db"
	ctx := context.Background()

	first, err := OpenPath(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.AddRecentComponent(ctx, RecentComponent{Key: "foo", Name: "Foo", Qualifier: "TRK"}))
	require.NoError(t, first.Close())

	second, err := OpenPath(ctx, path)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	recent, err := second.ListRecentComponents(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "foo", recent[0].Key)
}

func TestAddRecentComponent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, db.AddRecentComponent(ctx, RecentComponent{Key: "foo", Name: "Foo", Qualifier: "TRK", ViewedAt: base}))
	require.NoError(t, db.AddRecentComponent(ctx, RecentComponent{Key: "bar", Name: "Bar", Qualifier: "APP", ViewedAt: base.Add(time.Minute)}))

	recent, err := db.ListRecentComponents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "bar", recent[0].Key)
	assert.Equal(t, "foo", recent[1].Key)
	assert.True(t, base.Equal(recent[1].ViewedAt))

	// Viewing foo again moves it to the front and updates its fields.
	require.NoError(t, db.AddRecentComponent(ctx, RecentComponent{
		Key: "foo", Name: "Foo renamed", Qualifier: "TRK", Branch: "feature", ViewedAt: base.Add(2 * time.Minute),
	}))
	recent, err = db.ListRecentComponents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "foo", recent[0].Key)
	assert.Equal(t, "Foo renamed", recent[0].Name)
	assert.Equal(t, "feature", recent[0].Branch)
}

func TestAddRecentComponentRequiresKey(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	err := db.AddRecentComponent(context.Background(), RecentComponent{Name: "nameless"})
	require.Error(t, err)
}

func TestRecentComponentsAreCapped(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	db.SetMaxRecent(3)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, db.AddRecentComponent(ctx, RecentComponent{
			Key:       fmt.Sprintf("c%d", i),
			Name:      fmt.Sprintf("C%d", i),
			Qualifier: "TRK",
			ViewedAt:  base.Add(time.Duration(i) * time.Second),
		}))
	}

	recent, err := db.ListRecentComponents(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "c4", recent[0].Key)
	assert.Equal(t, "c3", recent[1].Key)
	assert.Equal(t, "c2", recent[2].Key)
}

func TestListRecentComponentsLimit(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, db.AddRecentComponent(ctx, RecentComponent{Key: key, Name: key, Qualifier: "TRK"}))
	}

	recent, err := db.ListRecentComponents(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestSetMaxRecentDefault(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	db.SetMaxRecent(0)
	assert.Equal(t, DefaultMaxRecent, db.maxRecent)
	db.SetMaxRecent(5)
	assert.Equal(t, 5, db.maxRecent)
}

func TestRecordTaskTransition(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	id, err := db.RecordTaskTransition(ctx, TaskTransition{
		ComponentKey: "foo", TaskID: "AX1", TaskStatus: "SUCCESS", Reason: ReasonTasksUpdated, ObservedAt: base,
	})
	require.NoError(t, err)
	assert.Len(t, id, 36, "generated ids are UUIDs")

	_, err = db.RecordTaskTransition(ctx, TaskTransition{
		ID: "fixed", ComponentKey: "foo", Reason: ReasonBranchAnalyzed, ObservedAt: base.Add(time.Second),
	})
	require.NoError(t, err)
	_, err = db.RecordTaskTransition(ctx, TaskTransition{ComponentKey: "bar", Reason: ReasonRedirect})
	require.NoError(t, err)

	transitions, err := db.ListTaskTransitions(ctx, "foo", 0)
	require.NoError(t, err)
	require.Len(t, transitions, 2)
	assert.Equal(t, "fixed", transitions[0].ID)
	assert.Equal(t, ReasonBranchAnalyzed, transitions[0].Reason)
	assert.Equal(t, id, transitions[1].ID)
	assert.Equal(t, "AX1", transitions[1].TaskID)
	assert.Equal(t, "SUCCESS", transitions[1].TaskStatus)
	assert.True(t, base.Equal(transitions[1].ObservedAt))

	limited, err := db.ListTaskTransitions(ctx, "foo", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRecordTaskTransitionRequiresComponent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := db.RecordTaskTransition(context.Background(), TaskTransition{Reason: ReasonRedirect})
	require.Error(t, err)
}
