package eventlog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_Transitions(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	require.NoError(t, store.RecordTransition("s1", "seeking", "left_far", now))
	require.NoError(t, store.RecordTransition("s1", "left_far", "success", now.Add(time.Second)))
	require.NoError(t, store.RecordTransition("s2", "seeking", "right_near", now))

	got, err := store.RecentTransitions("s1", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Newest first.
	assert.Equal(t, "success", got[0].To)
	assert.Equal(t, "left_far", got[1].To)
	assert.Equal(t, "s1", got[0].SessionID)

	got, err = store.RecentTransitions("s1", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "success", got[0].To)
}

func TestStore_Playbacks(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	require.NoError(t, store.RecordPlayback("s1", "right_near", 4, "strong", "standard", now))
	require.NoError(t, store.RecordPlayback("s1", "success", 1, "strong", "celebratory", now.Add(time.Second)))

	got, err := store.RecentPlaybacks("s1", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "success", got[0].Pattern)
	assert.Equal(t, "celebratory", got[0].Kind)
	assert.Equal(t, 4, got[1].PulseCount)
}

func TestStore_CorruptTimestampDoesNotFailQuery(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	require.NoError(t, store.RecordTransition("s1", "seeking", "left_far", now))
	_, err := store.db.Exec(
		`INSERT INTO transitions (session_id, from_pattern, to_pattern, created_at) VALUES (?, ?, ?, ?)`,
		"s1", "left_far", "seeking", "not-a-timestamp",
	)
	require.NoError(t, err)

	got, err := store.RecentTransitions("s1", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// The corrupt row survives with a zero timestamp; the good row
	// keeps its time.
	assert.True(t, got[0].CreatedAt.IsZero())
	assert.False(t, got[1].CreatedAt.IsZero())
}

func TestStore_EmptySession(t *testing.T) {
	store := openTestStore(t)

	got, err := store.RecentTransitions("nope", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
