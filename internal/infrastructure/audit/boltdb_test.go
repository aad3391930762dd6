package audit

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "audit.db"), "audit")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAppendAndRecent(t *testing.T) {
	store := newTestStore(t)

	now := time.Now()
	require.NoError(t, store.Append(Event{Kind: KindFingerprintMismatch, SessionID: "sid-1", Timestamp: now.Add(-2 * time.Minute)}))
	require.NoError(t, store.Append(Event{Kind: KindStoreUnavailable, Timestamp: now.Add(-time.Minute)}))
	require.NoError(t, store.Append(Event{Kind: KindSessionPurged, SessionID: "sid-2", Timestamp: now}))

	events, err := store.Recent(2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, KindSessionPurged, events[0].Kind)
	assert.Equal(t, KindStoreUnavailable, events[1].Kind)

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 3, size)
}

func TestAppendAssignsIDAndTimestamp(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Append(Event{Kind: KindFingerprintMismatch}))

	events, err := store.Recent(1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.NotEmpty(t, events[0].ID)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestPruneEnforcesRetention(t *testing.T) {
	store := newTestStore(t)

	now := time.Now()
	require.NoError(t, store.Append(Event{Kind: KindFingerprintMismatch, Timestamp: now.Add(-48 * time.Hour)}))
	require.NoError(t, store.Append(Event{Kind: KindFingerprintMismatch, Timestamp: now.Add(-30 * time.Hour)}))
	require.NoError(t, store.Append(Event{Kind: KindFingerprintMismatch, Timestamp: now}))

	removed, err := store.Prune(now.Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 1, size)
}
