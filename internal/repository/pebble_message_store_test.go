package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPebbleStoreRoundTripSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db", "messages")

	store, err := OpenPebbleMessageStore(path)
	require.NoError(t, err)

	empty, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
	require.NoError(t, store.Ping(ctx))

	want := sampleRecords()
	require.NoError(t, store.SaveAll(ctx, want))
	require.NoError(t, store.Close())
	assert.Error(t, store.Ping(ctx))

	reopened, err := OpenPebbleMessageStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.LoadAll(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestPebbleStoreHonorsCancelledContext(t *testing.T) {
	store, err := OpenPebbleMessageStore(filepath.Join(t.TempDir(), "messages"))
	require.NoError(t, err)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.LoadAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.SaveAll(ctx, sampleRecords()), context.Canceled)
}
