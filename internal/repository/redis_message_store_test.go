package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (MessageStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisMessageStore(client, "peer-support:messages"), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	empty, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NotNil(t, empty)

	want := sampleRecords()
	require.NoError(t, store.SaveAll(ctx, want))
	assert.True(t, mr.Exists("peer-support:messages"))

	got, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRedisStoreSaveReplacesCollection(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)

	require.NoError(t, store.SaveAll(ctx, sampleRecords()))
	require.NoError(t, store.SaveAll(ctx, sampleRecords()[1:]))

	got, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestRedisStoreRejectsCorruptValue(t *testing.T) {
	store, mr := newRedisStore(t)
	require.NoError(t, mr.Set("peer-support:messages", "not json"))

	_, err := store.LoadAll(context.Background())
	assert.Error(t, err)
}

func TestRedisStoreUnavailable(t *testing.T) {
	store, mr := newRedisStore(t)
	mr.Close()

	_, err := store.LoadAll(context.Background())
	assert.Error(t, err)
}
