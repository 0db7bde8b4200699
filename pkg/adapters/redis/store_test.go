package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/fsmview/pkg/adapters/redis"
	"github.com/aretw0/fsmview/pkg/domain"
	"github.com/aretw0/fsmview/pkg/ports"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	return mr, backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
}

func idle(name string) *domain.Snapshot {
	return &domain.Snapshot{States: []domain.StateRecord{{ID: 0, Name: name, Parent: -1}}}
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)

	store := redis.NewFromClient(client)
	ports.RunSnapshotStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	err := store.Save(ctx, "Demo", idle("Demo"))
	require.NoError(t, err)

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "Demo")

	// Key expiration is driven by miniredis' clock.
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "Demo")
	assert.ErrorIs(t, err, domain.ErrMachineNotFound)

	// Index pruning compares against the wall clock.
	time.Sleep(1200 * time.Millisecond)

	names, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	err := store.Save(ctx, "Demo", idle("Demo"))
	require.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:machine:Demo"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	require.NoError(t, store.Clear(ctx))
	assert.False(t, mr.Exists("custom:app:machine:Demo"))
	assert.False(t, mr.Exists("custom:app:index"))
}

func TestRedisStore_ClearKeepsForeignKeys(t *testing.T) {
	mr, client := newClient(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("other:key", "value"))

	store := redis.NewFromClient(client)
	require.NoError(t, store.Save(ctx, "Demo", idle("Demo")))
	require.NoError(t, store.Clear(ctx))

	assert.True(t, mr.Exists("other:key"))
	assert.NoError(t, store.Ping(ctx))
}

func TestRedisStore_CorruptPayload(t *testing.T) {
	mr, client := newClient(t)

	require.NoError(t, mr.Set(redis.DefaultPrefix+"machine:Broken", "{not json"))

	store := redis.NewFromClient(client)
	_, err := store.Load(context.Background(), "Broken")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrMachineNotFound)
}
