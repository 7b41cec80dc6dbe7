package redisstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libredis "fleetdash/backend/libs/redis"
	"fleetdash/backend/services/fleet-dashboard/internal/session"
)

var _ session.Store = (*SessionStore)(nil)

func TestSessionStoreRoundTrip(t *testing.T) {
	addr := os.Getenv("FLEET_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("FLEET_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := libredis.NewRedisClient(ctx, libredis.Options{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	store := NewSessionStore(client)
	id := session.Identity{SessionID: "test-" + time.Now().Format("150405.000000"), UserID: 3, Username: "ops"}

	require.NoError(t, store.Save(ctx, id, time.Minute))
	ok, err := store.Exists(ctx, id.SessionID)
	require.NoError(t, err)
	assert.True(t, ok)

	raw, err := client.Get(ctx, store.key(id.SessionID)).Result()
	require.NoError(t, err)
	assert.Contains(t, raw, `"username":"ops"`)

	require.NoError(t, store.Delete(ctx, id.SessionID))
	ok, err = store.Exists(ctx, id.SessionID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = client.Get(ctx, store.key(id.SessionID)).Result()
	assert.ErrorIs(t, err, redis.Nil)
}
