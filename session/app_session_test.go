package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*AppSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewAppSessionStore(rdb, time.Hour), mr
}

func TestCreateGetDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "sid-1", "user-1"))

	as, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	require.Equal(t, "user-1", as.UserID)
	require.Greater(t, as.ExpiresAt, as.IssuedAt)

	require.NoError(t, store.Delete(ctx, "sid-1"))
	_, err = store.Get(ctx, "sid-1")
	require.Error(t, err)
}

func TestSessionExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "sid-1", "user-1"))
	mr.FastForward(2 * time.Hour)

	_, err := store.Get(ctx, "sid-1")
	require.Error(t, err)
}

func TestRevokeAllForUser(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "sid-1", "user-1"))
	require.NoError(t, store.Create(ctx, "sid-2", "user-1"))
	require.NoError(t, store.Create(ctx, "sid-3", "user-2"))

	require.NoError(t, store.RevokeAllForUser(ctx, "user-1"))

	_, err := store.Get(ctx, "sid-1")
	require.Error(t, err)
	_, err = store.Get(ctx, "sid-2")
	require.Error(t, err)

	// unrelated user keeps their session
	as, err := store.Get(ctx, "sid-3")
	require.NoError(t, err)
	require.Equal(t, "user-2", as.UserID)
}
