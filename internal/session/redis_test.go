package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikhailyemets/todoplash/internal/session"
)

func newRedisStore(t *testing.T, opts ...session.RedisOption) (*session.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := session.NewRedisStoreFromClient(client, opts...)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore_SaveLoadDelete(t *testing.T) {
	store, mr := newRedisStore(t, session.WithPrefix("test:session:"))
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))

	_, err := store.Load(ctx, "7")
	assert.ErrorIs(t, err, session.ErrNotFound)

	sess := session.New("7")
	sess.Enter(session.StateAwaitDomainList)
	require.NoError(t, store.Save(ctx, sess))
	assert.True(t, mr.Exists("test:session:7"))

	loaded, err := store.Load(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, session.StateAwaitDomainList, loaded.State)
	assert.Equal(t, "7", loaded.UserID)

	require.NoError(t, store.Delete(ctx, "7"))
	assert.False(t, mr.Exists("test:session:7"))
	require.NoError(t, store.Delete(ctx, "7"), "deleting a missing session is fine")
}

func TestRedisStore_PendingOrderSurvivesRoundTrip(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	sess := session.New("9")
	sess.Enter(session.StateAwaitUserAddInfo)
	sess.Set("telegram_id", "555")
	sess.Set("group", "testers")
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Load(ctx, "9")
	require.NoError(t, err)
	assert.Equal(t, sess.Pending, loaded.Pending)
}

func TestRedisStore_TTL(t *testing.T) {
	store, mr := newRedisStore(t, session.WithTTL(time.Minute))
	ctx := context.Background()

	sess := session.New("8")
	sess.Enter(session.StateAwaitTaskDesc)
	require.NoError(t, store.Save(ctx, sess))

	mr.FastForward(2 * time.Minute)
	_, err := store.Load(ctx, "8")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestRedisStore_RejectsUnknownState(t *testing.T) {
	store, mr := newRedisStore(t)
	require.NoError(t, mr.Set("todoplash:session:9", `{"user_id":"9","state":"NOPE"}`))

	_, err := store.Load(context.Background(), "9")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, session.ErrNotFound)
}

func TestRegistryOverRedis(t *testing.T) {
	store, _ := newRedisStore(t)
	reg := session.NewRegistry(store, nil)
	ctx := context.Background()

	require.NoError(t, reg.WithSession(ctx, "10", func(s *session.Session) {
		s.Enter(session.StateAwaitUserEditInfo)
	}))
	// A second registry on the same store sees the open workflow.
	other := session.NewRegistry(store, nil)
	assert.Equal(t, session.StateAwaitUserEditInfo, other.State(ctx, "10"))
}
