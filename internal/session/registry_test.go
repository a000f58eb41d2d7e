package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikhailyemets/todoplash/internal/session"
)

func TestRegistry_LazyCreateAndClearOnIdle(t *testing.T) {
	store := session.NewMemoryStore()
	reg := session.NewRegistry(store, nil)
	ctx := context.Background()

	assert.Equal(t, session.StateIdle, reg.State(ctx, "42"))

	require.NoError(t, reg.WithSession(ctx, "42", func(s *session.Session) {
		assert.True(t, s.IsIdle())
		s.Enter(session.StateAwaitTaskDesc)
	}))
	assert.Equal(t, session.StateAwaitTaskDesc, reg.State(ctx, "42"))
	assert.Equal(t, 1, store.Len())

	require.NoError(t, reg.Reset(ctx, "42"))
	assert.Equal(t, session.StateIdle, reg.State(ctx, "42"))
	assert.Equal(t, 0, store.Len(), "idle sessions are not kept")
	assert.Equal(t, 0, session.ActiveLocks(reg))
}

func TestRegistry_SerializesPerUser(t *testing.T) {
	reg := session.NewRegistry(session.NewMemoryStore(), nil)
	ctx := context.Background()

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = reg.WithSession(ctx, "same-user", func(*session.Session) {
				mu.Lock()
				active++
				if active > maxSeen {
					maxSeen = active
				}
				mu.Unlock()

				time.Sleep(2 * time.Millisecond)

				mu.Lock()
				active--
				mu.Unlock()
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen, "sessions of one user must never run concurrently")
	assert.Equal(t, 0, session.ActiveLocks(reg))
}

type brokenStore struct{ session.Store }

func (brokenStore) Load(context.Context, string) (*session.Session, error) {
	return nil, errors.New("corrupted")
}

func TestRegistry_UnreadableSessionStartsIdle(t *testing.T) {
	reg := session.NewRegistry(brokenStore{session.NewMemoryStore()}, nil)

	var seen session.State
	require.NoError(t, reg.WithSession(context.Background(), "1", func(s *session.Session) {
		seen = s.State
	}))
	assert.Equal(t, session.StateIdle, seen)
}

func TestSession_EnterClearsPending(t *testing.T) {
	s := session.New("1")
	s.Set("id", "3")
	s.Enter(session.StateAwaitTaskUpdatePair)
	assert.Nil(t, s.Pending)
	assert.False(t, s.IsIdle())
	assert.True(t, s.State.Valid())
	assert.False(t, session.State("BOGUS").Valid())
}

func TestSession_PendingKeepsInsertionOrder(t *testing.T) {
	s := session.New("1")
	s.Set("telegram_id", "555")
	s.Set("group", "testers")
	s.Set("telegram_id", "556")

	assert.Equal(t, []session.Field{
		{Name: "telegram_id", Value: "556"},
		{Name: "group", Value: "testers"},
	}, s.Pending)

	v, ok := s.Get("group")
	assert.True(t, ok)
	assert.Equal(t, "testers", v)
	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestMemoryStore_PendingIsCopied(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()

	s := session.New("1")
	s.Enter(session.StateAwaitUserEditInfo)
	s.Set("telegram_id", "555")
	require.NoError(t, store.Save(ctx, s))
	s.Set("telegram_id", "changed")

	loaded, err := store.Load(ctx, "1")
	require.NoError(t, err)
	v, _ := loaded.Get("telegram_id")
	assert.Equal(t, "555", v)
}
