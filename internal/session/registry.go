package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// lockEntry holds the per-user mutex and how many callers reference it.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Registry owns every user's session. Calls for the same user run one at a
// time; different users never block each other.
type Registry struct {
	store  Store
	logger *slog.Logger

	mu    sync.Mutex
	locks map[string]*lockEntry
}

// NewRegistry creates a registry on top of store.
func NewRegistry(store Store, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		store:  store,
		logger: logger,
		locks:  make(map[string]*lockEntry),
	}
}

func (r *Registry) acquire(userID string) *lockEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.locks[userID]
	if !ok {
		entry = &lockEntry{}
		r.locks[userID] = entry
	}
	entry.refs++
	return entry
}

func (r *Registry) release(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.locks[userID]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(r.locks, userID)
	}
}

// WithSession loads (or lazily creates) the user's session, runs fn while
// holding the user's lock, then persists the result. Idle sessions are
// dropped from the store since they carry no data.
func (r *Registry) WithSession(ctx context.Context, userID string, fn func(*Session)) error {
	entry := r.acquire(userID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		r.release(userID)
	}()

	sess, err := r.store.Load(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		sess = New(userID)
	} else if err != nil {
		// An unreadable session is treated as idle so the user is never stuck.
		r.logger.Warn("Failed to load session, starting fresh", "user_id", userID, "error", err)
		sess = New(userID)
	}

	fn(sess)

	if sess.IsIdle() {
		if err := r.store.Delete(ctx, userID); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		return nil
	}
	if err := r.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// State returns the user's current state without modifying it.
func (r *Registry) State(ctx context.Context, userID string) State {
	sess, err := r.store.Load(ctx, userID)
	if err != nil {
		return StateIdle
	}
	return sess.State
}

// Reset forces the user's session back to idle.
func (r *Registry) Reset(ctx context.Context, userID string) error {
	return r.WithSession(ctx, userID, func(s *Session) { s.Reset() })
}

func (r *Registry) activeLocks() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.locks)
}
