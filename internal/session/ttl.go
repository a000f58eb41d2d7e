package session

import (
	"context"
	"log/slog"
	"time"
)

const ttlWorkerInterval = 5 * time.Minute

// Expirer drops sessions that have not changed for longer than a TTL.
type Expirer interface {
	DeleteExpired(ctx context.Context, ttl time.Duration) (int, error)
}

// DeleteExpired removes sessions last updated more than ttl ago.
func (m *MemoryStore) DeleteExpired(_ context.Context, ttl time.Duration) (int, error) {
	cutoff := time.Now().Add(-ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	for id, s := range m.sessions {
		if s.UpdatedAt.Before(cutoff) {
			delete(m.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}

// StartTTLWorker periodically expires abandoned sessions until ctx is done.
// Redis expires keys on its own, so this is only needed for in-process stores.
func StartTTLWorker(ctx context.Context, store Expirer, ttl time.Duration, logger *slog.Logger) {
	startTTLWorker(ctx, store, ttl, ttlWorkerInterval, logger)
}

func startTTLWorker(ctx context.Context, store Expirer, ttl, interval time.Duration, logger *slog.Logger) <-chan struct{} {
	if logger == nil {
		logger = slog.Default()
	}
	done := make(chan struct{})
	ticker := time.NewTicker(interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		logger.Info("Session TTL worker started", "interval", interval, "ttl", ttl)

		for {
			select {
			case <-ticker.C:
				expireSessions(ctx, store, ttl, logger)
			case <-ctx.Done():
				logger.Info("Session TTL worker shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
	return done
}

func expireSessions(ctx context.Context, store Expirer, ttl time.Duration, logger *slog.Logger) {
	n, err := store.DeleteExpired(ctx, ttl)
	if err != nil {
		logger.Error("Session TTL worker failed to expire sessions", "error", err)
		return
	}
	if n > 0 {
		logger.Info("Session TTL worker expired sessions", "count", n)
	}
}
