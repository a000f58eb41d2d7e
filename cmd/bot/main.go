// todoplash Telegram front-end.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/mikhailyemets/todoplash/internal/bot"
	"github.com/mikhailyemets/todoplash/internal/config"
	"github.com/mikhailyemets/todoplash/internal/identity"
	"github.com/mikhailyemets/todoplash/internal/metrics"
	"github.com/mikhailyemets/todoplash/internal/session"
	"github.com/mikhailyemets/todoplash/internal/storeclient"
	"github.com/mikhailyemets/todoplash/internal/telegram"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.ValidateBot(); err != nil {
		slog.Error("Invalid bot configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions, closeSessions, err := newSessionStore(ctx, cfg.Bot.Redis)
	if err != nil {
		slog.Error("Failed to initialize session store", "error", err)
		os.Exit(1)
	}
	defer closeSessions()

	admins := identity.NewAllowList(cfg.Bot.AdminIDs)
	if admins.Len() == 0 {
		slog.Warn("ADMIN_IDS is empty, admin workflows are disabled")
	}

	client := storeclient.New(cfg.Bot.APIURL,
		storeclient.WithTimeout(cfg.Bot.StoreTimeout),
		storeclient.WithLogger(logger),
	)
	controller := bot.New(client, session.NewRegistry(sessions, logger), admins, bot.WithLogger(logger))

	tg, err := telegram.New(cfg.Bot.Token, controller, telegram.WithLogger(logger))
	if err != nil {
		slog.Error("Failed to create Telegram bot", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting bot", "api_url", cfg.Bot.APIURL, "admins", admins.Len(), "redis", cfg.Bot.Redis.Enabled())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return tg.Run(gctx)
	})
	if cfg.Bot.MetricsAddr != "" {
		g.Go(func() error {
			return serveMetrics(gctx, cfg.Bot.MetricsAddr)
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("Bot stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Bot stopped successfully")
}

func newSessionStore(ctx context.Context, cfg config.RedisConfig) (session.Store, func(), error) {
	if !cfg.Enabled() {
		slog.Info("Using in-memory session store", "ttl", cfg.SessionTTL)
		ms := session.NewMemoryStore()
		session.StartTTLWorker(ctx, ms, cfg.SessionTTL, slog.Default())
		return ms, func() {}, nil
	}

	rs := session.NewRedisStore(cfg.Addr, cfg.Password, cfg.DB, session.WithTTL(cfg.SessionTTL))
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rs.Ping(pingCtx); err != nil {
		_ = rs.Close()
		return nil, nil, err
	}
	slog.Info("Using Redis session store", "addr", cfg.Addr, "ttl", cfg.SessionTTL)
	return rs, func() {
		if err := rs.Close(); err != nil {
			slog.Error("Failed to close session store", "error", err)
		}
	}, nil
}

func serveMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("Metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
