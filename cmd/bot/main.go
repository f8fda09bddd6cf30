package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pressly/goose/v3"
	"github.com/subosito/gotenv"

	"inventario-bot/internal/api"
	"inventario-bot/internal/bot"
	"inventario-bot/internal/cache"
	"inventario-bot/internal/config"
	"inventario-bot/internal/dialog"
	"inventario-bot/internal/infra/db"
	httpx "inventario-bot/internal/infra/http"
	"inventario-bot/internal/infra/logger"
	"inventario-bot/internal/scan"
	"inventario-bot/internal/session"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

// sessionTokens adapts the session store to the API client's
// token source.
type sessionTokens struct {
	store session.Store
}

func (s sessionTokens) Token(ctx context.Context, chatID int64) (string, error) {
	sess, err := s.store.Get(ctx, chatID)
	if err != nil || sess == nil {
		return "", err
	}
	return sess.Token, nil
}

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	sessions := session.NewRepo(pool)
	states := dialog.NewRepo(pool)

	client := api.New(cfg.API.BaseURL,
		time.Duration(cfg.API.TimeoutSec)*time.Second,
		sessionTokens{store: sessions}, log)
	resolver := scan.NewResolver(client, cfg.Scan.MaxConcurrent)
	remoteCache := cache.New(time.Duration(cfg.Cache.TTLSec) * time.Second)

	tg, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("telegram init failed", "err", err)
		return
	}
	log.Info("telegram bot authorized", "user", tg.Self.UserName)

	b := bot.New(tg, log, sessions, states, client, remoteCache, resolver)
	if err := b.Run(ctx, 30); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("bot stopped", "err", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
