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

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/kamilbartko1/extraliga-sub000/internal/announce"
	"github.com/kamilbartko1/extraliga-sub000/internal/app"
	"github.com/kamilbartko1/extraliga-sub000/internal/cache"
	"github.com/kamilbartko1/extraliga-sub000/internal/config"
	"github.com/kamilbartko1/extraliga-sub000/internal/model"
	"github.com/kamilbartko1/extraliga-sub000/internal/nhl"
	"github.com/kamilbartko1/extraliga-sub000/internal/rating"
	"github.com/kamilbartko1/extraliga-sub000/internal/server"
	"github.com/kamilbartko1/extraliga-sub000/internal/tip"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("redis ping failed", "addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}
	store := cache.NewStore(rdb, cfg.CacheTTL)

	client := nhl.NewClient(cfg.NHLBaseURL,
		nhl.RetryPolicy{Attempts: cfg.RetryAttempts, Delay: cfg.RetryDelay},
		cfg.UpstreamTimeout)
	builder := rating.NewAggregator(client, cfg.BoxscoreWorkers, cfg.TopPlayers)
	picker := tip.NewSelector(client, model.NewScorer(cfg.RatingCenter), cfg.SeasonID(time.Now()))

	var announcer app.Announcer
	if cfg.DiscordToken != "" {
		bot, err := announce.NewBot(cfg.DiscordToken, cfg.DiscordChannelID)
		if err != nil {
			slog.Error("discord bot setup failed", "error", err)
			os.Exit(1)
		}
		if err := bot.Open(); err != nil {
			slog.Error("discord session open failed", "error", err)
			os.Exit(1)
		}
		defer bot.Close()
		announcer = bot
	}

	svc := app.New(client, builder, picker, store, announcer, cfg.RatingWindowDays)

	// Prime the tables and tip on startup so the first request is not slow.
	go svc.Refresh(ctx)

	c := cron.New()
	if _, err := c.AddFunc(cfg.RefreshCron, func() { svc.Refresh(ctx) }); err != nil {
		slog.Error("invalid refresh schedule", "cron", cfg.RefreshCron, "error", err)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      server.New(svc).Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		slog.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down", "reason", ctx.Err())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown failed", "error", err)
	}
}

func logLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
