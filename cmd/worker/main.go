// Command worker commits guest imports queued with ?async=true.
package main

import (
	"context"
	stderrors "errors"
	"os"
	"os/signal"
	"syscall"

	"event-checkin/core/cache"
	"event-checkin/core/config"
	"event-checkin/core/database"
	"event-checkin/core/logger"
	"event-checkin/core/queue"
	"event-checkin/core/server"
	"event-checkin/modules/guest"
	guestService "event-checkin/modules/guest/service"
	"event-checkin/modules/guest/worker"

	"github.com/hibiken/asynq"
)

const concurrency = 2

func main() {
	if err := run(); err != nil {
		logger.Error("run worker error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.App.LogLevel, cfg.App.LogFormat)
	if !cfg.Redis.Enabled {
		return stderrors.New("worker requires redis.enabled=true")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(server.DatabaseConfig(cfg))
	if err != nil {
		return err
	}
	defer db.Close()

	c, err := cache.New(ctx, cache.Config{
		Enabled:  cfg.Redis.Enabled,
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer c.Close()

	svc := guest.NewService(guest.Deps{
		DB:    &db,
		Cache: c,
		Options: guestService.Options{
			MinEmailLength: cfg.Import.MinEmailLength,
			LookupTTL:      cfg.Redis.LookupTTL,
			Location:       cfg.Location(),
		},
	})

	mux := asynq.NewServeMux()
	worker.Register(mux, svc)

	srv := queue.NewServer(server.RedisConfig(cfg), concurrency)
	if err := srv.Start(mux); err != nil {
		return err
	}
	logger.Info("Worker:Run:Started", "queue", cfg.Redis.Addr)

	<-ctx.Done()
	logger.Info("Worker:Run:ShuttingDown")
	srv.Shutdown()
	return nil
}
