package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/carebooker/carebooker-api/internal/config"
	"github.com/carebooker/carebooker-api/internal/email"
	"github.com/carebooker/carebooker-api/internal/repository/postgres"
	"github.com/carebooker/carebooker-api/pkg/logger"
	"github.com/carebooker/carebooker-api/pkg/messaging/redis"
	"github.com/carebooker/carebooker-api/pkg/metrics"
	"github.com/carebooker/carebooker-api/pkg/worker"
)

func setupHealthCheck(log *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(":8081", mux); err != nil {
			log.ZL.Error().Err(err).Msg("Health check server failed")
			os.Exit(1)
		}
	}()
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to load config")
	}

	zlog.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	log := &logger.Logger{ZL: zlog.Logger}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.ZL.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &zlog.Logger)
	if err != nil {
		log.ZL.Fatal().Err(err).Msg("Failed to create Redis broker")
	}
	defer broker.Close()

	outboxRepo := postgres.NewOutboxRepository(db)

	processor := worker.NewOutboxProcessor(
		outboxRepo,
		broker,
		worker.OutboxProcessorConfig{
			BatchSize:     cfg.Outbox.BatchSize,
			PollInterval:  time.Duration(cfg.Outbox.IntervalSeconds) * time.Second,
			RetryAttempts: cfg.Outbox.MaxRetries,
			RetryDelay:    time.Second,
		},
		log,
		metrics.NewMetrics("carebooker", "worker"),
	)

	notifier := worker.NewNotifier(broker, email.NewSMTPService(cfg.SMTP), log)
	cleanup := worker.NewOutboxCleanupWorker(outboxRepo, cfg.Outbox.RetentionDays, time.Hour, log)

	setupHealthCheck(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.ZL.Info().Msg("Shutting down...")
		cancel()
	}()

	go func() {
		if err := notifier.Start(ctx); err != nil {
			log.ZL.Error().Err(err).Msg("Notifier stopped")
		}
	}()
	go cleanup.Start(ctx)

	processor.Start(ctx)
}
