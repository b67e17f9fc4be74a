package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/medinfo/medinfo-api/internal/config"
	"github.com/medinfo/medinfo-api/internal/repository/postgres"
	"github.com/medinfo/medinfo-api/pkg/logger"
	redisbroker "github.com/medinfo/medinfo-api/pkg/messaging/redis"
	"github.com/medinfo/medinfo-api/pkg/metrics"
	"github.com/medinfo/medinfo-api/pkg/worker"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := logger.NewLogger(&logger.Config{
		Level:  level,
		Output: os.Stdout,
		Pretty: cfg.Log.Pretty,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redisbroker.NewBroker(redisbroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &log.ZL)
	if err != nil {
		log.Fatal(err, "failed to connect to redis")
	}
	defer broker.Close()

	met := metrics.New("medinfo_worker")

	processor := worker.NewOutboxProcessor(
		postgres.NewOutboxRepository(db),
		broker,
		worker.OutboxConfig{
			PollInterval: cfg.Outbox.PollInterval,
			BatchSize:    cfg.Outbox.BatchSize,
			MaxRetries:   cfg.Outbox.MaxRetries,
			RetryBackoff: cfg.Outbox.RetryBackoff,
			Retention:    cfg.Outbox.Retention,
		},
		met,
		log,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := processor.Run(ctx); err != nil && err != context.Canceled {
			log.Error(err, "outbox processor stopped")
		}
	}()

	// Liveness only; the worker has no request surface.
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	healthSrv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Server.Port+1), Handler: mux}
	go func() {
		if err := healthSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, "health server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("worker shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := healthSrv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "forced health server shutdown")
	}
}
