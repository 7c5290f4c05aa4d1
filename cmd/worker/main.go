package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/healthmate/healthmate-api/internal/config"
	"github.com/healthmate/healthmate-api/internal/repository/postgres"
	"github.com/healthmate/healthmate-api/internal/worker"
	"github.com/healthmate/healthmate-api/pkg/logger"
	"github.com/healthmate/healthmate-api/pkg/messaging/redis"
	"github.com/healthmate/healthmate-api/pkg/metrics"
)

// WorkerOptions are runtime knobs for the background jobs, read from the
// environment so deployments can tune them without touching the config file.
type WorkerOptions struct {
	BatchSize           int `envconfig:"BATCH_SIZE" default:"50"`
	PollIntervalSeconds int `envconfig:"POLL_INTERVAL_SECONDS" default:"15"`
	HealthPort          int `envconfig:"HEALTH_PORT" default:"8081"`
}

func setupHealthCheck(lg *logger.Logger, port int) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
			lg.Error(err, "health check server failed")
			os.Exit(1)
		}
	}()
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	var opts WorkerOptions
	if err := envconfig.Process("worker", &opts); err != nil {
		log.Fatal().Err(err).Msg("failed to load worker options")
	}

	lg := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(redis.Config{URL: cfg.Redis.URL}, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	outbreakRepo := postgres.NewOutbreakRepository(db)
	m := metrics.NewMetrics("healthmate", "worker")

	publisher := worker.NewAlertPublisher(outbreakRepo, broker, worker.AlertPublisherConfig{
		BatchSize:    opts.BatchSize,
		PollInterval: time.Duration(opts.PollIntervalSeconds) * time.Second,
	}, lg, m)
	refresh := worker.NewRefreshJob(outbreakRepo, lg)

	setupHealthCheck(lg, opts.HealthPort)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("shutting down...")
		cancel()
	}()

	go refresh.Start(ctx)
	publisher.Start(ctx)
}
