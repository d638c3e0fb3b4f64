// The security service consumes the audit topic, scores every event, and
// serves the audit-log API on :8005 by default. Backends are selected by
// SECURITY_STORE_BACKEND (memory|postgres) and SECURITY_DEDUP_BACKEND
// (memory|redis).
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"dundies/internal/platform/config"
	"dundies/internal/platform/httpserver"
	kafkaconsumer "dundies/internal/platform/kafka/consumer"
	"dundies/internal/platform/logger"
	"dundies/internal/platform/metrics"
	"dundies/internal/platform/middleware"
	platformredis "dundies/internal/platform/redis"
	securityconsumer "dundies/internal/security/consumer"
	"dundies/internal/security/handler"
	"dundies/internal/security/service"
	"dundies/internal/security/store"
	"dundies/internal/transport/http/shared"
)

const serviceName = "security"

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg := config.SecurityFromEnv()
	log := logger.New(serviceName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logStore, err := newLogStore(ctx, cfg)
	if err != nil {
		log.Error("log store init failed", "backend", cfg.StoreBackend, "error", err)
		return err
	}
	dedupStore, err := newDedupStore(cfg)
	if err != nil {
		log.Error("dedup store init failed", "backend", cfg.DedupBackend, "error", err)
		return err
	}

	svc, err := service.New(logStore, dedupStore,
		service.WithLogger(log),
		service.WithMetrics(service.NewMetrics(prometheus.DefaultRegisterer)),
	)
	if err != nil {
		log.Error("service init failed", "error", err)
		return err
	}

	httpMetrics := metrics.New(serviceName, prometheus.DefaultRegisterer)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Metadata)
	r.Use(middleware.Logger(log))
	r.Use(httpMetrics.Latency)
	r.Get("/health", shared.Health(serviceName))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	handler.New(svc).Register(r)

	server := httpserver.New(cfg.Addr, r)

	g, ctx := errgroup.WithContext(ctx)

	if len(cfg.Kafka.Brokers) > 0 {
		events := securityconsumer.NewEventHandler(svc, log)
		consumer, err := kafkaconsumer.New(cfg.Kafka, events, log)
		if err != nil {
			log.Error("kafka consumer init failed", "error", err)
			return err
		}
		defer consumer.Close()
		g.Go(func() error {
			log.Info("consuming audit events", "topic", cfg.Kafka.Topic, "group", cfg.Kafka.Group)
			return consumer.Run(ctx)
		})
	} else {
		log.Warn("kafka brokers not configured, only the test-event endpoint feeds the log")
	}

	g.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("service exited with error", "error", err)
		return err
	}
	log.Info("service stopped")
	return nil
}

func newLogStore(ctx context.Context, cfg config.Security) (service.LogStore, error) {
	switch cfg.StoreBackend {
	case "memory":
		return store.NewMemoryLog(), nil
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("SECURITY_POSTGRES_DSN is required for the postgres backend")
		}
		return store.OpenPostgres(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func newDedupStore(cfg config.Security) (service.DedupStore, error) {
	switch cfg.DedupBackend {
	case "memory":
		return store.NewMemoryDedup(), nil
	case "redis":
		client, err := platformredis.New(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, fmt.Errorf("REDIS_URL is required for the redis backend")
		}
		return store.NewRedisDedup(client), nil
	default:
		return nil, fmt.Errorf("unknown dedup backend %q", cfg.DedupBackend)
	}
}
