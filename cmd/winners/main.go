// The winners service resolves per-category winners from the nominations and
// voting snapshots, listening on :8003 by default. Setting
// WINNERS_RESOLVE_CRON re-runs resolution on a schedule.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"dundies/internal/audit"
	"dundies/internal/platform/config"
	"dundies/internal/platform/httpserver"
	"dundies/internal/platform/logger"
	"dundies/internal/platform/metrics"
	"dundies/internal/platform/middleware"
	"dundies/internal/transport/http/shared"
	"dundies/internal/winners/client"
	"dundies/internal/winners/handler"
	"dundies/internal/winners/scheduler"
	"dundies/internal/winners/service"
	"dundies/internal/winners/store"
)

const serviceName = "winners"

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg := config.WinnersFromEnv()
	log := logger.New(serviceName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus, closeBus, err := audit.NewBus(ctx, cfg.Kafka, log)
	if err != nil {
		log.Error("audit bus init failed", "error", err)
		return err
	}
	defer closeBus()

	publisher := audit.NewPublisher(bus,
		audit.WithLogger(log),
		audit.WithMetrics(audit.NewPublisherMetrics(serviceName, prometheus.DefaultRegisterer)),
	)
	defer publisher.Close()

	nominations := client.NewNominationsClient(cfg.NominationsURL)
	votes := client.NewVotingClient(cfg.VotingURL)
	svc, err := service.New(store.NewMemory(), nominations, votes,
		service.WithLogger(log),
		service.WithAuditPublisher(publisher),
	)
	if err != nil {
		log.Error("service init failed", "error", err)
		return err
	}

	if cfg.ResolveCron != "" {
		sched, err := scheduler.New(cfg.ResolveCron, svc, log)
		if err != nil {
			log.Error("invalid resolve cron spec", "spec", cfg.ResolveCron, "error", err)
			return err
		}
		sched.Start()
		defer sched.Stop()
		log.Info("scheduled winner resolution enabled", "spec", cfg.ResolveCron)
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
	handler.New(svc, log).Register(r)

	server := httpserver.New(cfg.Addr, r)

	g, ctx := errgroup.WithContext(ctx)
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
