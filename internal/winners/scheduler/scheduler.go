// Package scheduler re-runs winner resolution on a cron schedule so standings
// track incoming votes without manual POSTs.
package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"dundies/internal/winners/service"
)

type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// New schedules Resolve on the given cron spec (e.g. "@every 5m").
func New(spec string, svc *service.Service, logger *slog.Logger) (*Scheduler, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx := context.Background()
		winners, err := svc.Resolve(ctx)
		if err != nil {
			// Upstream outages are expected now and then; the next tick retries.
			logger.Warn("scheduled winner resolution failed", "error", err)
			return
		}
		logger.Info("scheduled winner resolution complete", "winners", len(winners))
	})
	if err != nil {
		return nil, err
	}
	return &Scheduler{cron: c, logger: logger}, nil
}

// Start begins the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
