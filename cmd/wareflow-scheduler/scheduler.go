package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wareflow/wareflow/pkg/engine"
)

// Scheduler drives the engine's schedule tick once per minute for each
// configured tenant. A slow tick is skipped rather than stacked, and a
// panicking tick is recovered, so the cron runner itself never dies.
type Scheduler struct {
	logger  *slog.Logger
	engine  *engine.Engine
	tenants []string
}

func NewScheduler(logger *slog.Logger, eng *engine.Engine, tenants []string) *Scheduler {
	return &Scheduler{
		logger:  logger,
		engine:  eng,
		tenants: tenants,
	}
}

// Run blocks until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	runner := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	_, err := runner.AddFunc("* * * * *", func() {
		s.tick(ctx, time.Now())
	})
	if err != nil {
		return err
	}

	s.logger.Info("Scheduler started", "tenants", s.tenants)
	runner.Start()

	<-ctx.Done()

	s.logger.Info("Scheduler stopping")

	stopCtx := runner.Stop()
	<-stopCtx.Done()

	return nil
}

func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	for _, tenantID := range s.tenants {
		records, err := s.engine.TickScheduled(ctx, tenantID, now)
		if err != nil {
			s.logger.Error("Schedule tick finished with failures", "tenant_id", tenantID, "error", err)
		}

		if len(records) > 0 {
			s.logger.Info("Schedule tick executed rules", "tenant_id", tenantID, "executions", len(records))
		}
	}
}
