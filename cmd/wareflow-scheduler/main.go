package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"

	"github.com/wareflow/wareflow/pkg/cmd"
	"github.com/wareflow/wareflow/pkg/engine"
	"github.com/wareflow/wareflow/pkg/lock"
	"github.com/wareflow/wareflow/pkg/log"
	"github.com/wareflow/wareflow/pkg/otelhelper"
)

func main() {
	command := &cli.Command{
		Name:                  "wareflow-scheduler",
		Usage:                 "Run scheduled automation rules on their cron expressions",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "scheduler-id",
				Aliases: []string{"id"},
				Usage:   "Custom scheduler ID (auto-generated if not provided)",
				Value:   "",
				Sources: cli.EnvVars("SCHEDULER_ID"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringSliceFlag{
				Name:     "tenant",
				Usage:    "Tenant ID to schedule rules for (repeatable)",
				Required: true,
				Sources:  cli.EnvVars("TENANT_IDS"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for the tick guard (single instance if omitted)",
				Value:   "",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: runScheduler,
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		slog.Error("Scheduler exited with error", "error", err)
		os.Exit(1)
	}
}

func runScheduler(ctx context.Context, command *cli.Command) error {
	log.Setup(command.String("log-level"))

	schedulerID := command.String("scheduler-id")
	if schedulerID == "" {
		schedulerID = fmt.Sprintf("scheduler-%s", uuid.New().String()[:8])
	}

	logger := log.WithModule("wareflow-scheduler").With("scheduler_id", schedulerID)
	logger.Info("Initializing scheduler")

	tracer, err := otelhelper.NewTracer(ctx, "wareflow-scheduler")
	if err != nil {
		return fmt.Errorf("failed to initialize tracer: %w", err)
	}

	persist, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return err
	}

	defer func() {
		if err := persist.Close(ctx); err != nil {
			logger.Error("Failed to close persistence", "error", err)
		}
	}()

	eventBus, err := cmd.NewEventBus(command.String("event-bus"), "wareflow-scheduler", logger)
	if err != nil {
		return err
	}

	defer func() {
		if err := eventBus.Close(); err != nil {
			logger.Error("Failed to close event bus", "error", err)
		}
	}()

	guard, err := newTickGuard(command.String("redis-url"))
	if err != nil {
		return err
	}

	reg := cmd.NewRegistry(logger, cmd.Services{Publisher: eventBus})

	eng := engine.New(logger, persist, reg,
		engine.WithEventBus(eventBus),
		engine.WithTracer(tracer),
		engine.WithTickGuard(guard),
	)

	scheduler := NewScheduler(logger, eng, command.StringSlice("tenant"))

	return scheduler.Run(ctx)
}

func newTickGuard(redisURL string) (lock.Guard, error) {
	if redisURL == "" {
		return lock.NewNoopGuard(), nil
	}

	guard, err := lock.NewRedisGuard(redisURL, "wareflow")
	if err != nil {
		return nil, fmt.Errorf("failed to create redis tick guard: %w", err)
	}

	return guard, nil
}
