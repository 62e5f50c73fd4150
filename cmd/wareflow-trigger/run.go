package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/wareflow/wareflow/pkg/cmd"
	"github.com/wareflow/wareflow/pkg/engine"
	"github.com/wareflow/wareflow/pkg/log"
	"github.com/wareflow/wareflow/pkg/models"
	"github.com/wareflow/wareflow/pkg/persistence"
)

func fireEvent(ctx context.Context, command *cli.Command) error {
	eng, _, cleanup, err := setup(ctx, command)
	if err != nil {
		return err
	}
	defer cleanup()

	eventContext, err := loadContext(command)
	if err != nil {
		return err
	}

	records, err := eng.FireEvent(ctx,
		command.String("tenant-id"),
		models.TriggerType(command.String("trigger-type")),
		eventContext)
	if err != nil {
		return err
	}

	fmt.Printf("Executed %d rule(s)\n", len(records))

	return printJSON(records)
}

func runManual(ctx context.Context, command *cli.Command) error {
	eng, _, cleanup, err := setup(ctx, command)
	if err != nil {
		return err
	}
	defer cleanup()

	eventContext, err := loadContext(command)
	if err != nil {
		return err
	}

	record, err := eng.ExecuteManual(ctx, command.String("rule-id"), eventContext)
	if err != nil {
		return err
	}

	if record == nil {
		fmt.Println("Conditions not met, rule skipped")

		return nil
	}

	return printJSON(record)
}

func listExecutions(ctx context.Context, command *cli.Command) error {
	_, persist, cleanup, err := setup(ctx, command)
	if err != nil {
		return err
	}
	defer cleanup()

	records, err := persist.ExecutionStore().ListByRule(ctx, command.String("rule-id"), command.Int("limit"))
	if err != nil {
		return err
	}

	return printJSON(records)
}

func setup(ctx context.Context, command *cli.Command) (*engine.Engine, persistence.Persistence, func(), error) {
	log.Setup(command.String("log-level"))
	logger := log.WithModule("wareflow-trigger")

	persist, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return nil, nil, nil, err
	}

	eventBus, err := cmd.NewEventBus(command.String("event-bus"), "wareflow-trigger", logger)
	if err != nil {
		_ = persist.Close(ctx)

		return nil, nil, nil, err
	}

	reg := cmd.NewRegistry(logger, cmd.Services{Publisher: eventBus})

	eng := engine.New(logger, persist, reg, engine.WithEventBus(eventBus))

	cleanup := func() {
		if err := eventBus.Close(); err != nil {
			logger.Error("Failed to close event bus", "error", err)
		}

		if err := persist.Close(ctx); err != nil {
			logger.Error("Failed to close persistence", "error", err)
		}
	}

	return eng, persist, cleanup, nil
}

func loadContext(command *cli.Command) (map[string]any, error) {
	payload := []byte(command.String("context"))

	if path := command.String("context-file"); path != "" {
		var err error

		payload, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read context file: %w", err)
		}
	}

	var eventContext map[string]any

	if err := json.Unmarshal(payload, &eventContext); err != nil {
		return nil, fmt.Errorf("failed to parse event context: %w", err)
	}

	return eventContext, nil
}

func printJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(value)
}
