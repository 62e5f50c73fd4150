package main

import (
	"context"
	"log/slog"
	"os"

	cli "github.com/urfave/cli/v3"
)

func main() {
	command := &cli.Command{
		Name:                  "wareflow-trigger",
		Usage:                 "Fire business events and run rules manually",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "fire",
				Aliases: []string{"f"},
				Usage:   "Fire a trigger event against a tenant's rules",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tenant-id",
						Usage:    "Tenant whose rules should react",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "trigger-type",
						Usage:    "Trigger type, e.g. STOCK_BELOW_THRESHOLD",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "context",
						Usage: "Event context as a JSON object",
						Value: "{}",
					},
					&cli.StringFlag{
						Name:  "context-file",
						Usage: "Read the event context from a JSON file instead",
					},
				},
				Action: fireEvent,
			},
			{
				Name:    "manual",
				Aliases: []string{"m"},
				Usage:   "Run a single rule manually, bypassing its trigger and enabled flag",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "rule-id",
						Usage:    "Rule to run",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "context",
						Usage: "Event context as a JSON object",
						Value: "{}",
					},
					&cli.StringFlag{
						Name:  "context-file",
						Usage: "Read the event context from a JSON file instead",
					},
				},
				Action: runManual,
			},
			{
				Name:    "executions",
				Aliases: []string{"ls"},
				Usage:   "List the most recent executions of a rule",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "rule-id",
						Usage:    "Rule whose executions to list",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of records",
						Value: 20,
					},
				},
				Action: listExecutions,
			},
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
