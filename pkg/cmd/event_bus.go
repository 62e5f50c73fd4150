package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/wareflow/wareflow/pkg/channels/gochannel"
	"github.com/wareflow/wareflow/pkg/channels/kafka"
	"github.com/wareflow/wareflow/pkg/eventbus"
)

// NewEventBus creates the lifecycle event bus for the given provider. The
// "gochannel" provider is in-process only; multi-instance deployments use
// "kafka".
func NewEventBus(provider, serviceName string, logger *slog.Logger) (eventbus.EventBus, error) {
	watermillLogger := watermill.NewSlogLogger(logger)

	switch provider {
	case "kafka":
		pub, sub, err := kafka.CreateChannel(watermillLogger, serviceName)
		if err != nil {
			return nil, fmt.Errorf("failed to create kafka pub/sub: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub), nil
	case "gochannel", "":
		pub, sub, err := gochannel.CreateChannel(watermillLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create gochannel pub/sub: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub), nil
	default:
		return nil, fmt.Errorf("unsupported event bus provider: %s", provider)
	}
}
