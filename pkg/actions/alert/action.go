// Package alert provides the CREATE_ALERT action handler. Alerts are
// published on the event bus; the host's notification surface consumes them.
package alert

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wareflow/wareflow/pkg/eventbus"
	"github.com/wareflow/wareflow/pkg/events"
)

type Action struct {
	publisher eventbus.EventPublisher
	title     string
	message   string
	severity  string
}

func (a *Action) Execute(ctx context.Context, logger *slog.Logger) (any, error) {
	logger.InfoContext(ctx, "Raising alert", "title", a.title, "severity", a.severity)

	alertID := uuid.New().String()

	event := events.AlertRaised{
		BaseEvent: events.BaseEvent{
			ID:        alertID,
			Type:      events.AlertRaisedEvent,
			Timestamp: time.Now().UTC(),
		},
		Title:    a.title,
		Message:  a.message,
		Severity: a.severity,
	}

	if err := a.publisher.Publish(ctx, alertID, event); err != nil {
		return nil, err
	}

	return map[string]any{
		"alert_id": alertID,
		"title":    a.title,
		"severity": a.severity,
	}, nil
}
