package alert

import (
	"github.com/wareflow/wareflow/pkg/eventbus"
	"github.com/wareflow/wareflow/pkg/models"
	"github.com/wareflow/wareflow/pkg/protocol"
)

const defaultSeverity = "info"

type Factory struct {
	publisher eventbus.EventPublisher
}

func NewFactory(publisher eventbus.EventPublisher) *Factory {
	return &Factory{publisher: publisher}
}

func (f *Factory) ID() models.ActionType {
	return models.ActionCreateAlert
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"title", "message"},
		"properties": map[string]any{
			"title":    map[string]any{"type": "string"},
			"message":  map[string]any{"type": "string"},
			"severity": map[string]any{"type": "string", "enum": []any{"info", "warning", "critical"}},
		},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.Action, error) {
	title, _ := config["title"].(string)
	message, _ := config["message"].(string)

	severity, _ := config["severity"].(string)
	if severity == "" {
		severity = defaultSeverity
	}

	return &Action{
		publisher: f.publisher,
		title:     title,
		message:   message,
		severity:  severity,
	}, nil
}
