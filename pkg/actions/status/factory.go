package status

import (
	"github.com/wareflow/wareflow/pkg/models"
	"github.com/wareflow/wareflow/pkg/protocol"
)

type Factory struct {
	service protocol.StatusService
}

func NewFactory(service protocol.StatusService) *Factory {
	return &Factory{service: service}
}

func (f *Factory) ID() models.ActionType {
	return models.ActionUpdateStatus
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"entityType", "entityId", "newStatus"},
		"properties": map[string]any{
			"entityType": map[string]any{"type": "string"},
			"entityId":   map[string]any{"type": "string"},
			"newStatus":  map[string]any{"type": "string"},
		},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.Action, error) {
	return NewAction(f.service, config)
}
