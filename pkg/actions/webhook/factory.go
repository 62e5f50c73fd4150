package webhook

import (
	"errors"

	"github.com/wareflow/wareflow/pkg/models"
	"github.com/wareflow/wareflow/pkg/protocol"
)

var (
	ErrWebhookURLMissing = errors.New("missing or invalid 'url' in webhook config")
	ErrWebhookFailed     = errors.New("webhook returned error status")
)

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) ID() models.ActionType {
	return models.ActionCallWebhook
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"url"},
		"properties": map[string]any{
			"url":     map[string]any{"type": "string", "format": "uri"},
			"method":  map[string]any{"type": "string", "enum": []any{"GET", "POST", "PUT", "PATCH", "DELETE"}},
			"body":    map[string]any{},
			"headers": map[string]any{"type": "object"},
			"retry": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"attempts": map[string]any{"type": "number"},
					"delay":    map[string]any{"type": "number"},
				},
			},
		},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.Action, error) {
	return NewAction(config)
}
