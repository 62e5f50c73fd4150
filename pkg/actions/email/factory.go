package email

import (
	"github.com/wareflow/wareflow/pkg/models"
	"github.com/wareflow/wareflow/pkg/protocol"
)

type Factory struct {
	mailer protocol.Mailer
}

func NewFactory(mailer protocol.Mailer) *Factory {
	return &Factory{mailer: mailer}
}

func (f *Factory) ID() models.ActionType {
	return models.ActionSendEmail
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"to", "subject"},
		"properties": map[string]any{
			"to":       map[string]any{"type": "string"},
			"subject":  map[string]any{"type": "string"},
			"template": map[string]any{"type": "string"},
		},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.Action, error) {
	to, _ := config["to"].(string)
	subject, _ := config["subject"].(string)
	template, _ := config["template"].(string)

	return &Action{
		mailer:   f.mailer,
		to:       to,
		subject:  subject,
		template: template,
	}, nil
}
