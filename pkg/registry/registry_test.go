package registry

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wareflow/wareflow/pkg/models"
	"github.com/wareflow/wareflow/pkg/protocol"
)

type stubAction struct{}

func (s *stubAction) Execute(_ context.Context, _ *slog.Logger) (any, error) {
	return "ok", nil
}

type stubFactory struct {
	id     models.ActionType
	schema map[string]any
}

func (f *stubFactory) ID() models.ActionType { return f.id }

func (f *stubFactory) Schema() map[string]any { return f.schema }

func (f *stubFactory) Create(_ map[string]any) (protocol.Action, error) {
	return &stubAction{}, nil
}

func newTestRegistry() *Registry {
	return NewRegistry(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

func TestRegistry_RegisterAndCreate(t *testing.T) {
	reg := newTestRegistry()
	reg.RegisterAction(&stubFactory{id: "CREATE_ALERT"})

	assert.True(t, reg.IsRegistered("CREATE_ALERT"))
	assert.False(t, reg.IsRegistered("UNKNOWN"))

	action, err := reg.CreateAction("CREATE_ALERT", map[string]any{"title": "x"})
	require.NoError(t, err)
	assert.NotNil(t, action)
}

func TestRegistry_UnregisteredType(t *testing.T) {
	reg := newTestRegistry()

	action, err := reg.CreateAction("NOPE", map[string]any{})
	assert.Nil(t, action)
	assert.ErrorIs(t, err, ErrActionNotRegistered)
}

func TestRegistry_SchemaValidation(t *testing.T) {
	reg := newTestRegistry()
	reg.RegisterAction(&stubFactory{
		id: "SEND_EMAIL",
		schema: map[string]any{
			"type":     "object",
			"required": []any{"to", "subject"},
			"properties": map[string]any{
				"to":      map[string]any{"type": "string"},
				"subject": map[string]any{"type": "string"},
			},
		},
	})

	_, err := reg.CreateAction("SEND_EMAIL", map[string]any{"to": "ops@example.com"})
	assert.ErrorIs(t, err, ErrConfigSchemaViolation)

	action, err := reg.CreateAction("SEND_EMAIL", map[string]any{
		"to":      "ops@example.com",
		"subject": "Low stock",
	})
	require.NoError(t, err)
	assert.NotNil(t, action)
}

func TestRegistry_AvailableActions(t *testing.T) {
	reg := newTestRegistry()
	reg.RegisterAction(&stubFactory{id: "A"})
	reg.RegisterAction(&stubFactory{id: "B"})

	assert.ElementsMatch(t, []models.ActionType{"A", "B"}, reg.AvailableActions())
}
