package alert

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wareflow/wareflow/pkg/eventbus"
	"github.com/wareflow/wareflow/pkg/events"
	"github.com/wareflow/wareflow/pkg/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func TestCreate_DefaultSeverity(t *testing.T) {
	factory := NewFactory(&mocks.MockEventBus{})

	action, err := factory.Create(map[string]any{"title": "Low stock", "message": "A-1 below reorder point"})
	require.NoError(t, err)

	parsed, ok := action.(*Action)
	require.True(t, ok)
	assert.Equal(t, "info", parsed.severity)
}

func TestExecute_PublishesAlertRaised(t *testing.T) {
	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, mock.Anything, mock.MatchedBy(func(event eventbus.Event) bool {
		raised, ok := event.(events.AlertRaised)

		return ok &&
			raised.Type == events.AlertRaisedEvent &&
			raised.Title == "Low stock" &&
			raised.Message == "A-1 below reorder point" &&
			raised.Severity == "critical"
	})).Return(nil)

	factory := NewFactory(bus)
	action, err := factory.Create(map[string]any{
		"title":    "Low stock",
		"message":  "A-1 below reorder point",
		"severity": "critical",
	})
	require.NoError(t, err)

	output, err := action.Execute(context.Background(), testLogger())
	require.NoError(t, err)

	result, ok := output.(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, result["alert_id"])
	assert.Equal(t, "Low stock", result["title"])
	assert.Equal(t, "critical", result["severity"])

	bus.AssertExpectations(t)
}

func TestExecute_PublishFailurePropagates(t *testing.T) {
	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	factory := NewFactory(bus)
	action, err := factory.Create(map[string]any{"title": "Low stock", "message": "A-1 below reorder point"})
	require.NoError(t, err)

	_, err = action.Execute(context.Background(), testLogger())
	assert.ErrorContains(t, err, "broker down")
}
