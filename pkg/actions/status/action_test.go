package status

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wareflow/wareflow/pkg/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func TestNewAction_Validation(t *testing.T) {
	tests := []struct {
		name     string
		config   map[string]any
		expected error
	}{
		{
			name:     "missing entity type",
			config:   map[string]any{"entityId": "WO-99", "newStatus": "ON_HOLD"},
			expected: ErrEntityMissing,
		},
		{
			name:     "missing entity id",
			config:   map[string]any{"entityType": "work_order", "newStatus": "ON_HOLD"},
			expected: ErrEntityMissing,
		},
		{
			name:     "missing status",
			config:   map[string]any{"entityType": "work_order", "entityId": "WO-99"},
			expected: ErrStatusMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAction(&mocks.MockStatusService{}, tt.config)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestExecute_UpdatesStatus(t *testing.T) {
	service := &mocks.MockStatusService{}
	service.On("UpdateStatus", mock.Anything, "work_order", "WO-99", "ON_HOLD").Return(nil)

	factory := NewFactory(service)
	action, err := factory.Create(map[string]any{
		"entityType": "work_order",
		"entityId":   "WO-99",
		"newStatus":  "ON_HOLD",
	})
	require.NoError(t, err)

	output, err := action.Execute(context.Background(), testLogger())
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"entity_type": "work_order",
		"entity_id":   "WO-99",
		"status":      "ON_HOLD",
	}, output)
	service.AssertExpectations(t)
}

func TestExecute_ServiceFailurePropagates(t *testing.T) {
	service := &mocks.MockStatusService{}
	service.On("UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("transition not allowed"))

	action, err := NewAction(service, map[string]any{
		"entityType": "work_order",
		"entityId":   "WO-99",
		"newStatus":  "ON_HOLD",
	})
	require.NoError(t, err)

	_, err = action.Execute(context.Background(), testLogger())
	assert.ErrorContains(t, err, "transition not allowed")
}
