package engine

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wareflow/wareflow/pkg/models"
	"github.com/wareflow/wareflow/pkg/protocol"
	"github.com/wareflow/wareflow/pkg/registry"
	"github.com/wareflow/wareflow/pkg/template"
)

func newTestExecutor(t *testing.T, factories ...protocol.ActionFactory) *ActionExecutor {
	t.Helper()

	logger := testLogger()
	reg := registry.NewRegistry(logger)

	for _, factory := range factories {
		reg.RegisterAction(factory)
	}

	return NewActionExecutor(logger, reg, template.NewResolver(logger))
}

func successFactory(id models.ActionType, output any) protocol.ActionFactory {
	return &stubFactory{
		id: id,
		create: func(config map[string]any) (protocol.Action, error) {
			return &stubAction{execute: func(ctx context.Context, logger *slog.Logger) (any, error) {
				return output, nil
			}}, nil
		},
	}
}

func TestExecutorBestEffortContinuesPastFailure(t *testing.T) {
	executor := newTestExecutor(t,
		successFactory(models.ActionCreateAlert, map[string]any{"alert_id": "A1"}),
		&stubFactory{
			id: models.ActionSendEmail,
			create: func(config map[string]any) (protocol.Action, error) {
				return &stubAction{execute: func(ctx context.Context, logger *slog.Logger) (any, error) {
					return nil, errors.New("smtp unreachable")
				}}, nil
			},
		},
		successFactory(models.ActionUpdateStatus, map[string]any{"status": "CLOSED"}),
	)

	actions := []*models.Action{
		{Type: models.ActionCreateAlert, Order: 1},
		{Type: models.ActionSendEmail, Order: 2},
		{Type: models.ActionUpdateStatus, Order: 3},
	}

	results := executor.Execute(context.Background(), actions, map[string]any{})
	require.Len(t, results, 3)

	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Equal(t, "smtp unreachable", results[1].Message)
	assert.True(t, results[2].Success)

	assert.Equal(t, models.ExecutionPartial, models.StatusFromResults(results))
}

func TestExecutorRecoversFromHandlerPanic(t *testing.T) {
	executor := newTestExecutor(t,
		&stubFactory{
			id: models.ActionCallWebhook,
			create: func(config map[string]any) (protocol.Action, error) {
				return &stubAction{execute: func(ctx context.Context, logger *slog.Logger) (any, error) {
					panic("nil map write")
				}}, nil
			},
		},
		successFactory(models.ActionCreateAlert, map[string]any{"alert_id": "A2"}),
	)

	actions := []*models.Action{
		{Type: models.ActionCallWebhook, Order: 1},
		{Type: models.ActionCreateAlert, Order: 2},
	}

	results := executor.Execute(context.Background(), actions, map[string]any{})
	require.Len(t, results, 2)

	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Message, "panicked")
	assert.True(t, results[1].Success)
}

func TestExecutorUnknownActionTypeFailsThatActionOnly(t *testing.T) {
	executor := newTestExecutor(t,
		successFactory(models.ActionCreateAlert, nil),
	)

	actions := []*models.Action{
		{Type: models.ActionType("TELEPORT_STOCK"), Order: 1},
		{Type: models.ActionCreateAlert, Order: 2},
	}

	results := executor.Execute(context.Background(), actions, map[string]any{})
	require.Len(t, results, 2)

	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Message, "TELEPORT_STOCK")
	assert.True(t, results[1].Success)
}

func TestExecutorSortsByOrderStably(t *testing.T) {
	var sequence []models.ActionType

	record := func(id models.ActionType) protocol.ActionFactory {
		return &stubFactory{
			id: id,
			create: func(config map[string]any) (protocol.Action, error) {
				return &stubAction{execute: func(ctx context.Context, logger *slog.Logger) (any, error) {
					sequence = append(sequence, id)

					return nil, nil
				}}, nil
			},
		}
	}

	executor := newTestExecutor(t,
		record(models.ActionCreateAlert),
		record(models.ActionSendEmail),
		record(models.ActionUpdateStatus),
	)

	actions := []*models.Action{
		{Type: models.ActionUpdateStatus, Order: 5},
		{Type: models.ActionCreateAlert, Order: 1},
		{Type: models.ActionSendEmail, Order: 1},
	}

	executor.Execute(context.Background(), actions, map[string]any{})

	assert.Equal(t, []models.ActionType{
		models.ActionCreateAlert,
		models.ActionSendEmail,
		models.ActionUpdateStatus,
	}, sequence)
}

func TestExecutorChainsOutputsIntoLaterConfigs(t *testing.T) {
	var emailConfig map[string]any

	executor := newTestExecutor(t,
		successFactory(models.ActionCreatePurchaseOrder, map[string]any{"po_number": "PO-7"}),
		&stubFactory{
			id: models.ActionSendEmail,
			create: func(config map[string]any) (protocol.Action, error) {
				emailConfig = config

				return &stubAction{execute: func(ctx context.Context, logger *slog.Logger) (any, error) {
					return nil, nil
				}}, nil
			},
		},
	)

	actions := []*models.Action{
		{Type: models.ActionCreatePurchaseOrder, Order: 1},
		{
			Type:  models.ActionSendEmail,
			Order: 2,
			Config: map[string]any{
				"byOrder": "{{actions.1.po_number}}",
				"byType":  "{{actions.CREATE_PURCHASE_ORDER.po_number}}",
			},
		},
	}

	executor.Execute(context.Background(), actions, map[string]any{})

	require.NotNil(t, emailConfig)
	assert.Equal(t, "PO-7", emailConfig["byOrder"])
	assert.Equal(t, "PO-7", emailConfig["byType"])
}

func TestExecutorFailedActionOutputNotChained(t *testing.T) {
	var secondConfig map[string]any

	executor := newTestExecutor(t,
		&stubFactory{
			id: models.ActionCallWebhook,
			create: func(config map[string]any) (protocol.Action, error) {
				return &stubAction{execute: func(ctx context.Context, logger *slog.Logger) (any, error) {
					return map[string]any{"status_code": 500}, errors.New("upstream error")
				}}, nil
			},
		},
		&stubFactory{
			id: models.ActionCreateAlert,
			create: func(config map[string]any) (protocol.Action, error) {
				secondConfig = config

				return &stubAction{execute: func(ctx context.Context, logger *slog.Logger) (any, error) {
					return nil, nil
				}}, nil
			},
		},
	)

	actions := []*models.Action{
		{Type: models.ActionCallWebhook, Order: 1},
		{
			Type:   models.ActionCreateAlert,
			Order:  2,
			Config: map[string]any{"title": "{{actions.1.status_code}}"},
		},
	}

	executor.Execute(context.Background(), actions, map[string]any{})

	require.NotNil(t, secondConfig)
	assert.Nil(t, secondConfig["title"])
}

func TestExecutorEmptyBatch(t *testing.T) {
	executor := newTestExecutor(t)

	results := executor.Execute(context.Background(), nil, map[string]any{})
	assert.Empty(t, results)
	assert.Equal(t, models.ExecutionSuccess, models.StatusFromResults(results))
}
