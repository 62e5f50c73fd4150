package purchasing

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
	"github.com/wareflow/wareflow/pkg/models"
	"github.com/wareflow/wareflow/pkg/protocol"
	"github.com/wareflow/wareflow/pkg/registry"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func TestCreate_ParsesSupplierAndLines(t *testing.T) {
	factory := NewFactory(&mocks.MockPurchasingService{})

	action, err := factory.Create(map[string]any{
		"supplierId": "S1",
		"items": []any{
			map[string]any{"itemId": "I1", "quantity": float64(50)},
			map[string]any{"itemId": "I2", "quantity": 25},
		},
	})
	require.NoError(t, err)

	parsed, ok := action.(*Action)
	require.True(t, ok)
	assert.Equal(t, "S1", parsed.supplierID)
	assert.Equal(t, []protocol.PurchaseOrderLine{
		{ItemID: "I1", Quantity: 50},
		{ItemID: "I2", Quantity: 25},
	}, parsed.items)
}

func TestCreate_NoLines(t *testing.T) {
	factory := NewFactory(&mocks.MockPurchasingService{})

	_, err := factory.Create(map[string]any{"supplierId": "S1", "items": []any{}})
	assert.ErrorIs(t, err, ErrNoOrderLines)
}

func TestCreate_InvalidLines(t *testing.T) {
	factory := NewFactory(&mocks.MockPurchasingService{})

	tests := []struct {
		name  string
		items []any
	}{
		{name: "line is not an object", items: []any{"I1"}},
		{name: "quantity is not numeric", items: []any{map[string]any{"itemId": "I1", "quantity": "fifty"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := factory.Create(map[string]any{"supplierId": "S1", "items": tt.items})
			assert.Error(t, err)
		})
	}
}

func TestExecute_CreatesOrderAndReturnsPONumber(t *testing.T) {
	service := &mocks.MockPurchasingService{}
	service.On("CreatePurchaseOrder", mock.Anything, "S1",
		[]protocol.PurchaseOrderLine{{ItemID: "I1", Quantity: 50}}).
		Return("PO-1001", nil)

	reg := registry.NewRegistry(testLogger())
	reg.RegisterAction(NewFactory(service))

	// Build through the registry so the config also passes schema validation.
	action, err := reg.CreateAction(models.ActionCreatePurchaseOrder, map[string]any{
		"supplierId": "S1",
		"items":      []any{map[string]any{"itemId": "I1", "quantity": float64(50)}},
	})
	require.NoError(t, err)

	output, err := action.Execute(context.Background(), testLogger())
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"po_number": "PO-1001", "supplier_id": "S1"}, output)
	service.AssertExpectations(t)
}

func TestExecute_ServiceFailurePropagates(t *testing.T) {
	service := &mocks.MockPurchasingService{}
	service.On("CreatePurchaseOrder", mock.Anything, "S1", mock.Anything).
		Return("", errors.New("supplier unknown"))

	factory := NewFactory(service)
	action, err := factory.Create(map[string]any{
		"supplierId": "S1",
		"items":      []any{map[string]any{"itemId": "I1", "quantity": float64(5)}},
	})
	require.NoError(t, err)

	_, err = action.Execute(context.Background(), testLogger())
	assert.ErrorContains(t, err, "supplier unknown")
}
