package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/wareflow/wareflow/pkg/models"
	"github.com/wareflow/wareflow/pkg/protocol"
)

// MockMailer is a mock implementation of protocol.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, template string) error {
	args := m.Called(ctx, to, subject, template)

	return args.Error(0)
}

// MockPurchasingService is a mock implementation of protocol.PurchasingService.
type MockPurchasingService struct {
	mock.Mock
}

func (m *MockPurchasingService) CreatePurchaseOrder(ctx context.Context, supplierID string, items []protocol.PurchaseOrderLine) (string, error) {
	args := m.Called(ctx, supplierID, items)

	return args.String(0), args.Error(1)
}

// MockInventoryService is a mock implementation of protocol.InventoryService.
type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) AdjustInventory(ctx context.Context, itemID, locationID string, adjustment float64, reason string) error {
	args := m.Called(ctx, itemID, locationID, adjustment, reason)

	return args.Error(0)
}

func (m *MockInventoryService) UpdateItem(ctx context.Context, itemID string, patch map[string]any) error {
	args := m.Called(ctx, itemID, patch)

	return args.Error(0)
}

// MockStatusService is a mock implementation of protocol.StatusService.
type MockStatusService struct {
	mock.Mock
}

func (m *MockStatusService) UpdateStatus(ctx context.Context, entityType, entityID, newStatus string) error {
	args := m.Called(ctx, entityType, entityID, newStatus)

	return args.Error(0)
}

// MockScheduleContextBuilder is a mock implementation of
// protocol.ScheduleContextBuilder.
type MockScheduleContextBuilder struct {
	mock.Mock
}

func (m *MockScheduleContextBuilder) BuildContext(ctx context.Context, rule *models.WorkflowRule, now time.Time) (map[string]any, error) {
	args := m.Called(ctx, rule, now)

	data, _ := args.Get(0).(map[string]any)

	return data, args.Error(1)
}
