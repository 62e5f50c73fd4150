package protocol

import (
	"context"
	"time"

	"github.com/wareflow/wareflow/pkg/models"
)

// The built-in handlers do not implement warehouse side effects themselves;
// they adapt action configs onto these host-supplied collaborators.

// Mailer sends operator-facing notification mail.
type Mailer interface {
	Send(ctx context.Context, to, subject, template string) error
}

// PurchaseOrderLine is one requested line of a purchase order.
type PurchaseOrderLine struct {
	ItemID   string  `json:"item_id"`
	Quantity float64 `json:"quantity"`
}

// PurchasingService creates purchase orders. CreatePurchaseOrder returns the
// PO number so later actions in the same rule can reference it.
type PurchasingService interface {
	CreatePurchaseOrder(ctx context.Context, supplierID string, items []PurchaseOrderLine) (string, error)
}

// InventoryService mutates inventory balances and item master data.
type InventoryService interface {
	AdjustInventory(ctx context.Context, itemID, locationID string, adjustment float64, reason string) error
	UpdateItem(ctx context.Context, itemID string, patch map[string]any) error
}

// StatusService transitions a business entity to a new status.
type StatusService interface {
	UpdateStatus(ctx context.Context, entityType, entityID, newStatus string) error
}

// ScheduleContextBuilder supplies the event context for a SCHEDULED rule when
// its cron expression matches, e.g. the lots expiring within N days that the
// rule declared interest in. The engine never builds scheduled contexts
// itself.
type ScheduleContextBuilder interface {
	BuildContext(ctx context.Context, rule *models.WorkflowRule, now time.Time) (map[string]any, error)
}
