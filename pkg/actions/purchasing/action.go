// Package purchasing provides the CREATE_PURCHASE_ORDER action handler.
package purchasing

import (
	"context"
	"errors"
	"log/slog"

	"github.com/wareflow/wareflow/pkg/protocol"
)

var ErrNoOrderLines = errors.New("purchase order requires at least one item line")

type Action struct {
	service    protocol.PurchasingService
	supplierID string
	items      []protocol.PurchaseOrderLine
}

// Execute creates the purchase order and returns its PO number so later
// actions in the same rule can reference it.
func (a *Action) Execute(ctx context.Context, logger *slog.Logger) (any, error) {
	logger.InfoContext(ctx, "Creating purchase order", "supplier_id", a.supplierID, "lines", len(a.items))

	poNumber, err := a.service.CreatePurchaseOrder(ctx, a.supplierID, a.items)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Purchase order created", "po_number", poNumber)

	return map[string]any{
		"po_number":   poNumber,
		"supplier_id": a.supplierID,
	}, nil
}
