package purchasing

import (
	"fmt"

	"github.com/wareflow/wareflow/pkg/models"
	"github.com/wareflow/wareflow/pkg/protocol"
)

type Factory struct {
	service protocol.PurchasingService
}

func NewFactory(service protocol.PurchasingService) *Factory {
	return &Factory{service: service}
}

func (f *Factory) ID() models.ActionType {
	return models.ActionCreatePurchaseOrder
}

func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"supplierId", "items"},
		"properties": map[string]any{
			"supplierId": map[string]any{"type": "string"},
			"items": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":     "object",
					"required": []any{"itemId", "quantity"},
					"properties": map[string]any{
						"itemId":   map[string]any{"type": "string"},
						"quantity": map[string]any{"type": "number"},
					},
				},
			},
		},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.Action, error) {
	supplierID, _ := config["supplierId"].(string)

	rawItems, _ := config["items"].([]any)

	lines := make([]protocol.PurchaseOrderLine, 0, len(rawItems))

	for i, rawItem := range rawItems {
		itemMap, ok := rawItem.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("invalid item line %d in purchase order config", i)
		}

		itemID, _ := itemMap["itemId"].(string)

		quantity, ok := asFloat(itemMap["quantity"])
		if !ok {
			return nil, fmt.Errorf("invalid quantity on item line %d in purchase order config", i)
		}

		lines = append(lines, protocol.PurchaseOrderLine{ItemID: itemID, Quantity: quantity})
	}

	if len(lines) == 0 {
		return nil, ErrNoOrderLines
	}

	return &Action{
		service:    f.service,
		supplierID: supplierID,
		items:      lines,
	}, nil
}

func asFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	default:
		return 0, false
	}
}
