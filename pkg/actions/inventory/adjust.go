// Package inventory provides the ADJUST_INVENTORY and UPDATE_ITEM action
// handlers over the host's inventory service.
package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wareflow/wareflow/pkg/models"
	"github.com/wareflow/wareflow/pkg/protocol"
)

type AdjustAction struct {
	service    protocol.InventoryService
	itemID     string
	locationID string
	adjustment float64
	reason     string
}

func (a *AdjustAction) Execute(ctx context.Context, logger *slog.Logger) (any, error) {
	logger.InfoContext(ctx, "Adjusting inventory",
		"item_id", a.itemID,
		"location_id", a.locationID,
		"adjustment", a.adjustment,
		"reason", a.reason)

	if err := a.service.AdjustInventory(ctx, a.itemID, a.locationID, a.adjustment, a.reason); err != nil {
		return nil, err
	}

	return map[string]any{
		"item_id":    a.itemID,
		"adjustment": a.adjustment,
	}, nil
}

type AdjustFactory struct {
	service protocol.InventoryService
}

func NewAdjustFactory(service protocol.InventoryService) *AdjustFactory {
	return &AdjustFactory{service: service}
}

func (f *AdjustFactory) ID() models.ActionType {
	return models.ActionAdjustInventory
}

func (f *AdjustFactory) Schema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"itemId", "locationId", "adjustment"},
		"properties": map[string]any{
			"itemId":     map[string]any{"type": "string"},
			"locationId": map[string]any{"type": "string"},
			"adjustment": map[string]any{"type": "number"},
			"reason":     map[string]any{"type": "string"},
		},
	}
}

func (f *AdjustFactory) Create(config map[string]any) (protocol.Action, error) {
	itemID, _ := config["itemId"].(string)
	locationID, _ := config["locationId"].(string)
	reason, _ := config["reason"].(string)

	adjustment, ok := asFloat(config["adjustment"])
	if !ok {
		return nil, fmt.Errorf("invalid adjustment in inventory config: %v", config["adjustment"])
	}

	return &AdjustAction{
		service:    f.service,
		itemID:     itemID,
		locationID: locationID,
		adjustment: adjustment,
		reason:     reason,
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
