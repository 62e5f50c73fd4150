package inventory

import (
	"context"
	"errors"
	"log/slog"

	"github.com/wareflow/wareflow/pkg/models"
	"github.com/wareflow/wareflow/pkg/protocol"
)

var ErrEmptyPatch = errors.New("item update requires a non-empty patch")

type UpdateItemAction struct {
	service protocol.InventoryService
	itemID  string
	patch   map[string]any
}

func (a *UpdateItemAction) Execute(ctx context.Context, logger *slog.Logger) (any, error) {
	logger.InfoContext(ctx, "Updating item", "item_id", a.itemID, "fields", len(a.patch))

	if err := a.service.UpdateItem(ctx, a.itemID, a.patch); err != nil {
		return nil, err
	}

	return map[string]any{"item_id": a.itemID}, nil
}

type UpdateItemFactory struct {
	service protocol.InventoryService
}

func NewUpdateItemFactory(service protocol.InventoryService) *UpdateItemFactory {
	return &UpdateItemFactory{service: service}
}

func (f *UpdateItemFactory) ID() models.ActionType {
	return models.ActionUpdateItem
}

func (f *UpdateItemFactory) Schema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"itemId", "patch"},
		"properties": map[string]any{
			"itemId": map[string]any{"type": "string"},
			"patch":  map[string]any{"type": "object"},
		},
	}
}

func (f *UpdateItemFactory) Create(config map[string]any) (protocol.Action, error) {
	itemID, _ := config["itemId"].(string)

	patch, _ := config["patch"].(map[string]any)
	if len(patch) == 0 {
		return nil, ErrEmptyPatch
	}

	return &UpdateItemAction{
		service: f.service,
		itemID:  itemID,
		patch:   patch,
	}, nil
}
