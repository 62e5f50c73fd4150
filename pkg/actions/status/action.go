package status

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wareflow/wareflow/pkg/protocol"
)

var (
	ErrEntityMissing = errors.New("status update requires entityType and entityId")
	ErrStatusMissing = errors.New("status update requires newStatus")
)

// Action transitions a business entity (work order, shipment, lot) to a new
// status through the host's status service.
type Action struct {
	service    protocol.StatusService
	entityType string
	entityID   string
	newStatus  string
}

func NewAction(service protocol.StatusService, config map[string]any) (*Action, error) {
	entityType, _ := config["entityType"].(string)
	entityID, _ := config["entityId"].(string)

	if entityType == "" || entityID == "" {
		return nil, ErrEntityMissing
	}

	newStatus, _ := config["newStatus"].(string)
	if newStatus == "" {
		return nil, ErrStatusMissing
	}

	return &Action{
		service:    service,
		entityType: entityType,
		entityID:   entityID,
		newStatus:  newStatus,
	}, nil
}

func (a *Action) Execute(ctx context.Context, logger *slog.Logger) (any, error) {
	logger.InfoContext(ctx, "Updating entity status",
		"entity_type", a.entityType, "entity_id", a.entityID, "new_status", a.newStatus)

	if err := a.service.UpdateStatus(ctx, a.entityType, a.entityID, a.newStatus); err != nil {
		return nil, fmt.Errorf("update status of %s %s: %w", a.entityType, a.entityID, err)
	}

	return map[string]any{
		"entity_type": a.entityType,
		"entity_id":   a.entityID,
		"status":      a.newStatus,
	}, nil
}
