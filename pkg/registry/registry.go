// Package registry maps action types to their handler factories. The set of
// action types is open-ended: hosts extend the engine by registering their
// own factories at process start.
package registry

import (
	"fmt"
	"log/slog"

	"github.com/xeipuuv/gojsonschema"

	"github.com/wareflow/wareflow/pkg/models"
	"github.com/wareflow/wareflow/pkg/protocol"
)

type Registry struct {
	logger    *slog.Logger
	factories map[models.ActionType]protocol.ActionFactory
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:    logger.With("module", "registry"),
		factories: make(map[models.ActionType]protocol.ActionFactory),
	}
}

func (r *Registry) RegisterAction(factory protocol.ActionFactory) {
	r.factories[factory.ID()] = factory
	r.logger.Debug("Registered action handler", "action_type", factory.ID())
}

// IsRegistered reports whether a handler exists for the action type.
func (r *Registry) IsRegistered(actionType models.ActionType) bool {
	_, exists := r.factories[actionType]

	return exists
}

// AvailableActions returns all registered action types.
func (r *Registry) AvailableActions() []models.ActionType {
	types := make([]models.ActionType, 0, len(r.factories))
	for actionType := range r.factories {
		types = append(types, actionType)
	}

	return types
}

// CreateAction validates the resolved config against the factory's schema and
// builds the action. An unregistered type or a schema violation is a
// configuration error for that single action, not for the batch.
func (r *Registry) CreateAction(actionType models.ActionType, config map[string]any) (protocol.Action, error) {
	factory, ok := r.factories[actionType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrActionNotRegistered, actionType)
	}

	if err := validateConfig(factory.Schema(), config); err != nil {
		return nil, fmt.Errorf("invalid config for action type %s: %w", actionType, err)
	}

	return factory.Create(config)
}

func validateConfig(schema, config map[string]any) error {
	if schema == nil {
		return nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(config),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if !result.Valid() {
		return fmt.Errorf("%w: %v", ErrConfigSchemaViolation, result.Errors())
	}

	return nil
}
