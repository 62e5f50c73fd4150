// Package protocol defines the contracts between the engine, the pluggable
// action handlers and the host system's collaborators.
package protocol

import (
	"context"
	"log/slog"

	"github.com/wareflow/wareflow/pkg/models"
)

// Action is one configured, ready-to-run side effect. The engine materializes
// the action's config from the trigger context, asks the factory for an
// Action and invokes it. Execute's error (or panic, which the engine
// recovers) becomes a FAILED action result; the returned output is exposed to
// later actions of the same rule for chaining.
type Action interface {
	Execute(ctx context.Context, logger *slog.Logger) (any, error)
}

// ActionFactory creates Action instances from a resolved configuration and
// describes the configuration it accepts.
type ActionFactory interface {
	// ID returns the action type this factory handles.
	ID() models.ActionType

	// Schema returns the JSON schema the resolved config must satisfy.
	Schema() map[string]any

	// Create builds an Action from a resolved config.
	Create(config map[string]any) (Action, error)
}
