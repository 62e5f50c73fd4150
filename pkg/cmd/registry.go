// Package cmd provides common initialization for the command-line binaries.
package cmd

import (
	"log/slog"

	"github.com/wareflow/wareflow/pkg/actions/alert"
	"github.com/wareflow/wareflow/pkg/actions/email"
	"github.com/wareflow/wareflow/pkg/actions/inventory"
	"github.com/wareflow/wareflow/pkg/actions/purchasing"
	"github.com/wareflow/wareflow/pkg/actions/status"
	"github.com/wareflow/wareflow/pkg/actions/webhook"
	"github.com/wareflow/wareflow/pkg/eventbus"
	"github.com/wareflow/wareflow/pkg/protocol"
	"github.com/wareflow/wareflow/pkg/registry"
)

// Services carries the host collaborators the built-in action handlers adapt
// onto. Handlers whose collaborator is nil are not registered; the webhook
// handler needs none and is always available.
type Services struct {
	Mailer     protocol.Mailer
	Purchasing protocol.PurchasingService
	Inventory  protocol.InventoryService
	Status     protocol.StatusService
	Publisher  eventbus.EventPublisher
}

// NewRegistry builds a registry with every built-in action handler the given
// services can support.
func NewRegistry(logger *slog.Logger, services Services) *registry.Registry {
	reg := registry.NewRegistry(logger)

	reg.RegisterAction(webhook.NewFactory())

	if services.Mailer != nil {
		reg.RegisterAction(email.NewFactory(services.Mailer))
	}

	if services.Purchasing != nil {
		reg.RegisterAction(purchasing.NewFactory(services.Purchasing))
	}

	if services.Inventory != nil {
		reg.RegisterAction(inventory.NewAdjustFactory(services.Inventory))
		reg.RegisterAction(inventory.NewUpdateItemFactory(services.Inventory))
	}

	if services.Status != nil {
		reg.RegisterAction(status.NewFactory(services.Status))
	}

	if services.Publisher != nil {
		reg.RegisterAction(alert.NewFactory(services.Publisher))
	}

	return reg
}
