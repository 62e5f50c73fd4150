// Package persistence defines the storage contracts the engine depends on.
// Rule CRUD is owned by the host's admin layer; the engine only reads rule
// snapshots and appends execution records.
package persistence

import (
	"context"
	"time"

	"github.com/wareflow/wareflow/pkg/models"
)

// RuleRepository reads and maintains workflow rules.
type RuleRepository interface {
	// FindEnabledByTenantAndTrigger returns the enabled rules of a tenant
	// whose trigger type matches.
	FindEnabledByTenantAndTrigger(ctx context.Context, tenantID string, triggerType models.TriggerType) ([]*models.WorkflowRule, error)

	// FindScheduledByTenant returns the enabled SCHEDULED rules of a tenant.
	FindScheduledByTenant(ctx context.Context, tenantID string) ([]*models.WorkflowRule, error)

	// FindByID returns a rule regardless of its enabled flag, or
	// ErrRuleNotFound.
	FindByID(ctx context.Context, id string) (*models.WorkflowRule, error)

	// IncrementExecutionCount atomically bumps the rule's execution counter
	// and stamps last_executed_at. Implementations must not read-modify-write
	// at the application layer; concurrent firings of the same rule must not
	// lose updates.
	IncrementExecutionCount(ctx context.Context, id string, executedAt time.Time) error

	Save(ctx context.Context, rule *models.WorkflowRule) error
	Delete(ctx context.Context, id string) error
}

// ExecutionStore is the append-only audit trail.
type ExecutionStore interface {
	Append(ctx context.Context, record *models.ExecutionRecord) error

	// ListByRule returns the most recent records for a rule, newest first.
	ListByRule(ctx context.Context, ruleID string, limit int) ([]*models.ExecutionRecord, error)
}

type Persistence interface {
	RuleRepository() RuleRepository
	ExecutionStore() ExecutionStore
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
