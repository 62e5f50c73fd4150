package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wareflow/wareflow/pkg/models"
	"github.com/wareflow/wareflow/pkg/persistence"
)

// RuleRepository handles workflow-rule database operations.
type RuleRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewRuleRepository creates a new rule repository.
func NewRuleRepository(db *sql.DB, logger *slog.Logger) *RuleRepository {
	return &RuleRepository{db: db, logger: logger}
}

const ruleColumns = `
	id
  , tenant_id
  , name
  , description
  , enabled
  , trigger_type
  , schedule_expression
  , conditions
  , actions
  , execution_count
  , last_executed_at
  , created_at
  , updated_at
  , deleted_at
`

// FindEnabledByTenantAndTrigger returns the enabled rules of a tenant whose
// trigger type matches.
func (r *RuleRepository) FindEnabledByTenantAndTrigger(ctx context.Context, tenantID string, triggerType models.TriggerType) ([]*models.WorkflowRule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM workflow_rules
		WHERE tenant_id = $1 AND trigger_type = $2 AND enabled AND deleted_at IS NULL
		ORDER BY created_at
	`

	return r.queryRules(ctx, query, tenantID, string(triggerType))
}

// FindScheduledByTenant returns the enabled SCHEDULED rules of a tenant.
func (r *RuleRepository) FindScheduledByTenant(ctx context.Context, tenantID string) ([]*models.WorkflowRule, error) {
	return r.FindEnabledByTenantAndTrigger(ctx, tenantID, models.TriggerScheduled)
}

// FindByID returns a rule regardless of its enabled flag.
func (r *RuleRepository) FindByID(ctx context.Context, id string) (*models.WorkflowRule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM workflow_rules
		WHERE id = $1 AND deleted_at IS NULL
	`

	rule, err := scanRule(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewRuleError("FindByID", id, persistence.ErrRuleNotFound)
		}

		return nil, fmt.Errorf("failed to scan rule: %w", err)
	}

	return rule, nil
}

// IncrementExecutionCount bumps the counter inside the database so concurrent
// firings of the same rule never lose updates.
func (r *RuleRepository) IncrementExecutionCount(ctx context.Context, id string, executedAt time.Time) error {
	query := `
		UPDATE workflow_rules
		SET execution_count = execution_count + 1
		  , last_executed_at = $2
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, executedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to increment execution count: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		return persistence.NewRuleError("IncrementExecutionCount", id, persistence.ErrRuleNotFound)
	}

	return nil
}

// Save validates and upserts a rule.
func (r *RuleRepository) Save(ctx context.Context, rule *models.WorkflowRule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = now
	}

	rule.UpdatedAt = now

	conditions, err := json.Marshal(rule.Conditions)
	if err != nil {
		return fmt.Errorf("failed to marshal conditions: %w", err)
	}

	actions, err := json.Marshal(rule.Actions)
	if err != nil {
		return fmt.Errorf("failed to marshal actions: %w", err)
	}

	query := `
		INSERT INTO workflow_rules (
			id, tenant_id, name, description, enabled,
			trigger_type, schedule_expression, conditions, actions,
			execution_count, last_executed_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name
		  , description = EXCLUDED.description
		  , enabled = EXCLUDED.enabled
		  , trigger_type = EXCLUDED.trigger_type
		  , schedule_expression = EXCLUDED.schedule_expression
		  , conditions = EXCLUDED.conditions
		  , actions = EXCLUDED.actions
		  , updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.ExecContext(ctx, query,
		rule.ID, rule.TenantID, rule.Name, rule.Description, rule.Enabled,
		string(rule.Trigger.Type), rule.Trigger.ScheduleExpression, conditions, actions,
		rule.ExecutionCount, rule.LastExecutedAt, rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save rule: %w", err)
	}

	return nil
}

// Delete soft deletes a rule by setting deleted_at.
func (r *RuleRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE workflow_rules SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		return persistence.NewRuleError("Delete", id, persistence.ErrRuleNotFound)
	}

	return nil
}

func (r *RuleRepository) queryRules(ctx context.Context, query string, args ...any) ([]*models.WorkflowRule, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}

	defer func(ctx context.Context, r *RuleRepository) {
		err := rows.Close()
		if err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}(ctx, r)

	rules := make([]*models.WorkflowRule, 0)

	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}

		rules = append(rules, rule)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating rules: %w", err)
	}

	return rules, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (*models.WorkflowRule, error) {
	var (
		rule           models.WorkflowRule
		triggerType    string
		conditionsJSON []byte
		actionsJSON    []byte
		lastExecutedAt sql.NullTime
		deletedAt      sql.NullTime
	)

	err := row.Scan(
		&rule.ID, &rule.TenantID, &rule.Name, &rule.Description, &rule.Enabled,
		&triggerType, &rule.Trigger.ScheduleExpression, &conditionsJSON, &actionsJSON,
		&rule.ExecutionCount, &lastExecutedAt, &rule.CreatedAt, &rule.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	rule.Trigger.Type = models.TriggerType(triggerType)

	if err := json.Unmarshal(conditionsJSON, &rule.Conditions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conditions: %w", err)
	}

	if err := json.Unmarshal(actionsJSON, &rule.Actions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal actions: %w", err)
	}

	if lastExecutedAt.Valid {
		rule.LastExecutedAt = &lastExecutedAt.Time
	}

	if deletedAt.Valid {
		rule.DeletedAt = &deletedAt.Time
	}

	return &rule, nil
}
