package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wareflow/wareflow/pkg/models"
	"github.com/wareflow/wareflow/pkg/persistence"
)

const dirPermissions = 0o755
const filePermissions = 0o644

// RuleRepository stores each rule as <root>/rules/<id>.json. A process-wide
// mutex stands in for the database-level atomicity of the SQL backend; this
// backend is for single-process use only.
type RuleRepository struct {
	root  string
	mutex sync.Mutex
}

func NewRuleRepository(root string) *RuleRepository {
	return &RuleRepository{root: root}
}

func (r *RuleRepository) rulesDir() string {
	return filepath.Join(r.root, "rules")
}

func (r *RuleRepository) rulePath(id string) string {
	return filepath.Join(r.rulesDir(), id+".json")
}

func (r *RuleRepository) FindEnabledByTenantAndTrigger(ctx context.Context, tenantID string, triggerType models.TriggerType) ([]*models.WorkflowRule, error) {
	rules, err := r.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*models.WorkflowRule, 0)

	for _, rule := range rules {
		if rule.Enabled && rule.TenantID == tenantID && rule.Trigger.Type == triggerType {
			matched = append(matched, rule)
		}
	}

	return matched, nil
}

func (r *RuleRepository) FindScheduledByTenant(ctx context.Context, tenantID string) ([]*models.WorkflowRule, error) {
	return r.FindEnabledByTenantAndTrigger(ctx, tenantID, models.TriggerScheduled)
}

func (r *RuleRepository) FindByID(_ context.Context, id string) (*models.WorkflowRule, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.readRule(id)
}

func (r *RuleRepository) IncrementExecutionCount(_ context.Context, id string, executedAt time.Time) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	rule, err := r.readRule(id)
	if err != nil {
		return err
	}

	rule.ExecutionCount++
	at := executedAt.UTC()
	rule.LastExecutedAt = &at

	return r.writeRule(rule)
}

func (r *RuleRepository) Save(_ context.Context, rule *models.WorkflowRule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := time.Now().UTC()

	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = now
	}

	rule.UpdatedAt = now

	return r.writeRule(rule)
}

func (r *RuleRepository) Delete(_ context.Context, id string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	err := os.Remove(r.rulePath(id))
	if os.IsNotExist(err) {
		return persistence.NewRuleError("Delete", id, persistence.ErrRuleNotFound)
	}

	if err != nil {
		return fmt.Errorf("failed to delete rule file: %w", err)
	}

	return nil
}

func (r *RuleRepository) loadAll(_ context.Context) ([]*models.WorkflowRule, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	entries, err := os.ReadDir(r.rulesDir())
	if os.IsNotExist(err) {
		return []*models.WorkflowRule{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read rules directory: %w", err)
	}

	rules := make([]*models.WorkflowRule, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		id := entry.Name()[:len(entry.Name())-len(".json")]

		rule, err := r.readRule(id)
		if err != nil {
			return nil, err
		}

		rules = append(rules, rule)
	}

	return rules, nil
}

func (r *RuleRepository) readRule(id string) (*models.WorkflowRule, error) {
	payload, err := os.ReadFile(r.rulePath(id))
	if os.IsNotExist(err) {
		return nil, persistence.NewRuleError("FindByID", id, persistence.ErrRuleNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}

	var rule models.WorkflowRule

	if err := json.Unmarshal(payload, &rule); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rule %s: %w", id, err)
	}

	return &rule, nil
}

func (r *RuleRepository) writeRule(rule *models.WorkflowRule) error {
	if err := os.MkdirAll(r.rulesDir(), dirPermissions); err != nil {
		return fmt.Errorf("failed to create rules directory: %w", err)
	}

	payload, err := json.MarshalIndent(rule, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rule %s: %w", rule.ID, err)
	}

	if err := os.WriteFile(r.rulePath(rule.ID), payload, filePermissions); err != nil {
		return fmt.Errorf("failed to write rule file: %w", err)
	}

	return nil
}
