package file

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wareflow/wareflow/pkg/models"
	"github.com/wareflow/wareflow/pkg/persistence"
)

func newTestPersistence(t *testing.T) *Persistence {
	t.Helper()

	return NewPersistence(t.TempDir())
}

func sampleRule(id, tenantID string, triggerType models.TriggerType) *models.WorkflowRule {
	return &models.WorkflowRule{
		ID:       id,
		TenantID: tenantID,
		Name:     "Low stock reorder",
		Enabled:  true,
		Trigger:  models.Trigger{Type: triggerType},
		Conditions: []*models.Condition{
			{Field: "quantityOnHand", Operator: models.OperatorLessThan, Value: float64(10)},
		},
	}
}

func TestRuleRepositorySaveAndFindByID(t *testing.T) {
	persist := newTestPersistence(t)
	repo := persist.RuleRepository()
	ctx := context.Background()

	rule := sampleRule("rule-1", "tenant-1", models.TriggerStockBelowThreshold)
	require.NoError(t, repo.Save(ctx, rule))

	found, err := repo.FindByID(ctx, "rule-1")
	require.NoError(t, err)
	assert.Equal(t, "rule-1", found.ID)
	assert.Equal(t, "tenant-1", found.TenantID)
	assert.False(t, found.CreatedAt.IsZero())
	require.Len(t, found.Conditions, 1)
	assert.Equal(t, models.OperatorLessThan, found.Conditions[0].Operator)
}

func TestRuleRepositorySaveRejectsInvalidRule(t *testing.T) {
	persist := newTestPersistence(t)
	repo := persist.RuleRepository()

	rule := sampleRule("rule-1", "", models.TriggerStockBelowThreshold)
	require.Error(t, repo.Save(context.Background(), rule))
}

func TestRuleRepositoryFindByIDNotFound(t *testing.T) {
	persist := newTestPersistence(t)

	_, err := persist.RuleRepository().FindByID(context.Background(), "missing")
	require.ErrorIs(t, err, persistence.ErrRuleNotFound)
}

func TestRuleRepositoryFindEnabledByTenantAndTrigger(t *testing.T) {
	persist := newTestPersistence(t)
	repo := persist.RuleRepository()
	ctx := context.Background()

	matching := sampleRule("rule-1", "tenant-1", models.TriggerStockBelowThreshold)
	otherTenant := sampleRule("rule-2", "tenant-2", models.TriggerStockBelowThreshold)
	otherTrigger := sampleRule("rule-3", "tenant-1", models.TriggerOrderCreated)
	disabled := sampleRule("rule-4", "tenant-1", models.TriggerStockBelowThreshold)
	disabled.Enabled = false

	for _, rule := range []*models.WorkflowRule{matching, otherTenant, otherTrigger, disabled} {
		require.NoError(t, repo.Save(ctx, rule))
	}

	rules, err := repo.FindEnabledByTenantAndTrigger(ctx, "tenant-1", models.TriggerStockBelowThreshold)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "rule-1", rules[0].ID)
}

func TestRuleRepositoryFindScheduledByTenant(t *testing.T) {
	persist := newTestPersistence(t)
	repo := persist.RuleRepository()
	ctx := context.Background()

	scheduled := sampleRule("rule-1", "tenant-1", models.TriggerScheduled)
	scheduled.Trigger.ScheduleExpression = "0 6 * * *"
	eventDriven := sampleRule("rule-2", "tenant-1", models.TriggerStockBelowThreshold)

	require.NoError(t, repo.Save(ctx, scheduled))
	require.NoError(t, repo.Save(ctx, eventDriven))

	rules, err := repo.FindScheduledByTenant(ctx, "tenant-1")
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "rule-1", rules[0].ID)
}

func TestRuleRepositoryIncrementExecutionCount(t *testing.T) {
	persist := newTestPersistence(t)
	repo := persist.RuleRepository()
	ctx := context.Background()

	rule := sampleRule("rule-1", "tenant-1", models.TriggerStockBelowThreshold)
	require.NoError(t, repo.Save(ctx, rule))

	executedAt := time.Date(2026, 8, 26, 14, 30, 0, 0, time.UTC)
	require.NoError(t, repo.IncrementExecutionCount(ctx, "rule-1", executedAt))
	require.NoError(t, repo.IncrementExecutionCount(ctx, "rule-1", executedAt.Add(time.Minute)))

	found, err := repo.FindByID(ctx, "rule-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), found.ExecutionCount)
	require.NotNil(t, found.LastExecutedAt)
	assert.Equal(t, executedAt.Add(time.Minute), *found.LastExecutedAt)
}

func TestRuleRepositoryIncrementExecutionCountConcurrent(t *testing.T) {
	const increments = 50

	persist := newTestPersistence(t)
	repo := persist.RuleRepository()
	ctx := context.Background()

	rule := sampleRule("rule-1", "tenant-1", models.TriggerStockBelowThreshold)
	require.NoError(t, repo.Save(ctx, rule))

	var wg sync.WaitGroup
	for range increments {
		wg.Add(1)

		go func() {
			defer wg.Done()

			assert.NoError(t, repo.IncrementExecutionCount(ctx, "rule-1", time.Now()))
		}()
	}

	wg.Wait()

	found, err := repo.FindByID(ctx, "rule-1")
	require.NoError(t, err)
	assert.Equal(t, int64(increments), found.ExecutionCount)
}

func TestRuleRepositoryDelete(t *testing.T) {
	persist := newTestPersistence(t)
	repo := persist.RuleRepository()
	ctx := context.Background()

	rule := sampleRule("rule-1", "tenant-1", models.TriggerStockBelowThreshold)
	require.NoError(t, repo.Save(ctx, rule))
	require.NoError(t, repo.Delete(ctx, "rule-1"))

	_, err := repo.FindByID(ctx, "rule-1")
	require.ErrorIs(t, err, persistence.ErrRuleNotFound)

	require.ErrorIs(t, repo.Delete(ctx, "rule-1"), persistence.ErrRuleNotFound)
}

func TestExecutionStoreAppendAndListByRule(t *testing.T) {
	persist := newTestPersistence(t)
	store := persist.ExecutionStore()
	ctx := context.Background()

	for i, status := range []models.ExecutionStatus{models.ExecutionSuccess, models.ExecutionFailed, models.ExecutionPartial} {
		record := &models.ExecutionRecord{
			ID:             "exec-" + string(rune('a'+i)),
			WorkflowRuleID: "rule-1",
			Status:         status,
			ExecutedAt:     time.Date(2026, 8, 26, 14, 30+i, 0, 0, time.UTC),
		}
		require.NoError(t, store.Append(ctx, record))
	}

	records, err := store.ListByRule(ctx, "rule-1", 0)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Newest first.
	assert.Equal(t, models.ExecutionPartial, records[0].Status)
	assert.Equal(t, models.ExecutionSuccess, records[2].Status)

	limited, err := store.ListByRule(ctx, "rule-1", 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, models.ExecutionPartial, limited[0].Status)
}

func TestExecutionStoreListByRuleEmpty(t *testing.T) {
	persist := newTestPersistence(t)

	records, err := persist.ExecutionStore().ListByRule(context.Background(), "rule-none", 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPersistenceHealthCheck(t *testing.T) {
	persist := newTestPersistence(t)
	require.NoError(t, persist.HealthCheck(context.Background()))

	missing := NewPersistence("/nonexistent/wareflow-test")
	require.Error(t, missing.HealthCheck(context.Background()))
}
