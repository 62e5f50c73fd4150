package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/wareflow/wareflow/pkg/models"
	"github.com/wareflow/wareflow/pkg/persistence"
)

// MockRuleRepository is a mock implementation of persistence.RuleRepository.
type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) FindEnabledByTenantAndTrigger(ctx context.Context, tenantID string, triggerType models.TriggerType) ([]*models.WorkflowRule, error) {
	args := m.Called(ctx, tenantID, triggerType)

	rules, _ := args.Get(0).([]*models.WorkflowRule)

	return rules, args.Error(1)
}

func (m *MockRuleRepository) FindScheduledByTenant(ctx context.Context, tenantID string) ([]*models.WorkflowRule, error) {
	args := m.Called(ctx, tenantID)

	rules, _ := args.Get(0).([]*models.WorkflowRule)

	return rules, args.Error(1)
}

func (m *MockRuleRepository) FindByID(ctx context.Context, id string) (*models.WorkflowRule, error) {
	args := m.Called(ctx, id)

	rule, _ := args.Get(0).(*models.WorkflowRule)

	return rule, args.Error(1)
}

func (m *MockRuleRepository) IncrementExecutionCount(ctx context.Context, id string, executedAt time.Time) error {
	args := m.Called(ctx, id, executedAt)

	return args.Error(0)
}

func (m *MockRuleRepository) Save(ctx context.Context, rule *models.WorkflowRule) error {
	args := m.Called(ctx, rule)

	return args.Error(0)
}

func (m *MockRuleRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

// MockExecutionStore is a mock implementation of persistence.ExecutionStore.
type MockExecutionStore struct {
	mock.Mock
}

func (m *MockExecutionStore) Append(ctx context.Context, record *models.ExecutionRecord) error {
	args := m.Called(ctx, record)

	return args.Error(0)
}

func (m *MockExecutionStore) ListByRule(ctx context.Context, ruleID string, limit int) ([]*models.ExecutionRecord, error) {
	args := m.Called(ctx, ruleID, limit)

	records, _ := args.Get(0).([]*models.ExecutionRecord)

	return records, args.Error(1)
}

// MockPersistence is a mock implementation of persistence.Persistence that
// hands out mock repositories.
type MockPersistence struct {
	mock.Mock

	Rules      *MockRuleRepository
	Executions *MockExecutionStore
}

func NewMockPersistence() *MockPersistence {
	return &MockPersistence{
		Rules:      &MockRuleRepository{},
		Executions: &MockExecutionStore{},
	}
}

func (m *MockPersistence) RuleRepository() persistence.RuleRepository {
	return m.Rules
}

func (m *MockPersistence) ExecutionStore() persistence.ExecutionStore {
	return m.Executions
}

func (m *MockPersistence) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockPersistence) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}
