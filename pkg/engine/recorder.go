package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wareflow/wareflow/pkg/models"
	"github.com/wareflow/wareflow/pkg/persistence"
)

// Recorder assembles the audit record for one condition-passing invocation,
// appends it to the execution store and bumps the rule's execution counter.
// It is never called for skipped rules: only condition-passing invocations
// count as executions.
type Recorder struct {
	logger *slog.Logger
	rules  persistence.RuleRepository
	store  persistence.ExecutionStore
}

func NewRecorder(logger *slog.Logger, rules persistence.RuleRepository, store persistence.ExecutionStore) *Recorder {
	return &Recorder{
		logger: logger.With("module", "recorder"),
		rules:  rules,
		store:  store,
	}
}

// Record persists the execution record and increments the rule's counter.
// Either write failing is a hard failure of the invocation: without an audit
// sink the invocation cannot complete meaningfully.
func (r *Recorder) Record(
	ctx context.Context,
	rule *models.WorkflowRule,
	triggerContext map[string]any,
	results []models.ActionResult,
	executedAt time.Time,
	duration time.Duration,
) (*models.ExecutionRecord, error) {
	record := &models.ExecutionRecord{
		ID:             generateExecutionID(),
		WorkflowRuleID: rule.ID,
		TriggerContext: cloneContext(triggerContext),
		Status:         models.StatusFromResults(results),
		ActionResults:  results,
		ExecutedAt:     executedAt.UTC(),
		Duration:       duration,
	}

	if err := r.store.Append(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to append execution record for rule %s: %w", rule.ID, err)
	}

	if err := r.rules.IncrementExecutionCount(ctx, rule.ID, executedAt); err != nil {
		return nil, fmt.Errorf("failed to increment execution count for rule %s: %w", rule.ID, err)
	}

	r.logger.InfoContext(ctx, "Recorded execution",
		"rule_id", rule.ID,
		"execution_id", record.ID,
		"status", record.Status,
		"actions", len(results))

	return record, nil
}

// generateExecutionID generates a unique execution ID.
func generateExecutionID() string {
	return fmt.Sprintf("exec-%s", uuid.New().String()[:8])
}

// cloneContext deep-copies the trigger context so the immutable record never
// aliases caller-owned state.
func cloneContext(triggerContext map[string]any) map[string]any {
	if triggerContext == nil {
		return nil
	}

	payload, err := json.Marshal(triggerContext)
	if err != nil {
		clone := make(map[string]any, len(triggerContext))
		for key, value := range triggerContext {
			clone[key] = value
		}

		return clone
	}

	var clone map[string]any

	if err := json.Unmarshal(payload, &clone); err != nil {
		fallback := make(map[string]any, len(triggerContext))
		for key, value := range triggerContext {
			fallback[key] = value
		}

		return fallback
	}

	return clone
}
