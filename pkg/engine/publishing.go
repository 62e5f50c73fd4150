package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wareflow/wareflow/pkg/events"
	"github.com/wareflow/wareflow/pkg/models"
)

// Event publishing is best-effort: a publish failure is logged and never
// fails the invocation that produced it.

func (e *Engine) publishTriggered(ctx context.Context, rule *models.WorkflowRule, trigger models.TriggerEvent) {
	if e.publisher == nil {
		return
	}

	event := events.AutomationTriggered{
		BaseEvent:      e.baseEvent(events.AutomationTriggeredEvent, rule),
		TriggerType:    trigger.Type,
		TriggerContext: trigger.Context,
	}

	if err := e.publisher.Publish(ctx, rule.ID, event); err != nil {
		e.logger.WarnContext(ctx, "Failed to publish triggered event", "rule_id", rule.ID, "error", err)
	}
}

func (e *Engine) publishRecorded(ctx context.Context, rule *models.WorkflowRule, record *models.ExecutionRecord) {
	if e.publisher == nil {
		return
	}

	event := events.ExecutionRecorded{
		BaseEvent:   e.baseEvent(events.ExecutionRecordedEvent, rule),
		ExecutionID: record.ID,
		Status:      record.Status,
		Duration:    record.Duration,
	}

	if err := e.publisher.Publish(ctx, rule.ID, event); err != nil {
		e.logger.WarnContext(ctx, "Failed to publish recorded event", "rule_id", rule.ID, "error", err)
	}
}

func (e *Engine) publishFailed(ctx context.Context, rule *models.WorkflowRule, failure error) {
	if e.publisher == nil {
		return
	}

	event := events.ExecutionFailed{
		BaseEvent: e.baseEvent(events.ExecutionFailedEvent, rule),
		Error:     failure.Error(),
	}

	if err := e.publisher.Publish(ctx, rule.ID, event); err != nil {
		e.logger.WarnContext(ctx, "Failed to publish failed event", "rule_id", rule.ID, "error", err)
	}
}

func (e *Engine) baseEvent(eventType events.EventType, rule *models.WorkflowRule) events.BaseEvent {
	return events.BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		TenantID:  rule.TenantID,
		RuleID:    rule.ID,
	}
}
