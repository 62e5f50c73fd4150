// Package events defines the lifecycle notifications the engine publishes
// after rule invocations.
package events

import (
	"time"

	"github.com/wareflow/wareflow/pkg/models"
)

type EventType string

// Topic carries all automation lifecycle events.
const Topic = "wareflow.executions"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	AutomationTriggeredEvent EventType = "automation.triggered"
	ExecutionRecordedEvent   EventType = "automation.execution.recorded"
	ExecutionFailedEvent     EventType = "automation.execution.failed"
	AlertRaisedEvent         EventType = "automation.alert.raised"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	TenantID  string         `json:"tenant_id,omitempty"`
	RuleID    string         `json:"rule_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// AutomationTriggered marks a rule whose conditions passed and whose actions
// are about to run.
type AutomationTriggered struct {
	BaseEvent

	TriggerType    models.TriggerType `json:"trigger_type"`
	TriggerContext map[string]any     `json:"trigger_context,omitempty"`
}

func (e AutomationTriggered) GetType() EventType {
	return AutomationTriggeredEvent
}

// ExecutionRecorded carries the audit record written for one invocation.
type ExecutionRecorded struct {
	BaseEvent

	ExecutionID string                 `json:"execution_id"`
	Status      models.ExecutionStatus `json:"status"`
	Duration    time.Duration          `json:"duration"`
}

func (e ExecutionRecorded) GetType() EventType {
	return ExecutionRecordedEvent
}

// ExecutionFailed marks an invocation that could not be completed at all,
// e.g. the audit write failed.
type ExecutionFailed struct {
	BaseEvent

	Error string `json:"error"`
}

func (e ExecutionFailed) GetType() EventType {
	return ExecutionFailedEvent
}

// AlertRaised is published by the CREATE_ALERT handler.
type AlertRaised struct {
	BaseEvent

	Title    string `json:"title"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

func (e AlertRaised) GetType() EventType {
	return AlertRaisedEvent
}
