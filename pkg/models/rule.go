// Package models defines the core domain models for the automation rule engine.
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// WorkflowRule is a tenant-scoped automation definition: a trigger, an ordered
// list of conditions gating execution, and an ordered list of actions to run
// when the conditions pass. The engine treats a fetched rule as an immutable
// snapshot for the duration of one invocation.
type WorkflowRule struct {
	ID             string       `json:"id"              validate:"required"`
	TenantID       string       `json:"tenant_id"       validate:"required"`
	Name           string       `json:"name"            validate:"required,min=3"`
	Description    string       `json:"description,omitempty"`
	Enabled        bool         `json:"enabled"`
	Trigger        Trigger      `json:"trigger"`
	Conditions     []*Condition `json:"conditions"`
	Actions        []*Action    `json:"actions"`
	ExecutionCount int64        `json:"execution_count"`
	LastExecutedAt *time.Time   `json:"last_executed_at,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	DeletedAt      *time.Time   `json:"deleted_at,omitempty"`
}

// Trigger describes what makes a rule eligible for evaluation.
type Trigger struct {
	Type               TriggerType `json:"type"                          validate:"required"`
	ScheduleExpression string      `json:"schedule_expression,omitempty"`
}

var validate = validator.New()

// Validate checks the struct tags plus the schedule invariant: a SCHEDULED
// trigger requires a parseable cron expression, every other trigger type must
// not carry one.
func (r *WorkflowRule) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid rule %q: %w", r.ID, err)
	}

	if !r.Trigger.Type.Valid() {
		return fmt.Errorf("invalid rule %q: %w: %s", r.ID, ErrUnknownTriggerType, r.Trigger.Type)
	}

	if r.Trigger.Type == TriggerScheduled {
		if r.Trigger.ScheduleExpression == "" {
			return fmt.Errorf("invalid rule %q: %w", r.ID, ErrMissingScheduleExpression)
		}

		if _, err := cron.ParseStandard(r.Trigger.ScheduleExpression); err != nil {
			return fmt.Errorf("invalid rule %q: invalid schedule expression %q: %w",
				r.ID, r.Trigger.ScheduleExpression, err)
		}
	} else if r.Trigger.ScheduleExpression != "" {
		return fmt.Errorf("invalid rule %q: %w", r.ID, ErrUnexpectedScheduleExpression)
	}

	for i, condition := range r.Conditions {
		if err := condition.Validate(); err != nil {
			return fmt.Errorf("invalid rule %q: condition %d: %w", r.ID, i, err)
		}
	}

	return nil
}

// Snapshot returns a deep copy of the rule. Invocations operate on snapshots
// so a concurrent edit is never visible mid-evaluation.
func (r *WorkflowRule) Snapshot() *WorkflowRule {
	payload, err := json.Marshal(r)
	if err != nil {
		// Rules are plain JSON-serializable data; this cannot fail for a
		// rule that was loaded from storage in the first place.
		clone := *r

		return &clone
	}

	var clone WorkflowRule

	if err := json.Unmarshal(payload, &clone); err != nil {
		fallback := *r

		return &fallback
	}

	return &clone
}
