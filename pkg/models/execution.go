package models

import "time"

// ExecutionStatus summarizes the outcome of one rule invocation.
type ExecutionStatus string

const (
	ExecutionSuccess ExecutionStatus = "SUCCESS"
	ExecutionFailed  ExecutionStatus = "FAILED"
	ExecutionPartial ExecutionStatus = "PARTIAL"
)

// ActionResult captures one action's outcome within a rule invocation.
type ActionResult struct {
	ActionType ActionType    `json:"action_type"`
	Success    bool          `json:"success"`
	Message    string        `json:"message,omitempty"`
	Output     any           `json:"output,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// ExecutionRecord is the append-only audit entry for one rule invocation
// whose conditions passed. It is never mutated after creation.
type ExecutionRecord struct {
	ID             string          `json:"id"`
	WorkflowRuleID string          `json:"workflow_rule_id"`
	TriggerContext map[string]any  `json:"trigger_context"`
	Status         ExecutionStatus `json:"status"`
	ActionResults  []ActionResult  `json:"action_results"`
	ExecutedAt     time.Time       `json:"executed_at"`
	Duration       time.Duration   `json:"duration"`
}

// StatusFromResults derives the record status: SUCCESS iff every action
// succeeded, FAILED iff every action failed, PARTIAL otherwise. An empty
// result set counts as SUCCESS.
func StatusFromResults(results []ActionResult) ExecutionStatus {
	succeeded := 0

	for _, result := range results {
		if result.Success {
			succeeded++
		}
	}

	switch {
	case succeeded == len(results):
		return ExecutionSuccess
	case succeeded == 0:
		return ExecutionFailed
	default:
		return ExecutionPartial
	}
}
