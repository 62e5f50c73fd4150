package models

import "errors"

var (
	ErrUnknownTriggerType           = errors.New("unknown trigger type")
	ErrMissingScheduleExpression    = errors.New("scheduled trigger requires a schedule expression")
	ErrUnexpectedScheduleExpression = errors.New("schedule expression is only valid on scheduled triggers")
	ErrMissingConditionField        = errors.New("condition field is required")
	ErrUnknownOperator              = errors.New("unknown condition operator")
	ErrUnknownLogicalOperator       = errors.New("unknown logical operator")
)
