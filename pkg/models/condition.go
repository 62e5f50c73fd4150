package models

import "fmt"

// Operator is the comparison applied between a resolved field value and the
// condition's comparison value.
type Operator string

const (
	OperatorEquals      Operator = "equals"
	OperatorNotEquals   Operator = "not_equals"
	OperatorGreaterThan Operator = "greater_than"
	OperatorLessThan    Operator = "less_than"
	OperatorContains    Operator = "contains"
	OperatorStartsWith  Operator = "starts_with"
	OperatorEndsWith    Operator = "ends_with"
	OperatorIn          Operator = "in"
	OperatorNotIn       Operator = "not_in"
	OperatorIsNull      Operator = "is_null"
	OperatorIsNotNull   Operator = "is_not_null"
)

var operators = map[Operator]struct{}{
	OperatorEquals:      {},
	OperatorNotEquals:   {},
	OperatorGreaterThan: {},
	OperatorLessThan:    {},
	OperatorContains:    {},
	OperatorStartsWith:  {},
	OperatorEndsWith:    {},
	OperatorIn:          {},
	OperatorNotIn:       {},
	OperatorIsNull:      {},
	OperatorIsNotNull:   {},
}

func (o Operator) Valid() bool {
	_, ok := operators[o]

	return ok
}

// LogicalOperator combines a condition's boolean result with the running
// result of the conditions before it.
type LogicalOperator string

const (
	LogicalAnd LogicalOperator = "AND"
	LogicalOr  LogicalOperator = "OR"
)

// Condition is a single boolean test against the trigger context. Field is a
// dotted path into the context; Value may itself contain template
// placeholders resolved at evaluation time. LogicalOperator on condition i
// (i > 0) combines its result with the running result of conditions 0..i-1;
// when absent it defaults to AND. The first condition's LogicalOperator is
// ignored.
type Condition struct {
	Field           string          `json:"field"    validate:"required"`
	Operator        Operator        `json:"operator" validate:"required"`
	Value           any             `json:"value,omitempty"`
	LogicalOperator LogicalOperator `json:"logical_operator,omitempty"`
}

func (c *Condition) Validate() error {
	if c.Field == "" {
		return ErrMissingConditionField
	}

	if !c.Operator.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownOperator, c.Operator)
	}

	if c.LogicalOperator != "" && c.LogicalOperator != LogicalAnd && c.LogicalOperator != LogicalOr {
		return fmt.Errorf("%w: %s", ErrUnknownLogicalOperator, c.LogicalOperator)
	}

	return nil
}
