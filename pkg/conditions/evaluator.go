// Package conditions evaluates a rule's ordered condition list against a
// trigger context.
package conditions

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/wareflow/wareflow/pkg/models"
	"github.com/wareflow/wareflow/pkg/template"
)

// Evaluator applies operator semantics per condition and combines results as
// a strict left-to-right fold: the running result is AND/OR-combined with
// each subsequent condition in sequence order, without operator precedence.
// (A AND B OR C) therefore reads as ((A AND B) OR C).
type Evaluator struct {
	logger   *slog.Logger
	resolver *template.Resolver
}

func NewEvaluator(logger *slog.Logger, resolver *template.Resolver) *Evaluator {
	return &Evaluator{
		logger:   logger.With("module", "conditions"),
		resolver: resolver,
	}
}

// Evaluate returns whether the rule's actions should run. An empty condition
// list always passes. A resolution or type error inside a single condition
// makes that condition false and is logged; it never aborts the evaluation.
func (e *Evaluator) Evaluate(conds []*models.Condition, context map[string]any) bool {
	if len(conds) == 0 {
		return true
	}

	result := e.evaluateOne(conds[0], context)

	for _, cond := range conds[1:] {
		if cond.LogicalOperator == models.LogicalOr {
			result = result || e.evaluateOne(cond, context)
		} else {
			result = result && e.evaluateOne(cond, context)
		}
	}

	return result
}

func (e *Evaluator) evaluateOne(cond *models.Condition, context map[string]any) bool {
	fieldValue, found := template.Lookup(cond.Field, context)
	if !found && cond.Operator != models.OperatorIsNull && cond.Operator != models.OperatorIsNotNull {
		e.logger.Warn("condition field not found in context", "field", cond.Field)

		return false
	}

	// The comparison value may itself reference context, e.g. "{{reorderPoint}}".
	compareValue := e.resolver.Resolve(cond.Value, context)

	switch cond.Operator {
	case models.OperatorEquals:
		return valuesEqual(fieldValue, compareValue)
	case models.OperatorNotEquals:
		return !valuesEqual(fieldValue, compareValue)
	case models.OperatorGreaterThan:
		return e.compareNumeric(cond.Field, fieldValue, compareValue, func(a, b float64) bool { return a > b })
	case models.OperatorLessThan:
		return e.compareNumeric(cond.Field, fieldValue, compareValue, func(a, b float64) bool { return a < b })
	case models.OperatorContains:
		return strings.Contains(stringify(fieldValue), stringify(compareValue))
	case models.OperatorStartsWith:
		return strings.HasPrefix(stringify(fieldValue), stringify(compareValue))
	case models.OperatorEndsWith:
		return strings.HasSuffix(stringify(fieldValue), stringify(compareValue))
	case models.OperatorIn:
		return isMember(fieldValue, compareValue)
	case models.OperatorNotIn:
		return !isMember(fieldValue, compareValue)
	case models.OperatorIsNull:
		return !found || fieldValue == nil
	case models.OperatorIsNotNull:
		return found && fieldValue != nil
	default:
		e.logger.Warn("unknown condition operator", "operator", cond.Operator)

		return false
	}
}

// compareNumeric is fail-closed: a non-numeric operand makes the condition
// false with a type-mismatch warning.
func (e *Evaluator) compareNumeric(field string, fieldValue, compareValue any, compare func(a, b float64) bool) bool {
	left, leftOK := asNumber(fieldValue)
	right, rightOK := asNumber(compareValue)

	if !leftOK || !rightOK {
		e.logger.Warn("numeric comparison on non-numeric operand",
			"field", field,
			"field_value", fieldValue,
			"compare_value", compareValue)

		return false
	}

	return compare(left, right)
}

// valuesEqual is type-aware deep equality. Numeric kinds are normalized so
// int 5 equals float64 5.0, but numeric strings are never coerced to numbers.
func valuesEqual(a, b any) bool {
	aNum, aOK := asNumber(a)
	bNum, bOK := asNumber(b)

	if aOK && bOK {
		return aNum == bNum
	}

	if aOK != bOK {
		return false
	}

	return reflect.DeepEqual(a, b)
}

func isMember(fieldValue, compareValue any) bool {
	sequence, ok := compareValue.([]any)
	if !ok {
		return false
	}

	for _, item := range sequence {
		if valuesEqual(fieldValue, item) {
			return true
		}
	}

	return false
}

// asNumber accepts only genuinely numeric kinds; numeric strings stay strings.
func asNumber(value any) (float64, bool) {
	switch typed := value.(type) {
	case int:
		return float64(typed), true
	case int8:
		return float64(typed), true
	case int16:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case uint:
		return float64(typed), true
	case uint8:
		return float64(typed), true
	case uint16:
		return float64(typed), true
	case uint32:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	case float32:
		return float64(typed), true
	case float64:
		return typed, true
	default:
		return 0, false
	}
}

func stringify(value any) string {
	if value == nil {
		return ""
	}

	return fmt.Sprintf("%v", value)
}
