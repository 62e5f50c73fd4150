// Package engine implements the workflow automation engine: trigger →
// condition → action rules reacting to warehouse business events.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/wareflow/wareflow/pkg/conditions"
	"github.com/wareflow/wareflow/pkg/eventbus"
	"github.com/wareflow/wareflow/pkg/lock"
	"github.com/wareflow/wareflow/pkg/models"
	"github.com/wareflow/wareflow/pkg/otelhelper"
	"github.com/wareflow/wareflow/pkg/persistence"
	"github.com/wareflow/wareflow/pkg/protocol"
	"github.com/wareflow/wareflow/pkg/registry"
	"github.com/wareflow/wareflow/pkg/template"
)

// tickGuardTTL outlives one tick interval so a slow instance cannot re-acquire
// the lease another instance already used for the same minute.
const tickGuardTTL = 90 * time.Second

var ErrUnknownTriggerType = errors.New("unknown trigger type")

// Engine is the facade over dispatching, condition evaluation, action
// execution and recording. It reads rules through the repository, never owns
// them, and each invocation works on an immutable snapshot.
type Engine struct {
	logger         *slog.Logger
	rules          persistence.RuleRepository
	evaluator      *conditions.Evaluator
	executor       *ActionExecutor
	recorder       *Recorder
	publisher      eventbus.EventPublisher
	tracer         trace.Tracer
	guard          lock.Guard
	contextBuilder protocol.ScheduleContextBuilder
}

type Option func(*Engine)

// WithEventBus makes the engine publish execution lifecycle events.
func WithEventBus(publisher eventbus.EventPublisher) Option {
	return func(e *Engine) {
		e.publisher = publisher
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = tracer
		e.executor.tracer = tracer
	}
}

// WithTickGuard installs the lease that keeps scheduled rules from
// double-firing across engine instances.
func WithTickGuard(guard lock.Guard) Option {
	return func(e *Engine) {
		e.guard = guard
	}
}

// WithScheduleContextBuilder installs the host collaborator that supplies
// event contexts for SCHEDULED rules.
func WithScheduleContextBuilder(builder protocol.ScheduleContextBuilder) Option {
	return func(e *Engine) {
		e.contextBuilder = builder
	}
}

func New(logger *slog.Logger, persist persistence.Persistence, reg *registry.Registry, options ...Option) *Engine {
	logger = logger.With("module", "engine")
	resolver := template.NewResolver(logger)

	e := &Engine{
		logger:    logger,
		rules:     persist.RuleRepository(),
		evaluator: conditions.NewEvaluator(logger, resolver),
		executor:  NewActionExecutor(logger, reg, resolver),
		recorder:  NewRecorder(logger, persist.RuleRepository(), persist.ExecutionStore()),
		tracer:    tracenoop.NewTracerProvider().Tracer("wareflow"),
		guard:     lock.NewNoopGuard(),
	}

	for _, option := range options {
		option(e)
	}

	return e
}

// FireEvent runs every enabled rule of the tenant matching the trigger type
// against the event context. Rules are processed independently: one rule's
// recording failure is collected, not allowed to stop the others. Skipped
// rules (conditions false) produce no record.
func (e *Engine) FireEvent(ctx context.Context, tenantID string, triggerType models.TriggerType, eventContext map[string]any) ([]*models.ExecutionRecord, error) {
	if !triggerType.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTriggerType, triggerType)
	}

	logger := e.logger.With("tenant_id", tenantID, "trigger_type", triggerType)
	logger.InfoContext(ctx, "Firing trigger event")

	rules, err := e.rules.FindEnabledByTenantAndTrigger(ctx, tenantID, triggerType)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rules for tenant %s: %w", tenantID, err)
	}

	event := models.TriggerEvent{Type: triggerType, Context: eventContext}
	records := make([]*models.ExecutionRecord, 0, len(rules))

	var failures []error

	for _, rule := range rules {
		record, err := e.runRule(ctx, rule.Snapshot(), event)
		if err != nil {
			logger.ErrorContext(ctx, "Rule invocation failed", "rule_id", rule.ID, "error", err)
			failures = append(failures, fmt.Errorf("rule %s: %w", rule.ID, err))

			continue
		}

		if record != nil {
			records = append(records, record)
		}
	}

	return records, errors.Join(failures...)
}

// ExecuteManual runs a single rule with an operator-supplied context,
// regardless of its trigger type and even when disabled: manual execution is
// an explicit operator override. The snapshot carries a MANUAL trigger
// marker. A nil record means the conditions did not pass.
func (e *Engine) ExecuteManual(ctx context.Context, ruleID string, eventContext map[string]any) (*models.ExecutionRecord, error) {
	rule, err := e.rules.FindByID(ctx, ruleID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rule %s: %w", ruleID, err)
	}

	manualContext := make(map[string]any, len(eventContext)+1)
	for key, value := range eventContext {
		manualContext[key] = value
	}

	manualContext["trigger"] = string(models.TriggerManual)

	e.logger.InfoContext(ctx, "Executing rule manually", "rule_id", ruleID, "enabled", rule.Enabled)

	return e.runRule(ctx, rule.Snapshot(), models.TriggerEvent{Type: models.TriggerManual, Context: manualContext})
}

// TickScheduled is called by the external clock collaborator. It runs every
// SCHEDULED rule of the tenant whose cron expression matches the given
// minute. A malformed expression skips that rule with a warning; it never
// crashes the scheduler loop.
func (e *Engine) TickScheduled(ctx context.Context, tenantID string, now time.Time) ([]*models.ExecutionRecord, error) {
	logger := e.logger.With("tenant_id", tenantID)

	rules, err := e.rules.FindScheduledByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scheduled rules for tenant %s: %w", tenantID, err)
	}

	records := make([]*models.ExecutionRecord, 0)

	var failures []error

	for _, rule := range rules {
		matched, err := scheduleMatches(rule.Trigger.ScheduleExpression, now)
		if err != nil {
			logger.WarnContext(ctx, "Skipping rule with malformed schedule expression",
				"rule_id", rule.ID,
				"schedule_expression", rule.Trigger.ScheduleExpression,
				"error", err)

			continue
		}

		if !matched {
			continue
		}

		leaseKey := fmt.Sprintf("tick:%s:%d", rule.ID, now.UTC().Truncate(time.Minute).Unix())

		acquired, err := e.guard.Acquire(ctx, leaseKey, tickGuardTTL)
		if err != nil {
			logger.ErrorContext(ctx, "Tick guard failed", "rule_id", rule.ID, "error", err)
			failures = append(failures, fmt.Errorf("rule %s: tick guard: %w", rule.ID, err))

			continue
		}

		if !acquired {
			logger.DebugContext(ctx, "Another instance holds the tick lease", "rule_id", rule.ID)

			continue
		}

		snapshot := rule.Snapshot()

		scheduleContext, err := e.buildScheduleContext(ctx, snapshot, now)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to build schedule context", "rule_id", rule.ID, "error", err)
			failures = append(failures, fmt.Errorf("rule %s: schedule context: %w", rule.ID, err))

			continue
		}

		record, err := e.runRule(ctx, snapshot, models.TriggerEvent{Type: models.TriggerScheduled, Context: scheduleContext})
		if err != nil {
			logger.ErrorContext(ctx, "Scheduled rule invocation failed", "rule_id", rule.ID, "error", err)
			failures = append(failures, fmt.Errorf("rule %s: %w", rule.ID, err))

			continue
		}

		if record != nil {
			records = append(records, record)
		}
	}

	return records, errors.Join(failures...)
}

// runRule drives one rule × one event through the invocation state machine:
// conditions, then either a skip (no record, no counter change) or action
// execution plus recording.
func (e *Engine) runRule(ctx context.Context, rule *models.WorkflowRule, event models.TriggerEvent) (*models.ExecutionRecord, error) {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "engine.rule_invocation",
		attribute.String(otelhelper.RuleIDKey, rule.ID),
		attribute.String(otelhelper.RuleNameKey, rule.Name),
		attribute.String(otelhelper.TenantIDKey, rule.TenantID),
		attribute.String(otelhelper.TriggerTypeKey, string(event.Type)),
	)
	defer span.End()

	logger := e.logger.With("rule_id", rule.ID, "trigger_type", event.Type)
	started := time.Now()

	if !e.evaluator.Evaluate(rule.Conditions, event.Context) {
		logger.InfoContext(ctx, "Conditions not met, skipping rule")
		span.AddEvent("conditions_failed")

		return nil, nil
	}

	e.publishTriggered(ctx, rule, event)

	results := e.executor.Execute(ctx, rule.Actions, event.Context)

	record, err := e.recorder.Record(ctx, rule, event.Context, results, started, time.Since(started))
	if err != nil {
		otelhelper.SetError(span, err)
		e.publishFailed(ctx, rule, err)

		return nil, err
	}

	span.SetAttributes(attribute.String(otelhelper.ExecutionIDKey, record.ID))
	e.publishRecorded(ctx, rule, record)

	return record, nil
}

func (e *Engine) buildScheduleContext(ctx context.Context, rule *models.WorkflowRule, now time.Time) (map[string]any, error) {
	if e.contextBuilder != nil {
		return e.contextBuilder.BuildContext(ctx, rule, now)
	}

	return map[string]any{
		"scheduled_at": now.UTC().Format(time.RFC3339),
		"tenant_id":    rule.TenantID,
		"rule": map[string]any{
			"id":   rule.ID,
			"name": rule.Name,
		},
	}, nil
}
