package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/wareflow/wareflow/pkg/models"
	"github.com/wareflow/wareflow/pkg/otelhelper"
	"github.com/wareflow/wareflow/pkg/protocol"
	"github.com/wareflow/wareflow/pkg/registry"
	"github.com/wareflow/wareflow/pkg/template"
)

const defaultActionTimeout = 30 * time.Second

// ActionExecutor runs a rule's actions in order against the handler registry.
// Execution is best-effort: an unknown action type, a config error, a handler
// error or a panic fails that action only, and the batch continues.
type ActionExecutor struct {
	logger   *slog.Logger
	registry *registry.Registry
	resolver *template.Resolver
	tracer   trace.Tracer
	timeout  time.Duration
}

func NewActionExecutor(logger *slog.Logger, reg *registry.Registry, resolver *template.Resolver) *ActionExecutor {
	return &ActionExecutor{
		logger:   logger.With("module", "action_executor"),
		registry: reg,
		resolver: resolver,
		tracer:   tracenoop.NewTracerProvider().Tracer("wareflow"),
		timeout:  defaultActionTimeout,
	}
}

// Execute returns one ActionResult per action, in execution order. Prior
// actions' outputs are exposed to later actions under an "actions" key,
// addressable by the producing action's order and by its type.
func (e *ActionExecutor) Execute(ctx context.Context, actions []*models.Action, triggerContext map[string]any) []models.ActionResult {
	ordered := make([]*models.Action, len(actions))
	copy(ordered, actions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})

	chainOutputs := make(map[string]any)
	data := make(map[string]any, len(triggerContext)+1)

	for key, value := range triggerContext {
		data[key] = value
	}

	data["actions"] = chainOutputs

	results := make([]models.ActionResult, 0, len(ordered))

	for _, action := range ordered {
		result := e.executeOne(ctx, action, data)
		results = append(results, result)

		if result.Success && result.Output != nil {
			chainOutputs[strconv.Itoa(action.Order)] = result.Output
			chainOutputs[string(action.Type)] = result.Output
		}
	}

	return results
}

func (e *ActionExecutor) executeOne(ctx context.Context, action *models.Action, data map[string]any) models.ActionResult {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "engine.action",
		attribute.String(otelhelper.ActionTypeKey, string(action.Type)),
		attribute.Int("wareflow.action.order", action.Order),
	)
	defer span.End()

	logger := e.logger.With("action_type", action.Type, "action_order", action.Order)
	started := time.Now()

	config := action.Config
	if config == nil {
		config = map[string]any{}
	}

	resolvedConfig, ok := e.resolver.Resolve(config, data).(map[string]any)
	if !ok {
		resolvedConfig = map[string]any{}
	}

	handler, err := e.registry.CreateAction(action.Type, resolvedConfig)
	if err != nil {
		logger.Warn("Failed to create action handler", "error", err)
		otelhelper.SetError(span, err)

		return models.ActionResult{
			ActionType: action.Type,
			Success:    false,
			Message:    err.Error(),
			Duration:   time.Since(started),
		}
	}

	output, err := e.invoke(ctx, handler, logger)
	duration := time.Since(started)

	if err != nil {
		logger.Warn("Action failed", "error", err, "duration", duration)
		otelhelper.SetError(span, err)

		return models.ActionResult{
			ActionType: action.Type,
			Success:    false,
			Message:    err.Error(),
			Duration:   duration,
		}
	}

	logger.Info("Action completed", "duration", duration)

	return models.ActionResult{
		ActionType: action.Type,
		Success:    true,
		Output:     output,
		Duration:   duration,
	}
}

// invoke runs the handler with a deadline and converts panics into errors so
// a misbehaving handler cannot abort the batch.
func (e *ActionExecutor) invoke(ctx context.Context, handler protocol.Action, logger *slog.Logger) (output any, err error) {
	actionCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("action handler panicked: %v", recovered)
		}
	}()

	return handler.Execute(actionCtx, logger)
}
