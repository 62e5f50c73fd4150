package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/wareflow/wareflow/pkg/models"
)

// ExecutionStore persists the append-only execution audit trail.
type ExecutionStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewExecutionStore creates a new execution store.
func NewExecutionStore(db *sql.DB, logger *slog.Logger) *ExecutionStore {
	return &ExecutionStore{db: db, logger: logger}
}

// Append inserts a record. Records are never updated afterwards.
func (s *ExecutionStore) Append(ctx context.Context, record *models.ExecutionRecord) error {
	triggerContext, err := json.Marshal(record.TriggerContext)
	if err != nil {
		return fmt.Errorf("failed to marshal trigger context: %w", err)
	}

	actionResults, err := json.Marshal(record.ActionResults)
	if err != nil {
		return fmt.Errorf("failed to marshal action results: %w", err)
	}

	query := `
		INSERT INTO execution_records (
			id, workflow_rule_id, trigger_context, status,
			action_results, executed_at, duration_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = s.db.ExecContext(ctx, query,
		record.ID, record.WorkflowRuleID, triggerContext, string(record.Status),
		actionResults, record.ExecutedAt.UTC(), record.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to append execution record: %w", err)
	}

	return nil
}

const maxListLimit = 1000

// ListByRule returns the most recent records for a rule, newest first. A
// non-positive limit falls back to the store's cap.
func (s *ExecutionStore) ListByRule(ctx context.Context, ruleID string, limit int) ([]*models.ExecutionRecord, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	query := `
		SELECT
			id
		  , workflow_rule_id
		  , trigger_context
		  , status
		  , action_results
		  , executed_at
		  , duration_ms
		FROM execution_records
		WHERE workflow_rule_id = $1
		ORDER BY executed_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, ruleID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query execution records: %w", err)
	}

	defer func(ctx context.Context, s *ExecutionStore) {
		err := rows.Close()
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}(ctx, s)

	records := make([]*models.ExecutionRecord, 0)

	for rows.Next() {
		var (
			record             models.ExecutionRecord
			status             string
			triggerContextJSON []byte
			actionResultsJSON  []byte
			durationMs         int64
		)

		err := rows.Scan(
			&record.ID, &record.WorkflowRuleID, &triggerContextJSON, &status,
			&actionResultsJSON, &record.ExecutedAt, &durationMs,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution record: %w", err)
		}

		record.Status = models.ExecutionStatus(status)
		record.Duration = millisecondsToDuration(durationMs)

		if err := json.Unmarshal(triggerContextJSON, &record.TriggerContext); err != nil {
			return nil, fmt.Errorf("failed to unmarshal trigger context: %w", err)
		}

		if err := json.Unmarshal(actionResultsJSON, &record.ActionResults); err != nil {
			return nil, fmt.Errorf("failed to unmarshal action results: %w", err)
		}

		records = append(records, &record)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating execution records: %w", err)
	}

	return records, nil
}

func millisecondsToDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
