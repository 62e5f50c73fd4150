package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/wareflow/wareflow/pkg/models"
)

// ExecutionStore appends records to <root>/executions/<rule-id>.jsonl, one
// JSON document per line.
type ExecutionStore struct {
	root  string
	mutex sync.Mutex
}

func NewExecutionStore(root string) *ExecutionStore {
	return &ExecutionStore{root: root}
}

func (s *ExecutionStore) executionsDir() string {
	return filepath.Join(s.root, "executions")
}

func (s *ExecutionStore) executionsPath(ruleID string) string {
	return filepath.Join(s.executionsDir(), ruleID+".jsonl")
}

func (s *ExecutionStore) Append(_ context.Context, record *models.ExecutionRecord) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := os.MkdirAll(s.executionsDir(), dirPermissions); err != nil {
		return fmt.Errorf("failed to create executions directory: %w", err)
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal execution record: %w", err)
	}

	f, err := os.OpenFile(s.executionsPath(record.WorkflowRuleID), os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePermissions)
	if err != nil {
		return fmt.Errorf("failed to open executions file: %w", err)
	}

	defer func() {
		_ = f.Close()
	}()

	if _, err := f.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("failed to append execution record: %w", err)
	}

	return nil
}

func (s *ExecutionStore) ListByRule(_ context.Context, ruleID string, limit int) ([]*models.ExecutionRecord, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	payload, err := os.ReadFile(s.executionsPath(ruleID))
	if os.IsNotExist(err) {
		return []*models.ExecutionRecord{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read executions file: %w", err)
	}

	lines := splitLines(payload)
	records := make([]*models.ExecutionRecord, 0, len(lines))

	// Newest first.
	for i := len(lines) - 1; i >= 0; i-- {
		if limit > 0 && len(records) >= limit {
			break
		}

		var record models.ExecutionRecord

		if err := json.Unmarshal(lines[i], &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal execution record: %w", err)
		}

		records = append(records, &record)
	}

	return records, nil
}

func splitLines(payload []byte) [][]byte {
	lines := make([][]byte, 0)
	start := 0

	for i, b := range payload {
		if b == '\n' {
			if i > start {
				lines = append(lines, payload[start:i])
			}

			start = i + 1
		}
	}

	if start < len(payload) {
		lines = append(lines, payload[start:])
	}

	return lines
}
