// Package file provides file-based persistence for development and tests.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/wareflow/wareflow/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface on the file
// system: one JSON file per rule, one append file per rule's executions.
type Persistence struct {
	root           string
	ruleRepo       *RuleRepository
	executionStore *ExecutionStore
}

// NewPersistence creates a file persistence layer rooted at the given
// directory. A "file://" prefix is accepted and stripped.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:           cleanRoot,
		ruleRepo:       NewRuleRepository(cleanRoot),
		executionStore: NewExecutionStore(cleanRoot),
	}
}

func (fp *Persistence) RuleRepository() persistence.RuleRepository {
	return fp.ruleRepo
}

func (fp *Persistence) ExecutionStore() persistence.ExecutionStore {
	return fp.executionStore
}

// HealthCheck verifies the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Close performs any necessary cleanup. For file-based persistence, there is
// nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}
