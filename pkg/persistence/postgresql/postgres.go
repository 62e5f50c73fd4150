// Package postgresql provides PostgreSQL persistence for workflow rules and
// execution records.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq" // postgres driver

	"github.com/wareflow/wareflow/pkg/persistence"
	"github.com/wareflow/wareflow/pkg/persistence/sqlbase"
)

// Persistence implements the persistence layer for PostgreSQL.
type Persistence struct {
	db             *sql.DB
	logger         *slog.Logger
	ruleRepo       *RuleRepository
	executionStore *ExecutionStore
}

// NewPersistence connects, runs migrations and wires the repositories.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Persistence{
		db:             database,
		logger:         logger,
		ruleRepo:       NewRuleRepository(database, logger),
		executionStore: NewExecutionStore(database, logger),
	}, nil
}

func (p *Persistence) RuleRepository() persistence.RuleRepository {
	return p.ruleRepo
}

func (p *Persistence) ExecutionStore() persistence.ExecutionStore {
	return p.executionStore
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (p *Persistence) Close(_ context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE IF NOT EXISTS workflow_rules (
				id TEXT PRIMARY KEY,
				tenant_id TEXT NOT NULL,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				enabled BOOLEAN NOT NULL DEFAULT TRUE,
				trigger_type TEXT NOT NULL,
				schedule_expression TEXT NOT NULL DEFAULT '',
				conditions JSONB NOT NULL DEFAULT '[]',
				actions JSONB NOT NULL DEFAULT '[]',
				execution_count BIGINT NOT NULL DEFAULT 0,
				last_executed_at TIMESTAMP WITH TIME ZONE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				deleted_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX IF NOT EXISTS idx_workflow_rules_tenant_trigger
				ON workflow_rules (tenant_id, trigger_type)
				WHERE deleted_at IS NULL;
		`,
		2: `
			CREATE TABLE IF NOT EXISTS execution_records (
				id TEXT PRIMARY KEY,
				workflow_rule_id TEXT NOT NULL,
				trigger_context JSONB NOT NULL DEFAULT '{}',
				status TEXT NOT NULL,
				action_results JSONB NOT NULL DEFAULT '[]',
				executed_at TIMESTAMP WITH TIME ZONE NOT NULL,
				duration_ms BIGINT NOT NULL DEFAULT 0
			);

			CREATE INDEX IF NOT EXISTS idx_execution_records_rule
				ON execution_records (workflow_rule_id, executed_at DESC);
		`,
	}
}
