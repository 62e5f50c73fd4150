package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wareflow/wareflow/pkg/persistence"
	"github.com/wareflow/wareflow/pkg/persistence/file"
	"github.com/wareflow/wareflow/pkg/persistence/postgresql"
)

// NewPersistence selects the persistence backend from the database URL
// scheme: "postgres://" (or "postgresql://") for PostgreSQL, anything else
// falls back to the file backend.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch parseProvider(databaseURL) {
	case "postgres", "postgresql":
		persist, err := postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgresql persistence: %w", err)
		}

		return persist, nil
	default:
		return file.NewPersistence(databaseURL), nil
	}
}

func parseProvider(databaseURL string) string {
	provider, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	return provider
}
