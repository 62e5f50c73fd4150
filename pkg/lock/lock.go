// Package lock provides the short-lived lease used to keep a scheduled rule
// from double-firing when several engine instances tick the same minute.
package lock

import (
	"context"
	"time"
)

// Guard acquires a named lease. Acquire returns true when the caller holds
// the lease for the given TTL, false when another instance already does.
type Guard interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// NoopGuard always grants the lease. Single-instance deployments and tests
// use it.
type NoopGuard struct{}

func NewNoopGuard() *NoopGuard {
	return &NoopGuard{}
}

func (g *NoopGuard) Acquire(_ context.Context, _ string, _ time.Duration) (bool, error) {
	return true, nil
}
