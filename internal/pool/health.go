package pool

import (
	"context"
	"fmt"
)

// Stats is a snapshot of the manager and, once ready, the underlying pool.
type Stats struct {
	State   State
	Open    int
	InUse   int
	Idle    int
	MaxOpen int
}

// Stats returns current pool statistics.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Stats{
		State:   m.state,
		MaxOpen: m.cfg.Pool.MaxOpen,
	}
	if m.db != nil {
		dbStats := m.db.Stats()
		s.Open = dbStats.OpenConnections
		s.InUse = dbStats.InUse
		s.Idle = dbStats.Idle
	}
	return s
}

// Ping obtains the pool through Get and verifies a connection round-trip.
// It does not reset a ready pool when the ping fails; the pool replaces
// broken connections on its own.
func (m *Manager) Ping(ctx context.Context) error {
	db, err := m.Get(ctx)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
