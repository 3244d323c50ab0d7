// Package registry implements ports.LiveRegistry in process memory and on PostgreSQL.
package registry

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
)

// Memory keeps the registry in mutex-guarded maps. It suits a single dispatch instance and
// loses its content on restart; RebuildRegistry restores it from durable state.
type Memory struct {
	mu sync.RWMutex

	seq       uint64
	pending   map[kernel.UUID]uint64
	available map[kernel.UUID]struct{}
	locations map[kernel.UUID]driver.Position
}

func NewMemory() *Memory {
	return &Memory{
		pending:   make(map[kernel.UUID]uint64),
		available: make(map[kernel.UUID]struct{}),
		locations: make(map[kernel.UUID]driver.Position),
	}
}

// EnqueuePending appends the order to the queue. Enqueueing a queued order keeps its position.
func (m *Memory) EnqueuePending(_ context.Context, orderID kernel.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.pending[orderID]; ok {
		return nil
	}
	m.seq++
	m.pending[orderID] = m.seq
	return nil
}

func (m *Memory) DequeuePending(_ context.Context, orderID kernel.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.pending, orderID)
	return nil
}

func (m *Memory) ListPending(_ context.Context) ([]kernel.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]kernel.UUID, 0, len(m.pending))
	for id := range m.pending {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b kernel.UUID) int {
		return cmp.Compare(m.pending[a], m.pending[b])
	})
	return ids, nil
}

func (m *Memory) MarkAvailable(_ context.Context, driverID kernel.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.available[driverID] = struct{}{}
	return nil
}

func (m *Memory) MarkUnavailable(_ context.Context, driverID kernel.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.available, driverID)
	return nil
}

func (m *Memory) ListAvailable(_ context.Context) ([]kernel.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]kernel.UUID, 0, len(m.available))
	for id := range m.available {
		ids = append(ids, id)
	}
	return ids, nil
}

// SetLocation ignores positions older than the stored one.
func (m *Memory) SetLocation(_ context.Context, driverID kernel.UUID, point kernel.GeoPoint, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if current, ok := m.locations[driverID]; ok && !at.After(current.At) {
		return nil
	}
	m.locations[driverID] = driver.Position{Point: point, At: at}
	return nil
}

func (m *Memory) GetLocation(_ context.Context, driverID kernel.UUID) (driver.Position, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pos, ok := m.locations[driverID]
	return pos, ok, nil
}
