package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
)

// LiveRegistry is a fast, eventually consistent index over durable state: the queue of
// pending orders, the set of available drivers and their last known positions.
//
// It is a cache and may be rebuilt from the repositories at any time. Callers treat read
// errors as "no candidates" and log write errors without failing the operation.
type LiveRegistry interface {
	EnqueuePending(ctx context.Context, orderID kernel.UUID) error
	DequeuePending(ctx context.Context, orderID kernel.UUID) error

	// ListPending returns queued orders in enqueue order.
	ListPending(ctx context.Context) ([]kernel.UUID, error)

	MarkAvailable(ctx context.Context, driverID kernel.UUID) error
	MarkUnavailable(ctx context.Context, driverID kernel.UUID) error
	ListAvailable(ctx context.Context) ([]kernel.UUID, error)

	// SetLocation stores the position unless a newer one is already known.
	SetLocation(ctx context.Context, driverID kernel.UUID, point kernel.GeoPoint, at time.Time) error

	// GetLocation returns the last known position; ok is false when none is known.
	GetLocation(ctx context.Context, driverID kernel.UUID) (position driver.Position, ok bool, err error)
}
