// Package ports defines the contracts between the dispatch core and its adapters:
// durable repositories, the live registry and outbound messaging.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
//
// Lifecycle columns are written only through the compare-and-set methods so that
// concurrent writers cannot overwrite each other's transitions.
type OrderRepository interface {
	// Add persists a newly captured order.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists bookkeeping fields: integrity error, review flag and fee amounts.
	// It never touches status, driver or lifecycle timestamps.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id. Returns errs.ObjectNotFoundError when missing.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves the order and locks its row until the transaction ends.
	// Used by settlement to serialize concurrent settlements of the same order.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByIDs retrieves the orders that exist among ids, in no particular order.
	GetByIDs(ctx context.Context, ids []kernel.UUID) ([]*order.Order, error)

	// MarkIntegrityError records reason on the stored order unless one is already set.
	// It does not load the aggregate, so it also works for rows that fail to restore.
	MarkIntegrityError(ctx context.Context, id kernel.UUID, reason string) error

	// GetAllDispatchable returns pending orders without integrity errors, oldest first.
	GetAllDispatchable(ctx context.Context) ([]*order.Order, error)

	// GetUnsettledDelivered returns ids of delivered orders with a driver that lack at
	// least one completed settlement transaction, oldest delivery first. Orders carrying
	// an integrity error are left out.
	GetUnsettledDelivered(ctx context.Context, limit int) ([]kernel.UUID, error)

	// CompareAndAssign writes the driver, status and assignedAt only if the stored order
	// is still pending without a driver. Returns errs.ErrConcurrencyConflict otherwise.
	CompareAndAssign(ctx context.Context, aggregate *order.Order) error

	// CompareAndTransition writes the status and lifecycle timestamps only if the stored
	// status equals from. Returns errs.ErrConcurrencyConflict otherwise.
	CompareAndTransition(ctx context.Context, aggregate *order.Order, from order.Status) error
}
