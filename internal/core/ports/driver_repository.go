package ports

import (
	"context"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
)

// DriverRepository defines the persistence contract for driver aggregates.
type DriverRepository interface {
	Add(ctx context.Context, aggregate *driver.Driver) error

	// Update persists status, rating and the workload limit. Switching a driver offline
	// fails with errs.ErrConcurrencyConflict if an order was attached meanwhile.
	Update(ctx context.Context, aggregate *driver.Driver) error

	Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error)

	// GetAllEligible returns checked-in drivers that are idle and carry no order.
	GetAllEligible(ctx context.Context) ([]*driver.Driver, error)

	// CompareAndClaim attaches the aggregate's current order only if the stored driver
	// carries no order and is below its workload limit.
	CompareAndClaim(ctx context.Context, aggregate *driver.Driver) error

	// CompareAndRelease detaches orderID only if the stored driver still carries it.
	CompareAndRelease(ctx context.Context, aggregate *driver.Driver, orderID kernel.UUID) error
}
