package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// AssignDriverCommandHandler is the serialization point of dispatch. Inside one
// transaction it issues two conditional writes:
//
//	UPDATE orders  ... WHERE id = ? AND driver_id IS NULL AND status = 'pending'
//	UPDATE drivers ... WHERE id = ? AND current_order_id IS NULL AND active_orders_count < max_concurrent_orders
//
// If either affects no row the transaction rolls back and errs.ErrConcurrencyConflict is
// returned; the caller moves on to the next candidate. Concurrent matching passes may
// therefore propose the same pair, but at most one commit succeeds.
type AssignDriverCommandHandler struct {
	uowFactory UoWFactory
	registry   ports.LiveRegistry
	logger     *slog.Logger
}

func NewAssignDriverCommandHandler(uowFactory UoWFactory, registry ports.LiveRegistry, logger *slog.Logger) AssignDriverCommandHandler {
	return AssignDriverCommandHandler{
		uowFactory: uowFactory,
		registry:   registry,
		logger:     logger.With("component", "assign_driver"),
	}
}

// Handle returns the assignment time on success.
func (h AssignDriverCommandHandler) Handle(ctx context.Context, cmd AssignDriverCommand) (time.Time, error) {
	if err := cmd.Validate(); err != nil {
		return time.Time{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return time.Time{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()
	drivers := uow.DriverRepository()

	o, err := orders.Get(ctx, cmd.OrderID())
	if err != nil {
		return time.Time{}, err
	}
	d, err := drivers.Get(ctx, cmd.DriverID())
	if err != nil {
		return time.Time{}, err
	}

	assignedAt := time.Now().UTC()
	if err = o.Assign(d.ID(), assignedAt); err != nil {
		if errors.Is(err, errs.ErrInvalidTransition) {
			return time.Time{}, errs.NewConcurrencyConflict("order %s is no longer pending", o.ID())
		}
		return time.Time{}, err
	}
	if err = d.TakeOrder(o.ID()); err != nil {
		if errors.Is(err, driver.ErrDriverIsBusy) {
			return time.Time{}, errs.NewConcurrencyConflict("driver %s: %v", d.ID(), err)
		}
		return time.Time{}, err
	}

	if err = orders.CompareAndAssign(ctx, o); err != nil {
		return time.Time{}, err
	}
	if err = drivers.CompareAndClaim(ctx, d); err != nil {
		return time.Time{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return time.Time{}, err
	}

	if err = h.registry.DequeuePending(ctx, o.ID()); err != nil {
		h.logger.WarnContext(ctx, "registry dequeue dropped", "order_id", o.ID().String(), "error", err)
	}
	if err = h.registry.MarkUnavailable(ctx, d.ID()); err != nil {
		h.logger.WarnContext(ctx, "registry mark unavailable dropped", "driver_id", d.ID().String(), "error", err)
	}

	return assignedAt, nil
}
