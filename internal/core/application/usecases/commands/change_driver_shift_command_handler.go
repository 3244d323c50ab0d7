package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// DriverShiftCommandHandler checks drivers in and out and mirrors the result into the
// live registry after commit.
type DriverShiftCommandHandler struct {
	uowFactory DriverUoWFactory
	registry   ports.LiveRegistry
	logger     *slog.Logger
}

func NewDriverShiftCommandHandler(
	uowFactory DriverUoWFactory,
	registry ports.LiveRegistry,
	logger *slog.Logger,
) DriverShiftCommandHandler {
	return DriverShiftCommandHandler{
		uowFactory: uowFactory,
		registry:   registry,
		logger:     logger.With("component", "driver_shift"),
	}
}

func (h DriverShiftCommandHandler) HandleCheckIn(ctx context.Context, cmd CheckInDriverCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	d, err := h.change(ctx, cmd.DriverID(), (*driver.Driver).CheckIn)
	if err != nil {
		return err
	}

	if d.IsEligible() {
		if err = h.registry.MarkAvailable(ctx, d.ID()); err != nil {
			h.logger.WarnContext(ctx, "registry mark available dropped", "driver_id", d.ID().String(), "error", err)
		}
	}
	return nil
}

func (h DriverShiftCommandHandler) HandleCheckOut(ctx context.Context, cmd CheckOutDriverCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	d, err := h.change(ctx, cmd.DriverID(), (*driver.Driver).CheckOut)
	if err != nil {
		return err
	}

	if err = h.registry.MarkUnavailable(ctx, d.ID()); err != nil {
		h.logger.WarnContext(ctx, "registry mark unavailable dropped", "driver_id", d.ID().String(), "error", err)
	}
	return nil
}

func (h DriverShiftCommandHandler) change(
	ctx context.Context,
	driverID kernel.UUID,
	transition func(*driver.Driver) error,
) (*driver.Driver, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	drivers := uow.DriverRepository()

	d, err := drivers.Get(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if err = transition(d); err != nil {
		return nil, err
	}
	if err = drivers.Update(ctx, d); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return d, nil
}
