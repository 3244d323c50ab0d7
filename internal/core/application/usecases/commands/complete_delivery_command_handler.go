package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// CompleteDeliveryCommandHandler moves the order to delivered and frees its driver in one
// transaction. Settlement is requested afterwards and never blocks the delivery: a lost
// request is picked up by the reconciliation sweep.
type CompleteDeliveryCommandHandler struct {
	uowFactory UoWFactory
	registry   ports.LiveRegistry
	settlement ports.SettlementRequester
	logger     *slog.Logger
}

func NewCompleteDeliveryCommandHandler(
	uowFactory UoWFactory,
	registry ports.LiveRegistry,
	settlement ports.SettlementRequester,
	logger *slog.Logger,
) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{
		uowFactory: uowFactory,
		registry:   registry,
		settlement: settlement,
		logger:     logger.With("component", "complete_delivery"),
	}
}

func (h CompleteDeliveryCommandHandler) Handle(ctx context.Context, cmd CompleteDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()
	drivers := uow.DriverRepository()

	o, err := orders.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	from := o.Status()
	if err = o.MarkDelivered(time.Now()); err != nil {
		return err
	}
	if err = orders.CompareAndTransition(ctx, o, from); err != nil {
		return err
	}

	d, err := drivers.Get(ctx, *o.DriverID())
	if err != nil {
		return errs.NewDataIntegrityError("order", o.ID().String(), "assigned driver cannot be loaded: "+err.Error())
	}
	if err = d.ReleaseOrder(o.ID()); err != nil {
		return err
	}
	if err = drivers.CompareAndRelease(ctx, d, o.ID()); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if d.Status() == driver.CheckIn {
		if err = h.registry.MarkAvailable(ctx, d.ID()); err != nil {
			h.logger.WarnContext(ctx, "registry mark available dropped", "driver_id", d.ID().String(), "error", err)
		}
	}
	if err = h.settlement.RequestSettlement(ctx, o.ID()); err != nil {
		h.logger.WarnContext(ctx, "settlement request dropped, sweep will settle",
			"order_id", o.ID().String(), "error", err)
	}

	return nil
}
