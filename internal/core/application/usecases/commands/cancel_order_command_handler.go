package commands

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/wallet"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// CancelOrderCommandHandler cancels a pending or in-flight order.
//
// In one transaction it:
//   - moves the order to cancelled (refused once delivered)
//   - releases the assigned driver, if any
//   - returns the escrowed total to the customer: escrow −= finalTotal, a refund
//     transaction on the system wallet and an escrow → customer ledger entry
//
// Orders captured before escrow existed carry no deposit and are cancelled without refund.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	registry   ports.LiveRegistry
	logger     *slog.Logger
}

func NewCancelOrderCommandHandler(uowFactory UoWFactory, registry ports.LiveRegistry, logger *slog.Logger) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		registry:   registry,
		logger:     logger.With("component", "cancel_order"),
	}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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

	o, err := orders.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	now := time.Now()
	from := o.Status()
	if err = o.Cancel(now); err != nil {
		return err
	}
	if err = orders.CompareAndTransition(ctx, o, from); err != nil {
		return err
	}

	var released *driver.Driver
	if o.DriverID() != nil && from != order.Pending {
		if released, err = h.releaseDriver(ctx, uow.DriverRepository(), o); err != nil {
			return err
		}
	}

	if err = h.refund(ctx, uow.WalletRepository(), o, now); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if err = h.registry.DequeuePending(ctx, o.ID()); err != nil {
		h.logger.WarnContext(ctx, "registry dequeue dropped", "order_id", o.ID().String(), "error", err)
	}
	if released != nil && released.Status() == driver.CheckIn {
		if err = h.registry.MarkAvailable(ctx, released.ID()); err != nil {
			h.logger.WarnContext(ctx, "registry mark available dropped", "driver_id", released.ID().String(), "error", err)
		}
	}

	return nil
}

func (h CancelOrderCommandHandler) releaseDriver(ctx context.Context, drivers ports.DriverRepository, o *order.Order) (*driver.Driver, error) {
	d, err := drivers.Get(ctx, *o.DriverID())
	if err != nil {
		return nil, errs.NewDataIntegrityError("order", o.ID().String(), "assigned driver cannot be loaded: "+err.Error())
	}
	if err = d.ReleaseOrder(o.ID()); err != nil {
		return nil, err
	}
	if err = drivers.CompareAndRelease(ctx, d, o.ID()); err != nil {
		return nil, err
	}
	return d, nil
}

func (h CancelOrderCommandHandler) refund(ctx context.Context, wallets ports.WalletRepository, o *order.Order, now time.Time) error {
	done, err := wallets.CompletedTransactionTypes(ctx, o.ID())
	if err != nil {
		return err
	}
	if !slices.Contains(done, wallet.TypeDeposit) || slices.Contains(done, wallet.TypeRefund) {
		return nil
	}

	system, err := wallets.GetOrCreateForUpdate(ctx, wallet.SystemOwner())
	if err != nil {
		return err
	}
	if err = system.ReleaseFromEscrow(o.FinalTotal()); err != nil {
		return errs.NewDataIntegrityError("order", o.ID().String(), err.Error())
	}
	if err = wallets.Save(ctx, system); err != nil {
		return err
	}
	if err = wallets.AddTransaction(ctx, wallet.NewOrderTransaction(system.ID(), wallet.TypeRefund, o.FinalTotal(), o.ID(), now)); err != nil {
		return err
	}
	return wallets.AddLedgerEntry(ctx, wallet.NewLedgerEntry(
		o.ID(), wallet.AccountEscrow, wallet.CustomerAccount(o.CustomerID()), o.FinalTotal(), wallet.TypeRefund, now,
	))
}
