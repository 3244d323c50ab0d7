package commands

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/wallet"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// CaptureOrderCommandHandler persists a captured order, credits the system wallet's escrow
// with the order total and records the deposit, all in one transaction. The order is then
// queued for matching.
//
// Capturing the same order id twice is a no-op.
type CaptureOrderCommandHandler struct {
	uowFactory UoWFactory
	registry   ports.LiveRegistry
	defaults   services.SettlementDefaults
	logger     *slog.Logger
}

func NewCaptureOrderCommandHandler(
	uowFactory UoWFactory,
	registry ports.LiveRegistry,
	defaults services.SettlementDefaults,
	logger *slog.Logger,
) CaptureOrderCommandHandler {
	return CaptureOrderCommandHandler{
		uowFactory: uowFactory,
		registry:   registry,
		defaults:   defaults,
		logger:     logger.With("component", "capture_order"),
	}
}

func (h CaptureOrderCommandHandler) Handle(ctx context.Context, cmd CaptureOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now()
	o, err := order.NewOrder(cmd.Intake(h.defaults.PlatformFeeRate, h.defaults.DriverCommissionRate), now)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()
	wallets := uow.WalletRepository()

	done, err := wallets.CompletedTransactionTypes(ctx, o.ID())
	if err != nil {
		return err
	}
	if slices.Contains(done, wallet.TypeDeposit) {
		h.logger.InfoContext(ctx, "order already captured", "order_id", o.ID().String())
		return nil
	}

	if err = orders.Add(ctx, o); err != nil {
		return err
	}

	system, err := wallets.GetOrCreateForUpdate(ctx, wallet.SystemOwner())
	if err != nil {
		return err
	}
	if err = system.HoldInEscrow(o.FinalTotal()); err != nil {
		return err
	}
	if err = wallets.Save(ctx, system); err != nil {
		return err
	}
	if err = wallets.AddTransaction(ctx, wallet.NewOrderTransaction(system.ID(), wallet.TypeDeposit, o.FinalTotal(), o.ID(), now)); err != nil {
		return err
	}
	if err = wallets.AddLedgerEntry(ctx, wallet.NewLedgerEntry(
		o.ID(), wallet.AccountCapture, wallet.AccountEscrow, o.FinalTotal(), wallet.TypeDeposit, now,
	)); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if err = h.registry.EnqueuePending(ctx, o.ID()); err != nil {
		h.logger.WarnContext(ctx, "registry enqueue dropped", "order_id", o.ID().String(), "error", err)
	}

	return nil
}
