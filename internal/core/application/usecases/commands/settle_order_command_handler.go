package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/wallet"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"
)

// SettlementStatus tells what a settlement call did.
type SettlementStatus string

const (
	SettlementApplied SettlementStatus = "settled"
	SettlementSkipped SettlementStatus = "skipped"
)

// SettlementResult is returned for every successful call, including no-ops.
type SettlementResult struct {
	OrderID kernel.UUID
	Status  SettlementStatus
	Split   services.Split
	// Applied lists the legs written by this call; empty when skipped.
	Applied []wallet.TransactionType
}

// SettleOrderCommandHandler applies the settlement split of a delivered order.
//
// Every leg is keyed by (orderId, transaction type). Legs already completed are skipped,
// so a retry after partial legacy state only writes what is missing, and a repeated call
// writes nothing. The order row is locked first and wallet rows are locked in a fixed
// order (restaurant, driver, system) so concurrent settlements neither double-apply nor
// deadlock; a duplicate that still slips through fails on the unique index and is
// reported as skipped.
type SettleOrderCommandHandler struct {
	uowFactory UoWFactory
	calculator services.SettlementCalculator
	logger     *slog.Logger
}

func NewSettleOrderCommandHandler(uowFactory UoWFactory, calculator services.SettlementCalculator, logger *slog.Logger) SettleOrderCommandHandler {
	return SettleOrderCommandHandler{
		uowFactory: uowFactory,
		calculator: calculator,
		logger:     logger.With("component", "settle_order"),
	}
}

func (h SettleOrderCommandHandler) Handle(ctx context.Context, cmd SettleOrderCommand) (SettlementResult, error) {
	if err := cmd.Validate(); err != nil {
		return SettlementResult{}, err
	}

	result, err := h.settle(ctx, cmd.OrderID())
	if errors.Is(err, errs.ErrSettlementConflict) {
		h.logger.InfoContext(ctx, "concurrent settlement won the race", "order_id", cmd.OrderID().String())
		return SettlementResult{OrderID: cmd.OrderID(), Status: SettlementSkipped}, nil
	}
	var integrity *errs.DataIntegrityError
	if errors.As(err, &integrity) {
		h.quarantine(ctx, cmd.OrderID(), integrity)
	}
	if err != nil {
		return SettlementResult{}, fmt.Errorf("settle order %s: %w", cmd.OrderID(), err)
	}

	if result.Status == SettlementApplied {
		h.logger.InfoContext(ctx, "order settled",
			"order_id", cmd.OrderID().String(),
			"restaurant_revenue", result.Split.RestaurantRevenue.Int64(),
			"driver_payment", result.Split.DriverPayment.Int64(),
			"platform_total", result.Split.PlatformTotal().Int64(),
			"legs", len(result.Applied))
	}
	return result, nil
}

func (h SettleOrderCommandHandler) settle(ctx context.Context, orderID kernel.UUID) (SettlementResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return SettlementResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()
	drivers := uow.DriverRepository()
	wallets := uow.WalletRepository()

	o, err := orders.GetForUpdate(ctx, orderID)
	if err != nil {
		return SettlementResult{}, err
	}
	if o.Status() != order.Delivered {
		return SettlementResult{}, errs.NewInvalidTransition("order", o.Status().String(), "settle")
	}

	done, err := wallets.CompletedTransactionTypes(ctx, orderID)
	if err != nil {
		return SettlementResult{}, err
	}
	pending := missingLegs(done)
	if len(pending) == 0 {
		return SettlementResult{OrderID: orderID, Status: SettlementSkipped}, nil
	}
	// Escrow is pooled on the system wallet; only an order that deposited may draw from it.
	if !slices.Contains(done, wallet.TypeDeposit) {
		return SettlementResult{}, errs.NewDataIntegrityError("order", orderID.String(), "no escrow deposit was captured")
	}

	split, err := h.calculator.Split(o)
	if err != nil {
		return SettlementResult{}, err
	}

	d, err := drivers.Get(ctx, *o.DriverID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return SettlementResult{}, errs.NewDataIntegrityError("order", orderID.String(),
			fmt.Sprintf("driver %s cannot be resolved to a wallet owner", o.DriverID()))
	}
	if err != nil {
		return SettlementResult{}, err
	}

	restaurantWallet, err := wallets.GetOrCreateForUpdate(ctx, wallet.RestaurantOwner(o.RestaurantID()))
	if err != nil {
		return SettlementResult{}, err
	}
	driverWallet, err := wallets.GetOrCreateForUpdate(ctx, wallet.DriverOwner(d.UserID()))
	if err != nil {
		return SettlementResult{}, err
	}
	systemWallet, err := wallets.GetOrCreateForUpdate(ctx, wallet.SystemOwner())
	if err != nil {
		return SettlementResult{}, err
	}

	payees := map[wallet.TransactionType]*wallet.Wallet{
		wallet.TypeOrderRevenue:     restaurantWallet,
		wallet.TypeCommission:       driverWallet,
		wallet.TypePlatformFee:      systemWallet,
		wallet.TypeDriverCommission: systemWallet,
	}

	now := time.Now()
	for _, leg := range pending {
		payee := payees[leg]
		amount := split.Amount(leg)

		if err = systemWallet.ReleaseFromEscrow(amount); err != nil {
			return SettlementResult{}, errs.NewDataIntegrityError("order", orderID.String(), err.Error())
		}
		if err = payee.Credit(amount); err != nil {
			return SettlementResult{}, err
		}
		if err = wallets.AddTransaction(ctx, wallet.NewOrderTransaction(payee.ID(), leg, amount, orderID, now)); err != nil {
			return SettlementResult{}, err
		}
		if err = wallets.AddLedgerEntry(ctx, wallet.NewLedgerEntry(
			orderID, wallet.AccountEscrow, wallet.OwnerAccount(payee.Owner()), amount, leg, now,
		)); err != nil {
			return SettlementResult{}, err
		}
	}

	for _, w := range []*wallet.Wallet{restaurantWallet, driverWallet, systemWallet} {
		if err = wallets.Save(ctx, w); err != nil {
			return SettlementResult{}, err
		}
	}

	if split.Clamped {
		h.logger.WarnContext(ctx, "fee rates exceed payouts, order flagged for review", "order_id", orderID.String())
		o.FlagForReview()
	}
	if err = o.RecordSettlement(split.PlatformFee, split.DriverCommission); err != nil {
		return SettlementResult{}, err
	}
	if err = orders.Update(ctx, o); err != nil {
		return SettlementResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return SettlementResult{}, err
	}

	return SettlementResult{OrderID: orderID, Status: SettlementApplied, Split: split, Applied: pending}, nil
}

// quarantine marks the order so the reconciliation sweep stops picking it up. The order
// stays visible in the reconciliation report until it is repaired by hand.
func (h SettleOrderCommandHandler) quarantine(ctx context.Context, orderID kernel.UUID, cause *errs.DataIntegrityError) {
	h.logger.ErrorContext(ctx, "settlement needs manual repair", "order_id", orderID.String(), "error", cause)

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		h.logger.ErrorContext(ctx, "integrity error not persisted", "order_id", orderID.String(), "error", err)
		return
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	err := uow.OrderRepository().MarkIntegrityError(ctx, orderID, cause.Reason)
	if err == nil {
		err = uow.Commit(ctx)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "integrity error not persisted", "order_id", orderID.String(), "error", err)
	}
}

func missingLegs(done []wallet.TransactionType) []wallet.TransactionType {
	missing := make([]wallet.TransactionType, 0, len(wallet.SettlementTypes))
	for _, t := range wallet.SettlementTypes {
		if !slices.Contains(done, t) {
			missing = append(missing, t)
		}
	}
	return missing
}
