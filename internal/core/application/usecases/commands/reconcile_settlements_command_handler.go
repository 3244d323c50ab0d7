package commands

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/kernel"

	"golang.org/x/sync/errgroup"
)

// OrderSettler settles a single order.
type OrderSettler interface {
	Handle(ctx context.Context, cmd SettleOrderCommand) (SettlementResult, error)
}

// SweepFailure is an order the sweep could not settle.
type SweepFailure struct {
	OrderID kernel.UUID `json:"orderId"`
	Error   string      `json:"error"`
}

// SweepReport summarizes one reconciliation sweep.
type SweepReport struct {
	Scanned  int            `json:"scanned"`
	Settled  int            `json:"settled"`
	Skipped  int            `json:"skipped"`
	Failed   []SweepFailure `json:"failed"`
	Duration time.Duration  `json:"duration"`
}

// ReconcileSettlementsCommandHandler finds delivered orders lacking completed settlement
// transactions and settles them in parallel. Orders already settled by a concurrent
// trigger come back as skipped; failures are collected, never abort the sweep.
type ReconcileSettlementsCommandHandler struct {
	uowFactory UoWFactory
	settler    OrderSettler
	logger     *slog.Logger
}

func NewReconcileSettlementsCommandHandler(uowFactory UoWFactory, settler OrderSettler, logger *slog.Logger) ReconcileSettlementsCommandHandler {
	return ReconcileSettlementsCommandHandler{
		uowFactory: uowFactory,
		settler:    settler,
		logger:     logger.With("component", "reconcile_settlements"),
	}
}

func (h ReconcileSettlementsCommandHandler) Handle(ctx context.Context, cmd ReconcileSettlementsCommand) (SweepReport, error) {
	if err := cmd.Validate(); err != nil {
		return SweepReport{}, err
	}

	started := time.Now()

	ids, err := h.uowFactory.Create().OrderRepository().GetUnsettledDelivered(ctx, cmd.BatchSize())
	if err != nil {
		return SweepReport{}, err
	}

	var (
		mu     sync.Mutex
		report = SweepReport{Scanned: len(ids), Failed: []SweepFailure{}}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cmd.Concurrency())

	for _, id := range ids {
		g.Go(func() error {
			settleCmd, cmdErr := NewSettleOrderCommand(id)
			if cmdErr != nil {
				return cmdErr
			}

			result, settleErr := h.settler.Handle(gctx, settleCmd)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case settleErr != nil:
				report.Failed = append(report.Failed, SweepFailure{OrderID: id, Error: settleErr.Error()})
				h.logger.ErrorContext(gctx, "settlement failed", "order_id", id.String(), "error", settleErr)
			case result.Status == SettlementApplied:
				report.Settled++
			default:
				report.Skipped++
			}
			return nil
		})
	}

	if err = g.Wait(); err != nil {
		return report, err
	}

	report.Duration = time.Since(started)
	h.logger.InfoContext(ctx, "reconciliation sweep finished",
		"scanned", report.Scanned, "settled", report.Settled,
		"skipped", report.Skipped, "failed", len(report.Failed))
	return report, nil
}
