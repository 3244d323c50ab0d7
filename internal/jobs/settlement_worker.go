package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

const (
	DefaultSettlementQueueSize = 256
	DefaultSettlementWorkers   = 2

	settlementTimeout = 30 * time.Second
)

// ErrSettlementQueueFull is returned when a request is dropped. The reconciliation
// sweep settles the order later.
var ErrSettlementQueueFull = errors.New("settlement queue is full")

var _ ports.SettlementRequester = (*SettlementWorker)(nil)

// SettlementWorker settles delivered orders in the background when no message broker is
// configured. The queue is bounded and requests never block the caller.
type SettlementWorker struct {
	settler commands.OrderSettler
	queue   chan kernel.UUID
	workers int
	logger  *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewSettlementWorker(settler commands.OrderSettler, queueSize, workers int, logger *slog.Logger) *SettlementWorker {
	if queueSize <= 0 {
		queueSize = DefaultSettlementQueueSize
	}
	if workers <= 0 {
		workers = DefaultSettlementWorkers
	}
	return &SettlementWorker{
		settler: settler,
		queue:   make(chan kernel.UUID, queueSize),
		workers: workers,
		logger:  logger.With("component", "settlement_worker"),
	}
}

// RequestSettlement queues the order or drops the request when the queue is full.
func (w *SettlementWorker) RequestSettlement(ctx context.Context, orderID kernel.UUID) error {
	select {
	case w.queue <- orderID:
		return nil
	default:
		w.logger.WarnContext(ctx, "Settlement request dropped, left to reconciliation", "order_id", orderID.String())
		return ErrSettlementQueueFull
	}
}

// Start launches the workers. They run until Stop is called or ctx is cancelled.
func (w *SettlementWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)

	for range w.workers {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.loop(ctx)
		}()
	}
	w.logger.InfoContext(ctx, "Settlement worker started", "workers", w.workers, "queue_size", cap(w.queue))
}

// Stop cancels the workers and waits for the settlement in progress. Queued requests
// are abandoned.
func (w *SettlementWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	w.logger.Info("Settlement worker stopped", "abandoned", len(w.queue))
}

func (w *SettlementWorker) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case orderID := <-w.queue:
			w.settle(ctx, orderID)
		}
	}
}

func (w *SettlementWorker) settle(ctx context.Context, orderID kernel.UUID) {
	cmd, err := commands.NewSettleOrderCommand(orderID)
	if err != nil {
		w.logger.ErrorContext(ctx, "Invalid settlement request", "order_id", orderID.String(), "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, settlementTimeout)
	defer cancel()

	result, err := w.settler.Handle(ctx, cmd)
	if err != nil {
		w.logger.ErrorContext(ctx, "Settlement failed", "order_id", orderID.String(), "error", err)
		return
	}
	w.logger.DebugContext(ctx, "Settlement handled", "order_id", orderID.String(), "status", string(result.Status))
}
