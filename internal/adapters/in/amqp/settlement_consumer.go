// Package amqp consumes settlement requests from RabbitMQ.
package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	out "dispatch/internal/adapters/out/amqp"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/pkg/errs"

	amqp091 "github.com/rabbitmq/amqp091-go"
)

const consumerTag = "dispatch-settlement"

// Source is the part of the broker the consumer needs.
type Source interface {
	Consume(ctx context.Context, queue, consumer string, handler func(amqp091.Delivery)) error
}

// SettlementConsumer settles orders announced on order.delivered.
//
// Messages are acknowledged once settlement succeeded or turned out to be a no-op.
// Malformed messages and orders that can never settle (not delivered, data integrity
// errors) are rejected without requeue; the reconciliation report lists such orders.
// Other failures are requeued once and then dropped; the sweep retries them.
type SettlementConsumer struct {
	source  Source
	settler commands.OrderSettler
	logger  *slog.Logger
}

func NewSettlementConsumer(source Source, settler commands.OrderSettler, logger *slog.Logger) *SettlementConsumer {
	return &SettlementConsumer{
		source:  source,
		settler: settler,
		logger:  logger.With("component", "settlement_consumer"),
	}
}

func (c *SettlementConsumer) Start(ctx context.Context) error {
	return c.source.Consume(ctx, out.QueueSettlement, consumerTag, func(msg amqp091.Delivery) {
		c.Handle(ctx, msg)
	})
}

// Handle processes one delivery.
func (c *SettlementConsumer) Handle(ctx context.Context, msg amqp091.Delivery) {
	var req out.SettlementRequest
	if err := json.Unmarshal(msg.Body, &req); err != nil {
		c.logger.WarnContext(ctx, "malformed settlement request", "error", err)
		_ = msg.Nack(false, false)
		return
	}

	cmd, err := commands.NewSettleOrderCommand(req.OrderID)
	if err != nil {
		c.logger.WarnContext(ctx, "invalid settlement request", "error", err)
		_ = msg.Nack(false, false)
		return
	}

	result, err := c.settler.Handle(ctx, cmd)
	switch {
	case err == nil:
		c.logger.DebugContext(ctx, "settlement request handled",
			"order_id", req.OrderID.String(), "status", string(result.Status))
		_ = msg.Ack(false)
	case permanent(err):
		c.logger.ErrorContext(ctx, "order cannot be settled", "order_id", req.OrderID.String(), "error", err)
		_ = msg.Nack(false, false)
	default:
		c.logger.WarnContext(ctx, "settlement failed",
			"order_id", req.OrderID.String(), "redelivered", msg.Redelivered, "error", err)
		_ = msg.Nack(false, !msg.Redelivered)
	}
}

func permanent(err error) bool {
	return errors.Is(err, errs.ErrDataIntegrity) ||
		errors.Is(err, errs.ErrInvalidTransition) ||
		errors.Is(err, errs.ErrObjectNotFound)
}
