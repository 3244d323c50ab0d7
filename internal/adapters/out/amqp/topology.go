package amqp

import (
	"context"
	"fmt"
)

const (
	Exchange = "dispatch_topic"

	RoutingKeyAssigned  = "order.assigned"
	RoutingKeyDelivered = "order.delivered"

	QueueAssignments = "order.assigned"
	QueueSettlement  = "settlement.requests"
)

// SetupTopology declares the dispatch exchange and its durable queues. It is idempotent.
func (b *Broker) SetupTopology(ctx context.Context) error {
	ch, err := b.channel()
	if err != nil {
		return err
	}

	if err = ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare %s: %w", Exchange, err)
	}

	bindings := []struct{ queue, key string }{
		{QueueAssignments, RoutingKeyAssigned},
		{QueueSettlement, RoutingKeyDelivered},
	}
	for _, bnd := range bindings {
		if _, err = ch.QueueDeclare(bnd.queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", bnd.queue, err)
		}
		if err = ch.QueueBind(bnd.queue, bnd.key, Exchange, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", bnd.queue, err)
		}
	}

	b.logger.InfoContext(ctx, "rabbitmq topology ready", "exchange", Exchange)
	return nil
}
