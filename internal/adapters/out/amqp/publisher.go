package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// Sender is the part of Broker the publisher needs.
type Sender interface {
	Publish(ctx context.Context, exchange, routingKey string, body []byte) error
}

// SettlementRequest is the body of an order.delivered message.
type SettlementRequest struct {
	OrderID     kernel.UUID `json:"orderId"`
	RequestedAt time.Time   `json:"requestedAt"`
}

// Publisher implements ports.AssignmentPublisher and ports.SettlementRequester on RabbitMQ.
type Publisher struct {
	sender Sender
}

func NewPublisher(sender Sender) *Publisher {
	return &Publisher{sender: sender}
}

var (
	_ ports.AssignmentPublisher = (*Publisher)(nil)
	_ ports.SettlementRequester = (*Publisher)(nil)
)

func (p *Publisher) PublishAssignment(ctx context.Context, result ports.AssignmentResult) error {
	return p.publish(ctx, RoutingKeyAssigned, result)
}

func (p *Publisher) RequestSettlement(ctx context.Context, orderID kernel.UUID) error {
	return p.publish(ctx, RoutingKeyDelivered, SettlementRequest{OrderID: orderID, RequestedAt: time.Now().UTC()})
}

func (p *Publisher) publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", routingKey, err)
	}
	if err = p.sender.Publish(ctx, Exchange, routingKey, body); err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}
