// Package amqp publishes dispatch events to RabbitMQ.
package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	connectAttempts = 10
	publishTimeout  = 5 * time.Second
	prefetchCount   = 10
)

var ErrChannelUnavailable = errors.New("rabbitmq channel not available")

// Broker owns one connection and one channel. Publish may be called from several
// goroutines; the channel is shared under a mutex.
type Broker struct {
	url    string
	conn   *amqp.Connection
	ch     *amqp.Channel
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

// Dial connects with exponential backoff, giving up after connectAttempts tries or when
// ctx is done.
func Dial(ctx context.Context, url string, logger *slog.Logger) (*Broker, error) {
	b := &Broker{url: url, logger: logger.With("component", "rabbitmq")}

	delay := time.Second
	for attempt := 1; ; attempt++ {
		err := b.connect()
		if err == nil {
			b.logger.InfoContext(ctx, "rabbitmq connected", "attempt", attempt)
			return b, nil
		}
		if attempt == connectAttempts {
			return nil, fmt.Errorf("connect to rabbitmq after %d attempts: %w", attempt, err)
		}

		b.logger.WarnContext(ctx, "rabbitmq connection failed", "attempt", attempt, "retry_in", delay, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay = min(time.Duration(float64(delay)*1.5), 30*time.Second)
	}
}

func (b *Broker) connect() error {
	conn, err := amqp.Dial(b.url)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	if err = ch.Qos(prefetchCount, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("set qos: %w", err)
	}

	b.mu.Lock()
	b.conn, b.ch = conn, ch
	b.mu.Unlock()
	return nil
}

func (b *Broker) channel() (*amqp.Channel, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ch == nil || b.closed {
		return nil, ErrChannelUnavailable
	}
	return b.ch, nil
}

// Publish sends a persistent JSON message.
func (b *Broker) Publish(ctx context.Context, exchange, routingKey string, body []byte) error {
	ch, err := b.channel()
	if err != nil {
		return err
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return ch.PublishWithContext(publishCtx, exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
}

// Consume delivers messages of queue to handler until ctx is done or the channel closes.
// Messages must be acknowledged by the handler.
func (b *Broker) Consume(ctx context.Context, queue, consumer string, handler func(amqp.Delivery)) error {
	ch, err := b.channel()
	if err != nil {
		return err
	}

	msgs, err := ch.Consume(queue, consumer, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", queue, err)
	}
	b.logger.InfoContext(ctx, "consumer started", "queue", queue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					b.logger.InfoContext(ctx, "consumer stopped", "queue", queue)
					return
				}
				handler(msg)
			}
		}
	}()
	return nil
}

func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	if b.ch != nil {
		_ = b.ch.Close()
	}
	if b.conn != nil {
		_ = b.conn.Close()
	}
	b.logger.Info("rabbitmq connection closed")
}
