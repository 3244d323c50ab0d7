package amqp

import (
	"context"
	"log/slog"

	"dispatch/internal/core/ports"
)

// LogPublisher stands in for Publisher when no broker is configured: assignments are only
// written to the log.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("component", "assignment_log")}
}

func (p *LogPublisher) PublishAssignment(ctx context.Context, result ports.AssignmentResult) error {
	p.logger.InfoContext(ctx, "order assigned",
		"order_id", result.OrderID.String(),
		"driver_id", result.DriverID.String(),
		"distance_km", result.DistanceKm,
		"score", result.Score)
	return nil
}
