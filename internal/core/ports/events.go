package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// AssignmentResult describes a committed assignment.
type AssignmentResult struct {
	OrderID    kernel.UUID `json:"orderId"`
	DriverID   kernel.UUID `json:"driverId"`
	DistanceKm float64     `json:"distanceKm"`
	Score      float64     `json:"score"`
	AssignedAt time.Time   `json:"assignedAt"`
}

// AssignmentPublisher notifies downstream consumers (driver apps, customer tracking)
// about committed assignments.
type AssignmentPublisher interface {
	PublishAssignment(ctx context.Context, result AssignmentResult) error
}

// SettlementRequester asks for an order to be settled asynchronously. Requests may be
// lost; the reconciliation sweep settles whatever was missed.
type SettlementRequester interface {
	RequestSettlement(ctx context.Context, orderID kernel.UUID) error
}
