// Package queries contains the read side of the dispatch service.
// Handlers read straight from PostgreSQL with hand-written SQL and return flat read models;
// they never load aggregates.
package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetPendingOrdersQueryIsNotConstructed = errors.New(
	"GetPendingOrdersQuery must be created via NewGetPendingOrdersQuery constructor",
)

// GetPendingOrdersQuery lists orders waiting for a driver, oldest first.
// Quarantined orders are included with their integrity error so operators can see them.
//
// Example:
//
//	query := NewGetPendingOrdersQuery()
//	orders, err := handler.Handle(ctx, query)
type GetPendingOrdersQuery struct {
	guard guard.ConstructorGuard
}

func NewGetPendingOrdersQuery() GetPendingOrdersQuery {
	return GetPendingOrdersQuery{guard: guard.NewConstructorGuard()}
}

func (q GetPendingOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetPendingOrdersQueryIsNotConstructed)
}

type PendingOrderResponse struct {
	ID             kernel.UUID  `json:"id"`
	RestaurantID   kernel.UUID  `json:"restaurantId"`
	CustomerID     kernel.UUID  `json:"customerId"`
	FinalTotal     kernel.Money `json:"finalTotal"`
	IntegrityError string       `json:"integrityError,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
}
