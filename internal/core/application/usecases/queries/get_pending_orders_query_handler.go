package queries

import (
	"context"
	"database/sql"

	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetPendingOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetPendingOrdersQueryHandler(db *gorm.DB) GetPendingOrdersQueryHandler {
	return GetPendingOrdersQueryHandler{db: db}
}

func (h GetPendingOrdersQueryHandler) Handle(ctx context.Context, query GetPendingOrdersQuery) ([]PendingOrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			restaurant_id,
			customer_id,
			final_total,
			integrity_error,
			created_at
		FROM orders
		WHERE status = ?
		ORDER BY created_at, id
	`, order.Pending.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]PendingOrderResponse, 0)
	for rows.Next() {
		var (
			resp                         PendingOrderResponse
			id, restaurantID, customerID uuid.UUID
			integrityError               sql.NullString
		)
		if err = rows.Scan(&id, &restaurantID, &customerID, &resp.FinalTotal, &integrityError, &resp.CreatedAt); err != nil {
			return nil, err
		}
		if resp.ID, err = toID(id); err != nil {
			return nil, err
		}
		if resp.RestaurantID, err = toID(restaurantID); err != nil {
			return nil, err
		}
		if resp.CustomerID, err = toID(customerID); err != nil {
			return nil, err
		}
		resp.IntegrityError = integrityError.String
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}
