package queries

import (
	"context"
	"database/sql"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/wallet"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GetReconciliationReportQueryHandler builds the report with one SQL statement per section.
// Sections are read outside a transaction, so an order settled meanwhile may appear in
// an older section.
type GetReconciliationReportQueryHandler struct {
	db *gorm.DB
}

func NewGetReconciliationReportQueryHandler(db *gorm.DB) GetReconciliationReportQueryHandler {
	return GetReconciliationReportQueryHandler{db: db}
}

// completedLegs counts the distinct settlement legs already written for o.id.
const completedLegs = `(
	SELECT count(DISTINCT t.type)
	FROM wallet_transactions t
	WHERE t.order_id = o.id AND t.status = @completed AND t.type = ANY(@legs)
)`

const reportOrderColumns = `
	o.id,
	o.status,
	o.driver_id,
	o.final_total,
	` + completedLegs + `,
	o.integrity_error,
	o.needs_review,
	o.delivered_at,
	o.created_at`

func (h GetReconciliationReportQueryHandler) Handle(
	ctx context.Context,
	query GetReconciliationReportQuery,
) (ReconciliationReport, error) {
	if err := query.Validate(); err != nil {
		return ReconciliationReport{}, err
	}

	legs := make([]string, 0, len(wallet.SettlementTypes))
	for _, t := range wallet.SettlementTypes {
		legs = append(legs, string(t))
	}
	params := map[string]any{
		"completed": string(wallet.StatusCompleted),
		"legs":      pq.Array(legs),
		"legCount":  len(legs),
		"delivered": order.Delivered.String(),
		"cancelled": order.Cancelled.String(),
		"limit":     query.Limit(),
	}

	report := ReconciliationReport{GeneratedAt: time.Now().UTC()}
	var err error

	report.Unsettled, err = h.orders(ctx, `
		SELECT `+reportOrderColumns+`
		FROM orders o
		WHERE o.status = @delivered
		  AND o.driver_id IS NOT NULL
		  AND `+completedLegs+` < @legCount
		ORDER BY o.delivered_at NULLS FIRST, o.id
		LIMIT @limit`, params)
	if err != nil {
		return ReconciliationReport{}, err
	}

	report.NeedsReview, err = h.orders(ctx, `
		SELECT `+reportOrderColumns+`
		FROM orders o
		WHERE o.needs_review
		ORDER BY o.created_at, o.id
		LIMIT @limit`, params)
	if err != nil {
		return ReconciliationReport{}, err
	}

	report.IntegrityErrors, err = h.orders(ctx, `
		SELECT `+reportOrderColumns+`
		FROM orders o
		WHERE o.integrity_error IS NOT NULL
		ORDER BY o.created_at, o.id
		LIMIT @limit`, params)
	if err != nil {
		return ReconciliationReport{}, err
	}

	report.LedgerImbalances, err = h.imbalances(ctx, params)
	if err != nil {
		return ReconciliationReport{}, err
	}

	return report, nil
}

func (h GetReconciliationReportQueryHandler) orders(ctx context.Context, stmt string, params map[string]any) ([]ReportOrder, error) {
	rows, err := h.db.WithContext(ctx).Raw(stmt, params).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]ReportOrder, 0)
	for rows.Next() {
		var (
			row            ReportOrder
			id             uuid.UUID
			driverID       uuid.NullUUID
			integrityError sql.NullString
			deliveredAt    sql.NullTime
		)
		err = rows.Scan(
			&id,
			&row.Status,
			&driverID,
			&row.FinalTotal,
			&row.CompletedLegs,
			&integrityError,
			&row.NeedsReview,
			&deliveredAt,
			&row.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if row.OrderID, err = toID(id); err != nil {
			return nil, err
		}
		if row.DriverID, err = toNullID(driverID); err != nil {
			return nil, err
		}
		row.IntegrityError = integrityError.String
		if deliveredAt.Valid {
			row.DeliveredAt = &deliveredAt.Time
		}
		result = append(result, row)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// imbalances replays the escrow ledger of settled and cancelled orders.
func (h GetReconciliationReportQueryHandler) imbalances(ctx context.Context, params map[string]any) ([]LedgerImbalance, error) {
	params["escrow"] = wallet.AccountEscrow.String()

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT o.id, o.status, net.escrow_net
		FROM orders o
		JOIN (
			SELECT
				l.order_id,
				(sum(CASE WHEN l.to_account = @escrow THEN l.amount ELSE 0 END)
					- sum(CASE WHEN l.from_account = @escrow THEN l.amount ELSE 0 END))::bigint AS escrow_net
			FROM ledger_entries l
			GROUP BY l.order_id
		) net ON net.order_id = o.id
		WHERE net.escrow_net <> 0
		  AND (
			o.status = @cancelled
			OR (o.status = @delivered AND `+completedLegs+` = @legCount)
		  )
		ORDER BY o.id
		LIMIT @limit`, params).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]LedgerImbalance, 0)
	for rows.Next() {
		var (
			row LedgerImbalance
			id  uuid.UUID
		)
		if err = rows.Scan(&id, &row.Status, &row.EscrowNet); err != nil {
			return nil, err
		}
		if row.OrderID, err = toID(id); err != nil {
			return nil, err
		}
		result = append(result, row)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
