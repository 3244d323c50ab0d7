package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetWalletTransactionsQueryHandler struct {
	db *gorm.DB
}

func NewGetWalletTransactionsQueryHandler(db *gorm.DB) GetWalletTransactionsQueryHandler {
	return GetWalletTransactionsQueryHandler{db: db}
}

// Handle returns an empty list for an owner without a wallet.
func (h GetWalletTransactionsQueryHandler) Handle(
	ctx context.Context,
	query GetWalletTransactionsQuery,
) ([]WalletTransactionResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	where, args := walletLookup(query.Owner())
	args = append(args, query.Limit())

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			t.id,
			t.type,
			t.amount,
			t.status,
			t.order_id,
			t.description,
			t.created_at
		FROM wallet_transactions t
		WHERE t.wallet_id = (SELECT id FROM wallets WHERE `+where+`)
		ORDER BY t.created_at DESC, t.id
		LIMIT ?
	`, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]WalletTransactionResponse, 0)
	for rows.Next() {
		var (
			resp    WalletTransactionResponse
			id      uuid.UUID
			orderID uuid.NullUUID
		)
		err = rows.Scan(&id, &resp.Type, &resp.Amount, &resp.Status, &orderID, &resp.Description, &resp.CreatedAt)
		if err != nil {
			return nil, err
		}
		if resp.ID, err = toID(id); err != nil {
			return nil, err
		}
		if resp.OrderID, err = toNullID(orderID); err != nil {
			return nil, err
		}
		transactions = append(transactions, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return transactions, nil
}
