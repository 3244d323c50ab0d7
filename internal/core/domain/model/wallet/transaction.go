package wallet

import (
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

type TransactionType string

const (
	TypeOrderRevenue     TransactionType = "order_revenue"
	TypeCommission       TransactionType = "commission"
	TypePlatformFee      TransactionType = "platform_fee"
	TypeDriverCommission TransactionType = "driver_commission"
	TypeDeposit          TransactionType = "deposit"
	TypeRefund           TransactionType = "refund"
)

// SettlementTypes are the four legs written when an order is settled.
var SettlementTypes = []TransactionType{TypeOrderRevenue, TypeCommission, TypePlatformFee, TypeDriverCommission}

func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(s); t {
	case TypeOrderRevenue, TypeCommission, TypePlatformFee, TypeDriverCommission, TypeDeposit, TypeRefund:
		return t, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("transactionType", fmt.Errorf("%q is not a valid transaction type", s))
	}
}

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
)

// Transaction is one line of a wallet statement. At most one completed transaction exists
// per (orderID, type).
type Transaction struct {
	ID          kernel.UUID
	WalletID    kernel.UUID
	Type        TransactionType
	Amount      kernel.Money
	Status      TransactionStatus
	OrderID     *kernel.UUID
	Description string
	CreatedAt   time.Time
}

// NewOrderTransaction builds a completed transaction tied to an order.
func NewOrderTransaction(
	walletID kernel.UUID,
	txType TransactionType,
	amount kernel.Money,
	orderID kernel.UUID,
	now time.Time,
) Transaction {
	return Transaction{
		ID:          kernel.NewUUID(),
		WalletID:    walletID,
		Type:        txType,
		Amount:      amount,
		Status:      StatusCompleted,
		OrderID:     &orderID,
		Description: fmt.Sprintf("%s for order %s", txType, orderID),
		CreatedAt:   now.UTC(),
	}
}
