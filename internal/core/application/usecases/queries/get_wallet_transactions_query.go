package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/wallet"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	DefaultTransactionsLimit = 50
	MaxTransactionsLimit     = 500
)

var ErrGetWalletTransactionsQueryIsNotConstructed = errors.New(
	"GetWalletTransactionsQuery must be created via NewGetWalletTransactionsQuery constructor",
)

// GetWalletTransactionsQuery lists the latest transactions of a wallet, newest first.
// A limit of 0 selects DefaultTransactionsLimit.
type GetWalletTransactionsQuery struct {
	owner wallet.Owner
	limit int
	guard guard.ConstructorGuard
}

func NewGetWalletTransactionsQuery(ownerType, ownerID string, limit int) (GetWalletTransactionsQuery, error) {
	owner, ownerErr := wallet.ParseOwner(ownerType, ownerID)

	var limitErr error
	if limit == 0 {
		limit = DefaultTransactionsLimit
	}
	if limit < 1 || limit > MaxTransactionsLimit {
		limitErr = errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxTransactionsLimit)
	}

	if err := errors.Join(ownerErr, limitErr); err != nil {
		return GetWalletTransactionsQuery{}, err
	}
	return GetWalletTransactionsQuery{owner: owner, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q GetWalletTransactionsQuery) Validate() error {
	return q.guard.Validate(ErrGetWalletTransactionsQueryIsNotConstructed)
}

func (q GetWalletTransactionsQuery) Owner() wallet.Owner {
	return q.owner
}

func (q GetWalletTransactionsQuery) Limit() int {
	return q.limit
}

type WalletTransactionResponse struct {
	ID          kernel.UUID  `json:"id"`
	Type        string       `json:"type"`
	Amount      kernel.Money `json:"amount"`
	Status      string       `json:"status"`
	OrderID     *kernel.UUID `json:"orderId,omitempty"`
	Description string       `json:"description"`
	CreatedAt   time.Time    `json:"createdAt"`
}
