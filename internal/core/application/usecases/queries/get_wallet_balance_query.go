package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/wallet"
	"dispatch/internal/pkg/guard"
)

var ErrGetWalletBalanceQueryIsNotConstructed = errors.New(
	"GetWalletBalanceQuery must be created via NewGetWalletBalanceQuery constructor",
)

// GetWalletBalanceQuery reads one wallet. ownerType "admin" with ownerID "system"
// addresses the platform's system wallet.
type GetWalletBalanceQuery struct {
	owner wallet.Owner
	guard guard.ConstructorGuard
}

func NewGetWalletBalanceQuery(ownerType, ownerID string) (GetWalletBalanceQuery, error) {
	owner, err := wallet.ParseOwner(ownerType, ownerID)
	if err != nil {
		return GetWalletBalanceQuery{}, err
	}
	return GetWalletBalanceQuery{owner: owner, guard: guard.NewConstructorGuard()}, nil
}

func (q GetWalletBalanceQuery) Validate() error {
	return q.guard.Validate(ErrGetWalletBalanceQueryIsNotConstructed)
}

func (q GetWalletBalanceQuery) Owner() wallet.Owner {
	return q.owner
}

type WalletBalanceResponse struct {
	WalletID       kernel.UUID  `json:"walletId"`
	OwnerType      string       `json:"ownerType"`
	OwnerID        *kernel.UUID `json:"ownerId,omitempty"`
	IsSystemWallet bool         `json:"isSystemWallet"`
	Balance        kernel.Money `json:"balance"`
	PendingBalance kernel.Money `json:"pendingBalance"`
	EscrowBalance  kernel.Money `json:"escrowBalance"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}
