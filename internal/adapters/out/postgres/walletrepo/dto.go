// Package walletrepo persists wallets, wallet transactions and escrow ledger entries.
package walletrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/wallet"

	"github.com/google/uuid"
)

type WalletDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OwnerType      string
	OwnerID        *uuid.UUID `gorm:"type:uuid"`
	IsSystemWallet bool
	Balance        int64
	PendingBalance int64
	EscrowBalance  int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (WalletDTO) TableName() string {
	return "wallets"
}

type TransactionDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	WalletID    uuid.UUID  `gorm:"type:uuid"`
	Type        string
	Amount      int64
	Status      string
	OrderID     *uuid.UUID `gorm:"type:uuid"`
	Description string
	CreatedAt   time.Time
}

func (TransactionDTO) TableName() string {
	return "wallet_transactions"
}

type LedgerEntryDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid"`
	FromAccount string
	ToAccount   string
	Amount      int64
	Reason      string
	CreatedAt   time.Time
}

func (LedgerEntryDTO) TableName() string {
	return "ledger_entries"
}

func walletFromDomain(w *wallet.Wallet) WalletDTO {
	return WalletDTO{
		ID:             w.ID().Bytes(),
		OwnerType:      string(w.Owner().Type),
		OwnerID:        ownerID(w.Owner()),
		IsSystemWallet: w.IsSystemWallet(),
		Balance:        w.Balance().Int64(),
		PendingBalance: w.PendingBalance().Int64(),
		EscrowBalance:  w.EscrowBalance().Int64(),
	}
}

func walletToDomain(dto WalletDTO) (*wallet.Wallet, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	ownerType, err := wallet.ParseOwnerType(dto.OwnerType)
	if err != nil {
		return nil, err
	}

	owner := wallet.Owner{Type: ownerType}
	if dto.OwnerID != nil {
		ownerUUID, idErr := kernel.UUIDFromBytes(dto.OwnerID[:])
		if idErr != nil {
			return nil, idErr
		}
		owner.ID = &ownerUUID
	}

	return wallet.RestoreWallet(wallet.Snapshot{
		ID:             id,
		Owner:          owner,
		Balance:        kernel.Money(dto.Balance),
		PendingBalance: kernel.Money(dto.PendingBalance),
		EscrowBalance:  kernel.Money(dto.EscrowBalance),
	})
}

func transactionFromDomain(tx wallet.Transaction) TransactionDTO {
	dto := TransactionDTO{
		ID:          tx.ID.Bytes(),
		WalletID:    tx.WalletID.Bytes(),
		Type:        string(tx.Type),
		Amount:      tx.Amount.Int64(),
		Status:      string(tx.Status),
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt,
	}
	if tx.OrderID != nil {
		raw := tx.OrderID.Bytes()
		dto.OrderID = &raw
	}
	return dto
}

func ledgerFromDomain(e wallet.LedgerEntry) LedgerEntryDTO {
	return LedgerEntryDTO{
		ID:          e.ID.Bytes(),
		OrderID:     e.OrderID.Bytes(),
		FromAccount: e.From.String(),
		ToAccount:   e.To.String(),
		Amount:      e.Amount.Int64(),
		Reason:      string(e.Reason),
		CreatedAt:   e.CreatedAt,
	}
}

func ledgerToDomain(dto LedgerEntryDTO) (wallet.LedgerEntry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return wallet.LedgerEntry{}, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return wallet.LedgerEntry{}, err
	}
	reason, err := wallet.ParseTransactionType(dto.Reason)
	if err != nil {
		return wallet.LedgerEntry{}, err
	}
	return wallet.LedgerEntry{
		ID:        id,
		OrderID:   orderID,
		From:      wallet.Account(dto.FromAccount),
		To:        wallet.Account(dto.ToAccount),
		Amount:    kernel.Money(dto.Amount),
		Reason:    reason,
		CreatedAt: dto.CreatedAt,
	}, nil
}

func ownerID(owner wallet.Owner) *uuid.UUID {
	if owner.ID == nil {
		return nil
	}
	raw := owner.ID.Bytes()
	return &raw
}
