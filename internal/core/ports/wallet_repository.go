package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/wallet"
)

// WalletRepository persists wallets, their transactions and the escrow ledger.
type WalletRepository interface {
	// GetOrCreateForUpdate returns the owner's wallet, opening it on first reference,
	// with its row locked until the transaction ends.
	GetOrCreateForUpdate(ctx context.Context, owner wallet.Owner) (*wallet.Wallet, error)

	// Find returns the owner's wallet or errs.ObjectNotFoundError.
	Find(ctx context.Context, owner wallet.Owner) (*wallet.Wallet, error)

	// Save persists balances of a wallet obtained from this repository.
	Save(ctx context.Context, aggregate *wallet.Wallet) error

	// CompletedTransactionTypes lists the transaction types already completed for an order.
	CompletedTransactionTypes(ctx context.Context, orderID kernel.UUID) ([]wallet.TransactionType, error)

	// AddTransaction records a transaction. A second completed transaction with the same
	// (orderID, type) fails with errs.ErrSettlementConflict.
	AddTransaction(ctx context.Context, tx wallet.Transaction) error

	AddLedgerEntry(ctx context.Context, entry wallet.LedgerEntry) error

	// LedgerEntries returns the movements recorded for an order, oldest first.
	LedgerEntries(ctx context.Context, orderID kernel.UUID) ([]wallet.LedgerEntry, error)
}
