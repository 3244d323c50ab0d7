package walletrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/wallet"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWalletRepository implements ports.WalletRepository using GORM.
//
// The connection must be opened with gorm.Config.TranslateError so that unique index
// violations surface as gorm.ErrDuplicatedKey.
type GormWalletRepository struct {
	db *gorm.DB
}

func NewGormWalletRepository(db *gorm.DB) *GormWalletRepository {
	return &GormWalletRepository{db: db}
}

// GetOrCreateForUpdate opens the wallet if needed, then locks its row.
// Concurrent first references race on the owner unique index; the loser's insert is a no-op.
func (r *GormWalletRepository) GetOrCreateForUpdate(ctx context.Context, owner wallet.Owner) (*wallet.Wallet, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}

	fresh, err := wallet.NewWallet(kernel.NewUUID(), owner)
	if err != nil {
		return nil, err
	}
	dto := walletFromDomain(fresh)
	if err = r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&dto).Error; err != nil {
		return nil, err
	}

	var locked WalletDTO
	err = ownerScope(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), owner).
		First(&locked).Error
	if err != nil {
		return nil, err
	}
	return walletToDomain(locked)
}

func (r *GormWalletRepository) Find(ctx context.Context, owner wallet.Owner) (*wallet.Wallet, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}

	var dto WalletDTO
	if err := ownerScope(r.db.WithContext(ctx), owner).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("wallet", owner.String())
		}
		return nil, err
	}
	return walletToDomain(dto)
}

func (r *GormWalletRepository) Save(ctx context.Context, aggregate *wallet.Wallet) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := walletFromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&WalletDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"balance":         dto.Balance,
			"pending_balance": dto.PendingBalance,
			"escrow_balance":  dto.EscrowBalance,
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("wallet", aggregate.ID().String())
	}
	return nil
}

func (r *GormWalletRepository) CompletedTransactionTypes(ctx context.Context, orderID kernel.UUID) ([]wallet.TransactionType, error) {
	var raw []string
	err := r.db.WithContext(ctx).Model(&TransactionDTO{}).
		Where("order_id = ? AND status = ?", orderID.Bytes(), string(wallet.StatusCompleted)).
		Distinct().
		Order("type").
		Pluck("type", &raw).Error
	if err != nil {
		return nil, err
	}

	types := make([]wallet.TransactionType, 0, len(raw))
	for _, s := range raw {
		t, parseErr := wallet.ParseTransactionType(s)
		if parseErr != nil {
			return nil, parseErr
		}
		types = append(types, t)
	}
	return types, nil
}

func (r *GormWalletRepository) AddTransaction(ctx context.Context, tx wallet.Transaction) error {
	dto := transactionFromDomain(tx)
	err := r.db.WithContext(ctx).Create(&dto).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s for order %s", errs.ErrSettlementConflict, tx.Type, tx.OrderID)
	}
	return err
}

func (r *GormWalletRepository) AddLedgerEntry(ctx context.Context, entry wallet.LedgerEntry) error {
	dto := ledgerFromDomain(entry)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormWalletRepository) LedgerEntries(ctx context.Context, orderID kernel.UUID) ([]wallet.LedgerEntry, error) {
	var dtos []LedgerEntryDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	entries := make([]wallet.LedgerEntry, 0, len(dtos))
	for _, dto := range dtos {
		e, convErr := ledgerToDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func ownerScope(db *gorm.DB, owner wallet.Owner) *gorm.DB {
	if owner.IsSystem() {
		return db.Where("is_system_wallet")
	}
	return db.Where("owner_type = ? AND owner_id = ?", string(owner.Type), owner.ID.Bytes())
}
