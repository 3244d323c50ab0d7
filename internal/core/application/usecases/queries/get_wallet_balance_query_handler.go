package queries

import (
	"context"
	"database/sql"
	"errors"

	"dispatch/internal/core/domain/model/wallet"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetWalletBalanceQueryHandler struct {
	db *gorm.DB
}

func NewGetWalletBalanceQueryHandler(db *gorm.DB) GetWalletBalanceQueryHandler {
	return GetWalletBalanceQueryHandler{db: db}
}

// Handle returns errs.ObjectNotFoundError for an owner that never received money.
func (h GetWalletBalanceQueryHandler) Handle(ctx context.Context, query GetWalletBalanceQuery) (WalletBalanceResponse, error) {
	if err := query.Validate(); err != nil {
		return WalletBalanceResponse{}, err
	}

	where, args := walletLookup(query.Owner())

	var (
		resp    WalletBalanceResponse
		id      uuid.UUID
		ownerID uuid.NullUUID
	)
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			owner_type,
			owner_id,
			is_system_wallet,
			balance,
			pending_balance,
			escrow_balance,
			updated_at
		FROM wallets
		WHERE `+where, args...).Row().Scan(
		&id,
		&resp.OwnerType,
		&ownerID,
		&resp.IsSystemWallet,
		&resp.Balance,
		&resp.PendingBalance,
		&resp.EscrowBalance,
		&resp.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return WalletBalanceResponse{}, errs.NewObjectNotFoundError("wallet", query.Owner().String())
	}
	if err != nil {
		return WalletBalanceResponse{}, err
	}

	if resp.WalletID, err = toID(id); err != nil {
		return WalletBalanceResponse{}, err
	}
	if resp.OwnerID, err = toNullID(ownerID); err != nil {
		return WalletBalanceResponse{}, err
	}
	return resp, nil
}

// walletLookup returns the WHERE clause selecting the owner's wallet.
func walletLookup(owner wallet.Owner) (string, []any) {
	if owner.IsSystem() {
		return "is_system_wallet", nil
	}
	return "owner_type = ? AND owner_id = ?", []any{string(owner.Type), owner.ID.String()}
}
