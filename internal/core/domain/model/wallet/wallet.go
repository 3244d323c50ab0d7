package wallet

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrWalletIsNotConstructed = errors.New("Wallet must be created via NewWallet or RestoreWallet")
	ErrNotSystemWallet        = errors.New("escrow is held only by the system wallet")
	ErrInsufficientEscrow     = errors.New("insufficient escrow balance")
)

// Wallet holds a balance for one owner. Only the system wallet has an escrow balance.
type Wallet struct {
	id             kernel.UUID
	owner          Owner
	balance        kernel.Money
	pendingBalance kernel.Money
	escrowBalance  kernel.Money
	guard          guard.ConstructorGuard
}

// NewWallet opens an empty wallet. Wallets are opened lazily on first credit.
func NewWallet(id kernel.UUID, owner Owner) (*Wallet, error) {
	if err := errors.Join(id.Validate(), owner.Validate()); err != nil {
		return nil, err
	}
	return &Wallet{id: id, owner: owner, guard: guard.NewConstructorGuard()}, nil
}

type Snapshot struct {
	ID             kernel.UUID
	Owner          Owner
	Balance        kernel.Money
	PendingBalance kernel.Money
	EscrowBalance  kernel.Money
}

func RestoreWallet(s Snapshot) (*Wallet, error) {
	w, err := NewWallet(s.ID, s.Owner)
	if err != nil {
		return nil, err
	}
	if !s.Owner.IsSystem() && s.EscrowBalance != 0 {
		return nil, errs.NewDataIntegrityError("wallet", s.ID.String(), "escrow balance on a non-system wallet")
	}
	w.balance = s.Balance
	w.pendingBalance = s.PendingBalance
	w.escrowBalance = s.EscrowBalance
	return w, nil
}

func (w *Wallet) Validate() error {
	if w == nil {
		return ErrWalletIsNotConstructed
	}
	return w.guard.Validate(ErrWalletIsNotConstructed)
}

func (w *Wallet) ID() kernel.UUID {
	return w.id
}

func (w *Wallet) Owner() Owner {
	return w.owner
}

func (w *Wallet) IsSystemWallet() bool {
	return w.owner.IsSystem()
}

func (w *Wallet) Balance() kernel.Money {
	return w.balance
}

func (w *Wallet) PendingBalance() kernel.Money {
	return w.pendingBalance
}

func (w *Wallet) EscrowBalance() kernel.Money {
	return w.escrowBalance
}

// Credit adds a settled amount to the spendable balance.
func (w *Wallet) Credit(amount kernel.Money) error {
	if amount.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("cannot credit %d", amount))
	}
	w.balance += amount
	return nil
}

// HoldInEscrow records captured customer funds.
func (w *Wallet) HoldInEscrow(amount kernel.Money) error {
	if !w.IsSystemWallet() {
		return ErrNotSystemWallet
	}
	if amount.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("cannot hold %d", amount))
	}
	w.escrowBalance += amount
	return nil
}

// ReleaseFromEscrow takes funds out of escrow for payout or refund. The escrow balance
// never goes negative: money that was never captured cannot be paid out.
func (w *Wallet) ReleaseFromEscrow(amount kernel.Money) error {
	if !w.IsSystemWallet() {
		return ErrNotSystemWallet
	}
	if amount.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("cannot release %d", amount))
	}
	if amount > w.escrowBalance {
		return fmt.Errorf("%w: releasing %d of %d", ErrInsufficientEscrow, amount, w.escrowBalance)
	}
	w.escrowBalance -= amount
	return nil
}
