package wallet

import (
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// Account names one side of a ledger movement.
type Account string

const (
	AccountCapture  Account = "capture"
	AccountEscrow   Account = "escrow"
	AccountPlatform Account = "platform"
)

func RestaurantAccount(id kernel.UUID) Account {
	return Account("restaurant:" + id.String())
}

func DriverAccount(userID kernel.UUID) Account {
	return Account("driver:" + userID.String())
}

func CustomerAccount(id kernel.UUID) Account {
	return Account("customer:" + id.String())
}

// OwnerAccount returns the ledger account of a wallet owner.
func OwnerAccount(owner Owner) Account {
	if owner.IsSystem() {
		return AccountPlatform
	}
	return Account(string(owner.Type) + ":" + owner.ID.String())
}

func (a Account) String() string {
	return string(a)
}

// Kind is the account prefix, e.g. "driver" for "driver:<id>".
func (a Account) Kind() string {
	kind, _, _ := strings.Cut(string(a), ":")
	return kind
}

// LedgerEntry is one (from, to, amount, reason) movement of money for an order.
type LedgerEntry struct {
	ID        kernel.UUID
	OrderID   kernel.UUID
	From      Account
	To        Account
	Amount    kernel.Money
	Reason    TransactionType
	CreatedAt time.Time
}

func NewLedgerEntry(orderID kernel.UUID, from, to Account, amount kernel.Money, reason TransactionType, now time.Time) LedgerEntry {
	return LedgerEntry{
		ID:        kernel.NewUUID(),
		OrderID:   orderID,
		From:      from,
		To:        to,
		Amount:    amount,
		Reason:    reason,
		CreatedAt: now.UTC(),
	}
}

// EscrowNet sums the entries that touch escrow: positive means funds still held.
func EscrowNet(entries []LedgerEntry) kernel.Money {
	var net kernel.Money
	for _, e := range entries {
		if e.To == AccountEscrow {
			net += e.Amount
		}
		if e.From == AccountEscrow {
			net -= e.Amount
		}
	}
	return net
}
