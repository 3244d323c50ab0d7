package wallet_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/wallet"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOwner(t *testing.T) {
	id := kernel.NewUUID()

	tests := []struct {
		name      string
		ownerType string
		ownerID   string
		system    bool
		wantErr   error
	}{
		{name: "system wallet", ownerType: "admin", ownerID: "system", system: true},
		{name: "restaurant", ownerType: "restaurant", ownerID: id.String()},
		{name: "driver", ownerType: "driver", ownerID: id.String()},
		{name: "unknown type", ownerType: "customer", ownerID: id.String(), wantErr: errs.ErrValueIsInvalid},
		{name: "bad id", ownerType: "driver", ownerID: "system", wantErr: errs.ErrValueIsInvalid},
		{name: "nil id", ownerType: "driver", ownerID: "00000000-0000-0000-0000-000000000000", wantErr: errs.ErrValueIsRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, err := wallet.ParseOwner(tt.ownerType, tt.ownerID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, owner.Validate())
			assert.Equal(t, tt.system, owner.IsSystem())
		})
	}
}

func TestWallet_Escrow(t *testing.T) {
	system, err := wallet.NewWallet(kernel.NewUUID(), wallet.SystemOwner())
	require.NoError(t, err)

	require.NoError(t, system.HoldInEscrow(65000))
	require.NoError(t, system.ReleaseFromEscrow(55500))
	require.NoError(t, system.Credit(9500))

	assert.Equal(t, kernel.Money(9500), system.EscrowBalance())
	assert.Equal(t, kernel.Money(9500), system.Balance())

	err = system.ReleaseFromEscrow(10000)
	require.ErrorIs(t, err, wallet.ErrInsufficientEscrow)
	assert.Equal(t, kernel.Money(9500), system.EscrowBalance())
}

func TestWallet_EscrowOnlyOnSystemWallet(t *testing.T) {
	w, err := wallet.NewWallet(kernel.NewUUID(), wallet.RestaurantOwner(kernel.NewUUID()))
	require.NoError(t, err)

	assert.ErrorIs(t, w.HoldInEscrow(1), wallet.ErrNotSystemWallet)
	assert.ErrorIs(t, w.ReleaseFromEscrow(1), wallet.ErrNotSystemWallet)
	assert.ErrorIs(t, w.Credit(-1), errs.ErrValueIsInvalid)

	require.NoError(t, w.Credit(45000))
	assert.Equal(t, kernel.Money(45000), w.Balance())
}

func TestRestoreWallet(t *testing.T) {
	_, err := wallet.RestoreWallet(wallet.Snapshot{
		ID:            kernel.NewUUID(),
		Owner:         wallet.DriverOwner(kernel.NewUUID()),
		EscrowBalance: 10,
	})
	require.ErrorIs(t, err, errs.ErrDataIntegrity)

	_, err = wallet.RestoreWallet(wallet.Snapshot{ID: kernel.NewUUID(), Owner: wallet.Owner{Type: wallet.OwnerDriver}})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	var zero wallet.Wallet
	assert.ErrorIs(t, zero.Validate(), wallet.ErrWalletIsNotConstructed)
}

func TestLedger_EscrowNet(t *testing.T) {
	orderID := kernel.NewUUID()
	restaurant := kernel.NewUUID()
	driverUser := kernel.NewUUID()
	now := time.Now()

	entries := []wallet.LedgerEntry{
		wallet.NewLedgerEntry(orderID, wallet.AccountCapture, wallet.AccountEscrow, 65000, wallet.TypeDeposit, now),
	}
	assert.Equal(t, kernel.Money(65000), wallet.EscrowNet(entries))

	entries = append(entries,
		wallet.NewLedgerEntry(orderID, wallet.AccountEscrow, wallet.RestaurantAccount(restaurant), 45000, wallet.TypeOrderRevenue, now),
		wallet.NewLedgerEntry(orderID, wallet.AccountEscrow, wallet.DriverAccount(driverUser), 10500, wallet.TypeCommission, now),
		wallet.NewLedgerEntry(orderID, wallet.AccountEscrow, wallet.AccountPlatform, 5000, wallet.TypePlatformFee, now),
		wallet.NewLedgerEntry(orderID, wallet.AccountEscrow, wallet.AccountPlatform, 4500, wallet.TypeDriverCommission, now),
	)
	assert.Equal(t, kernel.Money(0), wallet.EscrowNet(entries))

	assert.Equal(t, "driver", wallet.DriverAccount(driverUser).Kind())
	assert.Equal(t, wallet.AccountPlatform, wallet.OwnerAccount(wallet.SystemOwner()))
	assert.Equal(t, wallet.RestaurantAccount(restaurant), wallet.OwnerAccount(wallet.RestaurantOwner(restaurant)))
}

func TestNewOrderTransaction(t *testing.T) {
	walletID, orderID := kernel.NewUUID(), kernel.NewUUID()

	tx := wallet.NewOrderTransaction(walletID, wallet.TypeOrderRevenue, 45000, orderID, time.Now())

	assert.Equal(t, wallet.StatusCompleted, tx.Status)
	assert.True(t, tx.OrderID.IsEqual(orderID))
	assert.Contains(t, tx.Description, orderID.String())

	parsed, err := wallet.ParseTransactionType("driver_commission")
	require.NoError(t, err)
	assert.Equal(t, wallet.TypeDriverCommission, parsed)
	_, err = wallet.ParseTransactionType("bonus")
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
