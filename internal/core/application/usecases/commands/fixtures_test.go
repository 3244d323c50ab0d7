package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/wallet"

	"github.com/stretchr/testify/require"
)

func point(t *testing.T, lat, lng float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return p
}

func rate(t *testing.T, v float64) kernel.Percent {
	t.Helper()
	p, err := kernel.NewPercent(v)
	require.NoError(t, err)
	return p
}

// newPendingOrder is the reference order: 50000 subtotal, 15000 delivery fee, 10% / 30%.
func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(order.Intake{
		ID:                   kernel.NewUUID(),
		RestaurantID:         kernel.NewUUID(),
		CustomerID:           kernel.NewUUID(),
		RestaurantLocation:   point(t, 40.0, -74.0),
		DeliveryLocation:     point(t, 40.02, -74.01),
		Charges:              order.Charges{Subtotal: 50000, DeliveryFee: 15000},
		PlatformFeeRate:      rate(t, 10),
		DriverCommissionRate: rate(t, 30),
	}, time.Now())
	require.NoError(t, err)
	return o
}

func newCheckedInDriver(t *testing.T) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver(kernel.NewUUID(), kernel.NewUUID(), 4.5, 0)
	require.NoError(t, err)
	require.NoError(t, d.CheckIn())
	return d
}

// assignPair attaches d to o in memory, as a committed assignment would.
func assignPair(t *testing.T, o *order.Order, d *driver.Driver) {
	t.Helper()
	require.NoError(t, o.Assign(d.ID(), time.Now()))
	require.NoError(t, d.TakeOrder(o.ID()))
}

func newDeliveredPair(t *testing.T) (*order.Order, *driver.Driver) {
	t.Helper()
	o := newPendingOrder(t)
	d := newCheckedInDriver(t)
	assignPair(t, o, d)
	require.NoError(t, o.MarkDelivered(time.Now()))
	require.NoError(t, d.ReleaseOrder(o.ID()))
	return o, d
}

func newSystemWallet(t *testing.T, escrow kernel.Money) *wallet.Wallet {
	t.Helper()
	w, err := wallet.RestoreWallet(wallet.Snapshot{ID: kernel.NewUUID(), Owner: wallet.SystemOwner(), EscrowBalance: escrow})
	require.NoError(t, err)
	return w
}

func newOwnerWallet(t *testing.T, owner wallet.Owner) *wallet.Wallet {
	t.Helper()
	w, err := wallet.NewWallet(kernel.NewUUID(), owner)
	require.NoError(t, err)
	return w
}
