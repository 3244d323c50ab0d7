package services

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/wallet"
)

// SettlementDefaults are the rates applied to legacy orders stored without them.
type SettlementDefaults struct {
	PlatformFeeRate      kernel.Percent
	DriverCommissionRate kernel.Percent
}

// Split is the division of one order's escrowed funds.
type Split struct {
	PlatformFee       kernel.Money
	DriverCommission  kernel.Money
	RestaurantRevenue kernel.Money
	DriverPayment     kernel.Money

	// Clamped is set when a rate above 100% (or below 0%) had to be capped to keep
	// every payout non-negative. Such orders need manual review.
	Clamped bool
}

// PlatformTotal is what the platform keeps.
func (s Split) PlatformTotal() kernel.Money {
	return s.PlatformFee + s.DriverCommission
}

// Total is the amount taken out of escrow; it always equals the order's captured charges.
func (s Split) Total() kernel.Money {
	return s.RestaurantRevenue + s.DriverPayment + s.PlatformTotal()
}

// Amount returns the leg amount recorded under the given transaction type.
func (s Split) Amount(t wallet.TransactionType) kernel.Money {
	switch t {
	case wallet.TypeOrderRevenue:
		return s.RestaurantRevenue
	case wallet.TypeCommission:
		return s.DriverPayment
	case wallet.TypePlatformFee:
		return s.PlatformFee
	case wallet.TypeDriverCommission:
		return s.DriverCommission
	default:
		return 0
	}
}

// SettlementCalculator computes the split of a delivered order:
//
//	platformFee       = floor(subtotal × platformFeeRate / 100)
//	driverCommission  = floor((deliveryFee + doorFee) × driverCommissionRate / 100)
//	restaurantRevenue = subtotal − platformFee
//	driverPayment     = deliveryFee + tip + doorFee − driverCommission
//
// Tips are never commissioned.
type SettlementCalculator struct {
	defaults SettlementDefaults
}

func NewSettlementCalculator(defaults SettlementDefaults) SettlementCalculator {
	return SettlementCalculator{defaults: defaults}
}

// Split always recomputes fee amounts from rates; stored amounts on the order are
// informational and may be missing on legacy rows.
func (c SettlementCalculator) Split(o *order.Order) (Split, error) {
	if err := o.Validate(); err != nil {
		return Split{}, err
	}

	platformRate := c.defaults.PlatformFeeRate
	if r := o.PlatformFeeRate(); r != nil {
		platformRate = *r
	}
	commissionRate := c.defaults.DriverCommissionRate
	if r := o.DriverCommissionRate(); r != nil {
		commissionRate = *r
	}

	charges := o.Charges()
	var split Split

	split.PlatformFee = capFee(platformRate.Of(charges.Subtotal), charges.Subtotal, &split.Clamped)
	split.RestaurantRevenue = charges.Subtotal - split.PlatformFee

	split.DriverCommission = capFee(commissionRate.Of(charges.CommissionBase()), charges.CommissionBase(), &split.Clamped)
	split.DriverPayment = charges.DriverGross() - split.DriverCommission

	return split, nil
}

// capFee keeps fee within [0, base].
func capFee(fee, base kernel.Money, clamped *bool) kernel.Money {
	switch {
	case fee < 0:
		*clamped = true
		return 0
	case fee > base:
		*clamped = true
		return base
	}
	return fee
}
