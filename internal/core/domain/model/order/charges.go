package order

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// Charges are the amounts captured from the customer, in minor units.
type Charges struct {
	Subtotal    kernel.Money
	DeliveryFee kernel.Money
	Tip         kernel.Money
	DoorFee     kernel.Money
}

// Total is the amount that enters escrow at capture.
func (c Charges) Total() kernel.Money {
	return c.Subtotal + c.DeliveryFee + c.Tip + c.DoorFee
}

// CommissionBase is the part of the driver's earnings the platform takes commission from.
// Tips are passed through untouched.
func (c Charges) CommissionBase() kernel.Money {
	return c.DeliveryFee + c.DoorFee
}

// DriverGross is what the driver earns before commission.
func (c Charges) DriverGross() kernel.Money {
	return c.DeliveryFee + c.Tip + c.DoorFee
}

func (c Charges) Validate() error {
	check := func(name string, v kernel.Money) error {
		if v.IsNegative() {
			return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%d is negative", v))
		}
		return nil
	}
	if err := errors.Join(
		check("subtotal", c.Subtotal),
		check("deliveryFee", c.DeliveryFee),
		check("tip", c.Tip),
		check("doorFee", c.DoorFee),
	); err != nil {
		return err
	}
	if c.Subtotal == 0 {
		return errs.NewValueIsRequiredError("subtotal")
	}
	return nil
}
