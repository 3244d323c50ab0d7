package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrCheckInDriverCommandIsNotConstructed = errors.New(
		"CheckInDriverCommand must be created via NewCheckInDriverCommand constructor",
	)
	ErrCheckOutDriverCommandIsNotConstructed = errors.New(
		"CheckOutDriverCommand must be created via NewCheckOutDriverCommand constructor",
	)
)

// CheckInDriverCommand starts a driver's shift and makes the driver visible to matching.
type CheckInDriverCommand struct {
	driverID kernel.UUID
	guard    guard.ConstructorGuard
}

func NewCheckInDriverCommand(driverID kernel.UUID) (CheckInDriverCommand, error) {
	if err := requiredID("driverId", driverID); err != nil {
		return CheckInDriverCommand{}, err
	}
	return CheckInDriverCommand{driverID: driverID, guard: guard.NewConstructorGuard()}, nil
}

func (c CheckInDriverCommand) Validate() error {
	return c.guard.Validate(ErrCheckInDriverCommandIsNotConstructed)
}

func (c CheckInDriverCommand) DriverID() kernel.UUID {
	return c.driverID
}

// CheckOutDriverCommand ends a driver's shift. Refused while the driver carries an order.
type CheckOutDriverCommand struct {
	driverID kernel.UUID
	guard    guard.ConstructorGuard
}

func NewCheckOutDriverCommand(driverID kernel.UUID) (CheckOutDriverCommand, error) {
	if err := requiredID("driverId", driverID); err != nil {
		return CheckOutDriverCommand{}, err
	}
	return CheckOutDriverCommand{driverID: driverID, guard: guard.NewConstructorGuard()}, nil
}

func (c CheckOutDriverCommand) Validate() error {
	return c.guard.Validate(ErrCheckOutDriverCommandIsNotConstructed)
}

func (c CheckOutDriverCommand) DriverID() kernel.UUID {
	return c.driverID
}
