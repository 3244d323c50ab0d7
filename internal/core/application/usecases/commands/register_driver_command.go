package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRegisterDriverCommandIsNotConstructed = errors.New(
	"RegisterDriverCommand must be created via NewRegisterDriverCommand constructor",
)

// RegisterDriverCommand creates the dispatch record of a courier.
// maxConcurrentOrders of 0 selects the default limit.
type RegisterDriverCommand struct {
	driverID            kernel.UUID
	userID              kernel.UUID
	rating              float64
	maxConcurrentOrders int

	guard guard.ConstructorGuard
}

func NewRegisterDriverCommand(driverID, userID kernel.UUID, rating float64, maxConcurrentOrders int) (RegisterDriverCommand, error) {
	if err := errors.Join(
		requiredID("driverId", driverID),
		requiredID("userId", userID),
	); err != nil {
		return RegisterDriverCommand{}, err
	}

	return RegisterDriverCommand{
		driverID:            driverID,
		userID:              userID,
		rating:              rating,
		maxConcurrentOrders: maxConcurrentOrders,
		guard:               guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterDriverCommand) Validate() error {
	return c.guard.Validate(ErrRegisterDriverCommandIsNotConstructed)
}

func (c RegisterDriverCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c RegisterDriverCommand) UserID() kernel.UUID {
	return c.userID
}

func (c RegisterDriverCommand) Rating() float64 {
	return c.rating
}

func (c RegisterDriverCommand) MaxConcurrentOrders() int {
	return c.maxConcurrentOrders
}
