package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrUpdateDriverLocationCommandIsNotConstructed = errors.New(
	"UpdateDriverLocationCommand must be created via NewUpdateDriverLocationCommand constructor",
)

// UpdateDriverLocationCommand reports a driver's GPS fix. at is the device timestamp.
type UpdateDriverLocationCommand struct {
	driverID kernel.UUID
	point    kernel.GeoPoint
	at       time.Time

	guard guard.ConstructorGuard
}

func NewUpdateDriverLocationCommand(driverID kernel.UUID, lat, lng float64, at time.Time) (UpdateDriverLocationCommand, error) {
	point, pointErr := kernel.NewGeoPoint(lat, lng)

	var atErr error
	if at.IsZero() {
		atErr = errs.NewValueIsRequiredError("at")
	}

	if err := errors.Join(requiredID("driverId", driverID), pointErr, atErr); err != nil {
		return UpdateDriverLocationCommand{}, err
	}

	return UpdateDriverLocationCommand{
		driverID: driverID,
		point:    point,
		at:       at.UTC(),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateDriverLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDriverLocationCommandIsNotConstructed)
}

func (c UpdateDriverLocationCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c UpdateDriverLocationCommand) Point() kernel.GeoPoint {
	return c.point
}

func (c UpdateDriverLocationCommand) At() time.Time {
	return c.at
}
