package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCaptureOrderCommandIsNotConstructed = errors.New(
	"CaptureOrderCommand must be created via NewCaptureOrderCommand constructor",
)

// CaptureOrderParams is the raw checkout payload.
// Nil rates fall back to the configured defaults.
type CaptureOrderParams struct {
	OrderID              kernel.UUID
	RestaurantID         kernel.UUID
	CustomerID           kernel.UUID
	RestaurantLat        float64
	RestaurantLng        float64
	DeliveryLat          float64
	DeliveryLng          float64
	Subtotal             int64
	DeliveryFee          int64
	Tip                  int64
	DoorFee              int64
	PlatformFeeRate      *float64
	DriverCommissionRate *float64
}

// CaptureOrderCommand accepts an order whose payment was captured at checkout and moves
// the captured total into platform escrow.
//
// Example:
//
//	cmd, err := NewCaptureOrderCommand(CaptureOrderParams{
//	    OrderID: kernel.NewUUID(), RestaurantID: r, CustomerID: c,
//	    RestaurantLat: 41.31, RestaurantLng: 69.28, DeliveryLat: 41.33, DeliveryLng: 69.25,
//	    Subtotal: 50000, DeliveryFee: 15000,
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid checkout payload: %w", err)
//	}
//	err = handler.Handle(ctx, cmd)
type CaptureOrderCommand struct {
	orderID            kernel.UUID
	restaurantID       kernel.UUID
	customerID         kernel.UUID
	restaurantLocation kernel.GeoPoint
	deliveryLocation   kernel.GeoPoint
	charges            order.Charges

	platformFeeRate      *kernel.Percent
	driverCommissionRate *kernel.Percent

	guard guard.ConstructorGuard
}

// NewCaptureOrderCommand validates the payload. Rates outside [0, 100] are rejected here:
// a rate above 100% would produce a negative payout.
func NewCaptureOrderCommand(p CaptureOrderParams) (CaptureOrderCommand, error) {
	cmd := CaptureOrderCommand{
		orderID:      p.OrderID,
		restaurantID: p.RestaurantID,
		customerID:   p.CustomerID,
		charges: order.Charges{
			Subtotal:    kernel.Money(p.Subtotal),
			DeliveryFee: kernel.Money(p.DeliveryFee),
			Tip:         kernel.Money(p.Tip),
			DoorFee:     kernel.Money(p.DoorFee),
		},
		guard: guard.NewConstructorGuard(),
	}

	var (
		restaurantErr, deliveryErr, platformErr, commissionErr error
	)
	cmd.restaurantLocation, restaurantErr = kernel.NewGeoPoint(p.RestaurantLat, p.RestaurantLng)
	cmd.deliveryLocation, deliveryErr = kernel.NewGeoPoint(p.DeliveryLat, p.DeliveryLng)
	cmd.platformFeeRate, platformErr = optionalPercent("platformFeeRate", p.PlatformFeeRate)
	cmd.driverCommissionRate, commissionErr = optionalPercent("driverCommissionRate", p.DriverCommissionRate)

	if err := errors.Join(
		requiredID("orderId", p.OrderID),
		requiredID("restaurantId", p.RestaurantID),
		requiredID("customerId", p.CustomerID),
		restaurantErr,
		deliveryErr,
		cmd.charges.Validate(),
		platformErr,
		commissionErr,
	); err != nil {
		return CaptureOrderCommand{}, err
	}

	return cmd, nil
}

func (c CaptureOrderCommand) Validate() error {
	return c.guard.Validate(ErrCaptureOrderCommandIsNotConstructed)
}

func (c CaptureOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Intake builds the domain intake, filling missing rates from defaults.
func (c CaptureOrderCommand) Intake(defaultPlatformFee, defaultCommission kernel.Percent) order.Intake {
	in := order.Intake{
		ID:                   c.orderID,
		RestaurantID:         c.restaurantID,
		CustomerID:           c.customerID,
		RestaurantLocation:   c.restaurantLocation,
		DeliveryLocation:     c.deliveryLocation,
		Charges:              c.charges,
		PlatformFeeRate:      defaultPlatformFee,
		DriverCommissionRate: defaultCommission,
	}
	if c.platformFeeRate != nil {
		in.PlatformFeeRate = *c.platformFeeRate
	}
	if c.driverCommissionRate != nil {
		in.DriverCommissionRate = *c.driverCommissionRate
	}
	return in
}

func optionalPercent(name string, v *float64) (*kernel.Percent, error) {
	if v == nil {
		return nil, nil
	}
	p, err := kernel.NewPercent(*v)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return &p, nil
}

func requiredID(name string, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(name, err)
	}
	return nil
}
