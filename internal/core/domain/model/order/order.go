package order

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// Order is the aggregate root of a delivery order from capture to settlement.
//
// Invariants:
//   - driverID is set at most once and never while the order is pending
//   - finalTotal equals the captured charges
//   - rates, when present, are percentages; legacy rows may lack them
type Order struct {
	id           kernel.UUID
	restaurantID kernel.UUID
	customerID   kernel.UUID

	// nil only for legacy rows; such orders cannot be dispatched
	restaurantLocation *kernel.GeoPoint
	deliveryLocation   kernel.GeoPoint

	charges                Charges
	finalTotal             kernel.Money
	platformFeeRate        *kernel.Percent
	platformFeeAmount      *kernel.Money
	driverCommissionRate   *kernel.Percent
	driverCommissionAmount *kernel.Money

	status      Status
	driverID    *kernel.UUID
	assignedAt  *time.Time
	deliveredAt *time.Time
	cancelledAt *time.Time

	integrityError string
	needsReview    bool
	createdAt      time.Time

	isConstructed bool
}

// NewOrder accepts a freshly captured order. Fee amounts are computed up front so that
// the order row already shows the expected split.
//
// Example:
//
//	o, err := order.NewOrder(order.Intake{
//	    ID: kernel.NewUUID(), RestaurantID: r, CustomerID: c,
//	    RestaurantLocation: from, DeliveryLocation: to,
//	    Charges: order.Charges{Subtotal: 50000, DeliveryFee: 15000},
//	    PlatformFeeRate: ten, DriverCommissionRate: thirty,
//	}, time.Now())
func NewOrder(in Intake, now time.Time) (*Order, error) {
	o := &Order{
		status:        Pending,
		createdAt:     now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setIDs(in.ID, in.RestaurantID, in.CustomerID),
		o.setLocations(&in.RestaurantLocation, in.DeliveryLocation),
		o.setCharges(in.Charges),
	); err != nil {
		return nil, err
	}

	platformRate, commissionRate := in.PlatformFeeRate, in.DriverCommissionRate
	platformFee := platformRate.Of(in.Charges.Subtotal)
	commission := commissionRate.Of(in.Charges.CommissionBase())
	o.platformFeeRate = &platformRate
	o.driverCommissionRate = &commissionRate
	o.platformFeeAmount = &platformFee
	o.driverCommissionAmount = &commission

	return o, nil
}

// Intake carries the attributes of an order arriving from checkout.
type Intake struct {
	ID                   kernel.UUID
	RestaurantID         kernel.UUID
	CustomerID           kernel.UUID
	RestaurantLocation   kernel.GeoPoint
	DeliveryLocation     kernel.GeoPoint
	Charges              Charges
	PlatformFeeRate      kernel.Percent
	DriverCommissionRate kernel.Percent
}

// Snapshot is the persisted state of an order. Optional columns are pointers.
type Snapshot struct {
	ID                     kernel.UUID
	RestaurantID           kernel.UUID
	CustomerID             kernel.UUID
	RestaurantLocation     *kernel.GeoPoint
	DeliveryLocation       kernel.GeoPoint
	Charges                Charges
	FinalTotal             kernel.Money
	PlatformFeeRate        *kernel.Percent
	PlatformFeeAmount      *kernel.Money
	DriverCommissionRate   *kernel.Percent
	DriverCommissionAmount *kernel.Money
	Status                 Status
	DriverID               *kernel.UUID
	AssignedAt             *time.Time
	DeliveredAt            *time.Time
	CancelledAt            *time.Time
	IntegrityError         string
	NeedsReview            bool
	CreatedAt              time.Time
}

// RestoreOrder rebuilds an order loaded from storage. Only structural consistency is
// checked; legacy gaps (no restaurant coordinates, no rates) are tolerated and surface
// later as integrity errors or settlement defaults.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		charges:                s.Charges,
		finalTotal:             s.FinalTotal,
		platformFeeRate:        s.PlatformFeeRate,
		platformFeeAmount:      s.PlatformFeeAmount,
		driverCommissionRate:   s.DriverCommissionRate,
		driverCommissionAmount: s.DriverCommissionAmount,
		status:                 s.Status,
		driverID:               s.DriverID,
		assignedAt:             s.AssignedAt,
		deliveredAt:            s.DeliveredAt,
		cancelledAt:            s.CancelledAt,
		integrityError:         s.IntegrityError,
		needsReview:            s.NeedsReview,
		createdAt:              s.CreatedAt,
		isConstructed:          true,
	}

	if err := errors.Join(
		o.setIDs(s.ID, s.RestaurantID, s.CustomerID),
		o.setLocations(s.RestaurantLocation, s.DeliveryLocation),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}

	if s.Status.HasDriver() && s.DriverID == nil {
		return nil, errs.NewDataIntegrityError("order", s.ID.String(), s.Status.String()+" order has no driver")
	}
	if s.Status == Pending && s.DriverID != nil {
		return nil, errs.NewDataIntegrityError("order", s.ID.String(), "pending order already has a driver")
	}

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) RestaurantID() kernel.UUID {
	return o.restaurantID
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// RestaurantLocation is nil for legacy orders.
func (o *Order) RestaurantLocation() *kernel.GeoPoint {
	return o.restaurantLocation
}

func (o *Order) DeliveryLocation() kernel.GeoPoint {
	return o.deliveryLocation
}

func (o *Order) Charges() Charges {
	return o.charges
}

func (o *Order) FinalTotal() kernel.Money {
	return o.finalTotal
}

func (o *Order) PlatformFeeRate() *kernel.Percent {
	return o.platformFeeRate
}

func (o *Order) PlatformFeeAmount() *kernel.Money {
	return o.platformFeeAmount
}

func (o *Order) DriverCommissionRate() *kernel.Percent {
	return o.driverCommissionRate
}

func (o *Order) DriverCommissionAmount() *kernel.Money {
	return o.driverCommissionAmount
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) DriverID() *kernel.UUID {
	return o.driverID
}

func (o *Order) AssignedAt() *time.Time {
	return o.assignedAt
}

func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

func (o *Order) CancelledAt() *time.Time {
	return o.cancelledAt
}

func (o *Order) IntegrityError() string {
	return o.integrityError
}

func (o *Order) HasIntegrityError() bool {
	return o.integrityError != ""
}

func (o *Order) NeedsReview() bool {
	return o.needsReview
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// DispatchOrigin returns the point drivers are matched against. Orders without restaurant
// coordinates yield a DataIntegrityError and must be taken out of dispatch.
func (o *Order) DispatchOrigin() (kernel.GeoPoint, error) {
	if o.restaurantLocation == nil {
		return kernel.GeoPoint{}, errs.NewDataIntegrityError("order", o.id.String(), "restaurant coordinates are missing")
	}
	return *o.restaurantLocation, nil
}

// Assign attaches the driver and moves the order to picking_up.
func (o *Order) Assign(driverID kernel.UUID, at time.Time) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if o.driverID != nil {
		return errs.NewConcurrencyConflict("order %s already has driver %s", o.id, o.driverID)
	}
	if o.HasIntegrityError() {
		return errs.NewDataIntegrityError("order", o.id.String(), o.integrityError)
	}

	next, err := o.status.Assign()
	if err != nil {
		return err
	}

	at = at.UTC()
	o.status = next
	o.driverID = &driverID
	o.assignedAt = &at
	return nil
}

func (o *Order) PickUp() error {
	next, err := o.status.PickUp()
	if err != nil {
		return err
	}
	o.status = next
	return nil
}

func (o *Order) MarkDelivered(at time.Time) error {
	next, err := o.status.Deliver()
	if err != nil {
		return err
	}
	at = at.UTC()
	o.status = next
	o.deliveredAt = &at
	return nil
}

// Cancel ends the order. The attached driver, if any, is kept for audit; releasing the
// driver is the caller's job.
func (o *Order) Cancel(at time.Time) error {
	next, err := o.status.Cancel()
	if err != nil {
		return err
	}
	at = at.UTC()
	o.status = next
	o.cancelledAt = &at
	return nil
}

// MarkIntegrityError records a permanent defect. The first reason wins.
func (o *Order) MarkIntegrityError(reason string) {
	if o.integrityError == "" {
		o.integrityError = reason
	}
}

func (o *Order) FlagForReview() {
	o.needsReview = true
}

// RecordSettlement stores the fee amounts actually applied at settlement.
func (o *Order) RecordSettlement(platformFee, driverCommission kernel.Money) error {
	if o.status != Delivered {
		return errs.NewInvalidTransition("order", o.status.String(), "settle")
	}
	o.platformFeeAmount = &platformFee
	o.driverCommissionAmount = &driverCommission
	return nil
}

func (o *Order) setIDs(id, restaurantID, customerID kernel.UUID) error {
	if err := errors.Join(
		wrapRequired("id", id.Validate()),
		wrapRequired("restaurantId", restaurantID.Validate()),
		wrapRequired("customerId", customerID.Validate()),
	); err != nil {
		return err
	}
	o.id, o.restaurantID, o.customerID = id, restaurantID, customerID
	return nil
}

func (o *Order) setLocations(restaurant *kernel.GeoPoint, delivery kernel.GeoPoint) error {
	var restaurantErr error
	if restaurant != nil {
		restaurantErr = wrapRequired("restaurantLocation", restaurant.Validate())
	}
	if err := errors.Join(restaurantErr, wrapRequired("deliveryLocation", delivery.Validate())); err != nil {
		return err
	}
	o.restaurantLocation = restaurant
	o.deliveryLocation = delivery
	return nil
}

func (o *Order) setCharges(c Charges) error {
	if err := c.Validate(); err != nil {
		return err
	}
	o.charges = c
	o.finalTotal = c.Total()
	return nil
}

func wrapRequired(param string, err error) error {
	if err == nil {
		return nil
	}
	return errs.NewValueIsRequiredErrorWithCause(param, err)
}
