package driver

import (
	"errors"
	"fmt"
	"math"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// DefaultMaxConcurrentOrders applies when a driver is registered without an explicit limit.
	DefaultMaxConcurrentOrders = 3

	MinRating = 0.0
	MaxRating = 5.0
)

var (
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver or RestoreDriver")
	ErrDriverIsBusy           = errors.New("driver is busy")
)

// Driver is the durable dispatch state of a courier.
//
// Business rules:
//   - A driver is eligible for a new order only when checked in, idle and without a current order
//   - TakeOrder increases the workload, ReleaseOrder decreases it
//   - The workload never exceeds maxConcurrentOrders
//
// Example usage:
//
//	d, err := driver.NewDriver(kernel.NewUUID(), userID, 4.8, 0)
//	if err != nil {
//	    // Handle construction error
//	}
//	_ = d.CheckIn()
type Driver struct {
	id     kernel.UUID
	userID kernel.UUID

	status         Status
	deliveryStatus DeliveryStatus
	currentOrderID *kernel.UUID

	rating              float64
	activeOrdersCount   int
	maxConcurrentOrders int

	guard guard.ConstructorGuard
}

// NewDriver registers a driver. New drivers start offline.
//
// Parameters:
//   - id: identifier of the driver record
//   - userID: identifier of the user account; owner of the driver's wallet
//   - rating: customer rating in [0, 5]
//   - maxConcurrentOrders: workload limit; 0 selects DefaultMaxConcurrentOrders
//
// Returns:
//   - *Driver: the registered driver
//   - error: joined validation errors
func NewDriver(id, userID kernel.UUID, rating float64, maxConcurrentOrders int) (*Driver, error) {
	if maxConcurrentOrders == 0 {
		maxConcurrentOrders = DefaultMaxConcurrentOrders
	}

	d := &Driver{
		status:         Offline,
		deliveryStatus: Idle,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setIDs(id, userID),
		d.setRating(rating),
		d.setMaxConcurrentOrders(maxConcurrentOrders),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// Snapshot is the persisted state of a driver.
type Snapshot struct {
	ID                  kernel.UUID
	UserID              kernel.UUID
	Status              Status
	DeliveryStatus      DeliveryStatus
	CurrentOrderID      *kernel.UUID
	Rating              float64
	ActiveOrdersCount   int
	MaxConcurrentOrders int
}

// RestoreDriver rebuilds a driver loaded from storage and checks its invariants.
func RestoreDriver(s Snapshot) (*Driver, error) {
	d := &Driver{
		currentOrderID:    s.CurrentOrderID,
		activeOrdersCount: s.ActiveOrdersCount,
		guard:             guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setIDs(s.ID, s.UserID),
		d.setRating(s.Rating),
		d.setMaxConcurrentOrders(s.MaxConcurrentOrders),
		d.setStatuses(s.Status, s.DeliveryStatus),
	); err != nil {
		return nil, err
	}

	if (s.CurrentOrderID != nil) != (s.DeliveryStatus == Delivering) {
		return nil, errs.NewDataIntegrityError("driver", s.ID.String(), "current order and delivery status disagree")
	}
	if s.ActiveOrdersCount < 0 || s.ActiveOrdersCount > d.maxConcurrentOrders {
		return nil, errs.NewDataIntegrityError("driver", s.ID.String(),
			fmt.Sprintf("active orders %d outside [0, %d]", s.ActiveOrdersCount, d.maxConcurrentOrders))
	}

	return d, nil
}

func (d *Driver) Validate() error {
	if d == nil {
		return ErrDriverIsNotConstructed
	}
	return d.guard.Validate(ErrDriverIsNotConstructed)
}

func (d *Driver) IsEqual(other *Driver) bool {
	return other != nil && d.id.IsEqual(other.id)
}

func (d *Driver) ID() kernel.UUID {
	return d.id
}

// UserID identifies the account that owns the driver's wallet.
func (d *Driver) UserID() kernel.UUID {
	return d.userID
}

func (d *Driver) Status() Status {
	return d.status
}

func (d *Driver) DeliveryStatus() DeliveryStatus {
	return d.deliveryStatus
}

func (d *Driver) CurrentOrderID() *kernel.UUID {
	return d.currentOrderID
}

func (d *Driver) Rating() float64 {
	return d.rating
}

func (d *Driver) ActiveOrdersCount() int {
	return d.activeOrdersCount
}

func (d *Driver) MaxConcurrentOrders() int {
	return d.maxConcurrentOrders
}

// IsEligible reports whether the durable state allows offering a new order.
// Distance, rating and registry availability are checked by the matcher.
func (d *Driver) IsEligible() bool {
	return d.status == CheckIn && d.deliveryStatus == Idle && d.currentOrderID == nil
}

// HasCapacity reports whether one more order fits under the workload limit.
func (d *Driver) HasCapacity() bool {
	return d.activeOrdersCount < d.maxConcurrentOrders
}

// CheckIn starts a shift. Checking in twice is harmless.
func (d *Driver) CheckIn() error {
	d.status = CheckIn
	return nil
}

// CheckOut ends a shift.
//
// Returns:
//   - ErrInvalidTransition (errs) while the driver is carrying an order
func (d *Driver) CheckOut() error {
	if d.deliveryStatus == Delivering {
		return errs.NewInvalidTransition("driver", string(d.deliveryStatus), "check out")
	}
	d.status = Offline
	return nil
}

// TakeOrder attaches the order and counts it against the workload.
//
// Parameters:
//   - orderID: the order being assigned
//
// Returns:
//   - ErrDriverIsBusy if the driver already carries an order or is at capacity
//   - a validation error if orderID is empty
func (d *Driver) TakeOrder(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if d.currentOrderID != nil {
		return fmt.Errorf("%w: carrying order %s", ErrDriverIsBusy, d.currentOrderID)
	}
	if !d.HasCapacity() {
		return fmt.Errorf("%w: %d of %d orders active", ErrDriverIsBusy, d.activeOrdersCount, d.maxConcurrentOrders)
	}

	d.currentOrderID = &orderID
	d.deliveryStatus = Delivering
	d.activeOrdersCount++
	return nil
}

// ReleaseOrder detaches the order after delivery or cancellation.
func (d *Driver) ReleaseOrder(orderID kernel.UUID) error {
	if d.currentOrderID == nil || !d.currentOrderID.IsEqual(orderID) {
		return errs.NewConcurrencyConflict("driver %s does not carry order %s", d.id, orderID)
	}

	d.currentOrderID = nil
	d.deliveryStatus = Idle
	if d.activeOrdersCount > 0 {
		d.activeOrdersCount--
	}
	return nil
}

func (d *Driver) setIDs(id, userID kernel.UUID) error {
	var problems []error
	if err := id.Validate(); err != nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("id", err))
	}
	if err := userID.Validate(); err != nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause("userId", err))
	}
	if err := errors.Join(problems...); err != nil {
		return err
	}
	d.id, d.userID = id, userID
	return nil
}

func (d *Driver) setRating(rating float64) error {
	if math.IsNaN(rating) || rating < MinRating || rating > MaxRating {
		return errs.NewValueIsOutOfRangeError("rating", fmt.Sprint(rating), MinRating, MaxRating)
	}
	d.rating = rating
	return nil
}

func (d *Driver) setMaxConcurrentOrders(limit int) error {
	if limit <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("maxConcurrentOrders", fmt.Errorf("%d is not greater than 0", limit))
	}
	d.maxConcurrentOrders = limit
	return nil
}

func (d *Driver) setStatuses(status Status, delivery DeliveryStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if _, err := ParseDeliveryStatus(string(delivery)); err != nil {
		return err
	}
	d.status, d.deliveryStatus = status, delivery
	return nil
}

// Position is the last known location of a driver as reported to the live registry.
type Position struct {
	Point kernel.GeoPoint
	At    time.Time
}
