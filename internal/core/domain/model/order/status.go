package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
//	Pending ──> PickingUp ──> Delivering ──> Delivered
//	   │            │  └──────────────────────^
//	   └────────────┴──────────┴──> Cancelled
type Status int

const (
	Unknown Status = iota
	Pending
	PickingUp
	Delivering
	Delivered
	Cancelled
)

var statusNames = map[Status]string{
	Pending:    "pending",
	PickingUp:  "picking_up",
	Delivering: "delivering",
	Delivered:  "delivered",
	Cancelled:  "cancelled",
}

// ParseStatus converts the persisted name back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid order status", s))
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid order status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsFinal reports whether no further transition is possible.
func (s Status) IsFinal() bool {
	return s == Delivered || s == Cancelled
}

// HasDriver reports whether a driver must be attached in this status.
// Cancelled orders may or may not have had one.
func (s Status) HasDriver() bool {
	return s == PickingUp || s == Delivering || s == Delivered
}

func (s Status) Assign() (Status, error) {
	if s != Pending {
		return Unknown, errs.NewInvalidTransition("order", s.String(), "assign")
	}
	return PickingUp, nil
}

func (s Status) PickUp() (Status, error) {
	if s != PickingUp {
		return Unknown, errs.NewInvalidTransition("order", s.String(), "pick up")
	}
	return Delivering, nil
}

// Deliver accepts delivery straight from PickingUp for couriers that skip the pick-up scan.
func (s Status) Deliver() (Status, error) {
	if s != PickingUp && s != Delivering {
		return Unknown, errs.NewInvalidTransition("order", s.String(), "deliver")
	}
	return Delivered, nil
}

func (s Status) Cancel() (Status, error) {
	if s.IsFinal() || s.Validate() != nil {
		return Unknown, errs.NewInvalidTransition("order", s.String(), "cancel")
	}
	return Cancelled, nil
}
