package driver

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status is the shift state of a driver.
type Status string

const (
	Offline Status = "offline"
	CheckIn Status = "checkin"
)

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if err := st.Validate(); err != nil {
		return "", err
	}
	return st, nil
}

func (s Status) Validate() error {
	switch s {
	case Offline, CheckIn:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid driver status", string(s)))
	}
}

func (s Status) String() string {
	return string(s)
}

// DeliveryStatus tells whether the driver is carrying an order. The empty value means idle.
type DeliveryStatus string

const (
	Idle       DeliveryStatus = ""
	Delivering DeliveryStatus = "delivering"
)

func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	switch DeliveryStatus(s) {
	case Idle, Delivering:
		return DeliveryStatus(s), nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("deliveryStatus", fmt.Errorf("%q is not a valid delivery status", s))
	}
}
