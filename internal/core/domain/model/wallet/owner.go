package wallet

import (
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

type OwnerType string

const (
	OwnerRestaurant OwnerType = "restaurant"
	OwnerDriver     OwnerType = "driver"
	OwnerAdmin      OwnerType = "admin"
)

// SystemOwnerKey addresses the system wallet in URLs and reports.
const SystemOwnerKey = "system"

func ParseOwnerType(s string) (OwnerType, error) {
	switch t := OwnerType(s); t {
	case OwnerRestaurant, OwnerDriver, OwnerAdmin:
		return t, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("ownerType", fmt.Errorf("%q is not a valid owner type", s))
	}
}

// Owner identifies the holder of a wallet. The system wallet has no owner id.
type Owner struct {
	Type OwnerType
	ID   *kernel.UUID
}

func SystemOwner() Owner {
	return Owner{Type: OwnerAdmin}
}

func RestaurantOwner(id kernel.UUID) Owner {
	return Owner{Type: OwnerRestaurant, ID: &id}
}

func DriverOwner(userID kernel.UUID) Owner {
	return Owner{Type: OwnerDriver, ID: &userID}
}

// ParseOwner resolves the (ownerType, ownerId) pair used by the HTTP API.
// "admin"/"system" is the system wallet.
func ParseOwner(ownerType, ownerID string) (Owner, error) {
	t, err := ParseOwnerType(ownerType)
	if err != nil {
		return Owner{}, err
	}
	if t == OwnerAdmin && ownerID == SystemOwnerKey {
		return SystemOwner(), nil
	}
	id, err := kernel.UUIDFromString(ownerID)
	if err != nil {
		return Owner{}, errs.NewValueIsInvalidErrorWithCause("ownerId", err)
	}
	if err = id.Validate(); err != nil {
		return Owner{}, errs.NewValueIsRequiredErrorWithCause("ownerId", err)
	}
	return Owner{Type: t, ID: &id}, nil
}

func (o Owner) IsSystem() bool {
	return o.Type == OwnerAdmin && o.ID == nil
}

func (o Owner) Validate() error {
	if _, err := ParseOwnerType(string(o.Type)); err != nil {
		return err
	}
	if o.ID == nil && !o.IsSystem() {
		return errs.NewValueIsRequiredError("ownerId")
	}
	if o.ID != nil {
		return o.ID.Validate()
	}
	return nil
}

func (o Owner) String() string {
	if o.IsSystem() {
		return string(OwnerAdmin) + ":" + SystemOwnerKey
	}
	return string(o.Type) + ":" + o.ID.String()
}
