// Package driverrepo persists driver aggregates. Driver positions are not stored here;
// they live in the live registry.
package driverrepo

import (
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type DriverDTO struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID              uuid.UUID  `gorm:"type:uuid;uniqueIndex"`
	Status              string
	DeliveryStatus      string
	CurrentOrderID      *uuid.UUID `gorm:"type:uuid"`
	Rating              float64
	ActiveOrdersCount   int
	MaxConcurrentOrders int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (DriverDTO) TableName() string {
	return "drivers"
}

func fromDomain(d *driver.Driver) DriverDTO {
	var currentOrderID *uuid.UUID
	if id := d.CurrentOrderID(); id != nil {
		raw := id.Bytes()
		currentOrderID = &raw
	}

	return DriverDTO{
		ID:                  d.ID().Bytes(),
		UserID:              d.UserID().Bytes(),
		Status:              d.Status().String(),
		DeliveryStatus:      string(d.DeliveryStatus()),
		CurrentOrderID:      currentOrderID,
		Rating:              d.Rating(),
		ActiveOrdersCount:   d.ActiveOrdersCount(),
		MaxConcurrentOrders: d.MaxConcurrentOrders(),
	}
}

func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}
	status, err := driver.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	deliveryStatus, err := driver.ParseDeliveryStatus(dto.DeliveryStatus)
	if err != nil {
		return nil, err
	}

	var currentOrderID *kernel.UUID
	if dto.CurrentOrderID != nil {
		orderID, idErr := kernel.UUIDFromBytes(dto.CurrentOrderID[:])
		if idErr != nil {
			return nil, idErr
		}
		currentOrderID = &orderID
	}

	return driver.RestoreDriver(driver.Snapshot{
		ID:                  id,
		UserID:              userID,
		Status:              status,
		DeliveryStatus:      deliveryStatus,
		CurrentOrderID:      currentOrderID,
		Rating:              dto.Rating,
		ActiveOrdersCount:   dto.ActiveOrdersCount,
		MaxConcurrentOrders: dto.MaxConcurrentOrders,
	})
}
