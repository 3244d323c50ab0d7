// Package orderrepo persists order aggregates in the orders table.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the row shape of the orders table. Restaurant coordinates, rates and fee
// amounts are nullable: rows captured by older releases lack them.
type OrderDTO struct {
	ID                     uuid.UUID           `gorm:"type:uuid;primaryKey"`
	RestaurantID           uuid.UUID           `gorm:"type:uuid"`
	CustomerID             uuid.UUID           `gorm:"type:uuid"`
	RestaurantLat          *float64
	RestaurantLng          *float64
	DeliveryLat            float64
	DeliveryLng            float64
	Subtotal               int64
	DeliveryFee            int64
	Tip                    int64
	DoorFee                int64
	FinalTotal             int64
	PlatformFeeRate        decimal.NullDecimal `gorm:"type:numeric(7,4)"`
	PlatformFeeAmount      *int64
	DriverCommissionRate   decimal.NullDecimal `gorm:"type:numeric(7,4)"`
	DriverCommissionAmount *int64
	Status                 string
	DriverID               *uuid.UUID `gorm:"type:uuid"`
	AssignedAt             *time.Time
	DeliveredAt            *time.Time
	CancelledAt            *time.Time
	IntegrityError         *string
	NeedsReview            bool
	CreatedAt              time.Time
}

func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(o *order.Order) OrderDTO {
	charges := o.Charges()
	dto := OrderDTO{
		ID:                     o.ID().Bytes(),
		RestaurantID:           o.RestaurantID().Bytes(),
		CustomerID:             o.CustomerID().Bytes(),
		DeliveryLat:            o.DeliveryLocation().Lat(),
		DeliveryLng:            o.DeliveryLocation().Lng(),
		Subtotal:               charges.Subtotal.Int64(),
		DeliveryFee:            charges.DeliveryFee.Int64(),
		Tip:                    charges.Tip.Int64(),
		DoorFee:                charges.DoorFee.Int64(),
		FinalTotal:             o.FinalTotal().Int64(),
		PlatformFeeRate:        nullRate(o.PlatformFeeRate()),
		PlatformFeeAmount:      moneyPtr(o.PlatformFeeAmount()),
		DriverCommissionRate:   nullRate(o.DriverCommissionRate()),
		DriverCommissionAmount: moneyPtr(o.DriverCommissionAmount()),
		Status:                 o.Status().String(),
		DriverID:               uuidPtr(o.DriverID()),
		AssignedAt:             o.AssignedAt(),
		DeliveredAt:            o.DeliveredAt(),
		CancelledAt:            o.CancelledAt(),
		NeedsReview:            o.NeedsReview(),
		CreatedAt:              o.CreatedAt(),
	}
	if loc := o.RestaurantLocation(); loc != nil {
		lat, lng := loc.Lat(), loc.Lng()
		dto.RestaurantLat, dto.RestaurantLng = &lat, &lng
	}
	if o.HasIntegrityError() {
		reason := o.IntegrityError()
		dto.IntegrityError = &reason
	}
	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	delivery, err := kernel.NewGeoPoint(dto.DeliveryLat, dto.DeliveryLng)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	snapshot := order.Snapshot{
		ID:                     id,
		RestaurantID:           restaurantID,
		CustomerID:             customerID,
		DeliveryLocation:       delivery,
		FinalTotal:             kernel.Money(dto.FinalTotal),
		PlatformFeeRate:        ratePtr(dto.PlatformFeeRate),
		PlatformFeeAmount:      toMoneyPtr(dto.PlatformFeeAmount),
		DriverCommissionRate:   ratePtr(dto.DriverCommissionRate),
		DriverCommissionAmount: toMoneyPtr(dto.DriverCommissionAmount),
		Status:                 status,
		AssignedAt:             dto.AssignedAt,
		DeliveredAt:            dto.DeliveredAt,
		CancelledAt:            dto.CancelledAt,
		NeedsReview:            dto.NeedsReview,
		CreatedAt:              dto.CreatedAt,
		Charges: order.Charges{
			Subtotal:    kernel.Money(dto.Subtotal),
			DeliveryFee: kernel.Money(dto.DeliveryFee),
			Tip:         kernel.Money(dto.Tip),
			DoorFee:     kernel.Money(dto.DoorFee),
		},
	}

	// A half-set coordinate pair is treated as missing.
	if dto.RestaurantLat != nil && dto.RestaurantLng != nil {
		restaurant, locErr := kernel.NewGeoPoint(*dto.RestaurantLat, *dto.RestaurantLng)
		if locErr != nil {
			return nil, locErr
		}
		snapshot.RestaurantLocation = &restaurant
	}
	if dto.DriverID != nil {
		driverID, idErr := kernel.UUIDFromBytes(dto.DriverID[:])
		if idErr != nil {
			return nil, idErr
		}
		snapshot.DriverID = &driverID
	}
	if dto.IntegrityError != nil {
		snapshot.IntegrityError = *dto.IntegrityError
	}

	return order.RestoreOrder(snapshot)
}

func nullRate(p *kernel.Percent) decimal.NullDecimal {
	if p == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: p.Decimal(), Valid: true}
}

// ratePtr does not re-validate the range: stored rates above 100% are clamped at settlement.
func ratePtr(d decimal.NullDecimal) *kernel.Percent {
	if !d.Valid {
		return nil
	}
	p := kernel.UncheckedPercent(d.Decimal)
	return &p
}

func moneyPtr(m *kernel.Money) *int64 {
	if m == nil {
		return nil
	}
	v := m.Int64()
	return &v
}

func toMoneyPtr(v *int64) *kernel.Money {
	if v == nil {
		return nil
	}
	m := kernel.Money(*v)
	return &m
}

func uuidPtr(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}
