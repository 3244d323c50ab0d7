package driverrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDriverRepository implements ports.DriverRepository using GORM.
type GormDriverRepository struct {
	db *gorm.DB
}

func NewGormDriverRepository(db *gorm.DB) *GormDriverRepository {
	return &GormDriverRepository{db: db}
}

func (r *GormDriverRepository) Add(ctx context.Context, aggregate *driver.Driver) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update persists shift status, rating and workload limit. Going offline is conditional on
// the stored driver carrying no order, so a check-out cannot race an assignment.
func (r *GormDriverRepository) Update(ctx context.Context, aggregate *driver.Driver) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	query := r.db.WithContext(ctx).Model(&DriverDTO{}).Where("id = ?", dto.ID)
	if aggregate.Status() == driver.Offline {
		query = query.Where("current_order_id IS NULL")
	}

	result := query.Updates(map[string]any{
		"status":                dto.Status,
		"rating":                dto.Rating,
		"max_concurrent_orders": dto.MaxConcurrentOrders,
		"updated_at":            time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.Get(ctx, aggregate.ID()); err != nil {
			return err
		}
		return errs.NewConcurrencyConflict("driver %s took an order meanwhile", aggregate.ID())
	}
	return nil
}

func (r *GormDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DriverDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("driver", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormDriverRepository) GetAllEligible(ctx context.Context) ([]*driver.Driver, error) {
	var dtos []DriverDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND delivery_status = ? AND current_order_id IS NULL",
			driver.CheckIn.String(), string(driver.Idle)).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	drivers := make([]*driver.Driver, 0, len(dtos))
	for _, dto := range dtos {
		d, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		drivers = append(drivers, d)
	}
	return drivers, nil
}

// CompareAndClaim is the driver half of the assignment transaction.
func (r *GormDriverRepository) CompareAndClaim(ctx context.Context, aggregate *driver.Driver) error {
	if aggregate.CurrentOrderID() == nil {
		return errs.NewInvalidTransition("driver", string(aggregate.DeliveryStatus()), "claim")
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&DriverDTO{}).
		Where("id = ? AND status = ? AND current_order_id IS NULL AND active_orders_count < max_concurrent_orders",
			dto.ID, driver.CheckIn.String()).
		Updates(map[string]any{
			"current_order_id":    dto.CurrentOrderID,
			"delivery_status":     dto.DeliveryStatus,
			"active_orders_count": gorm.Expr("active_orders_count + 1"),
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConcurrencyConflict("driver %s is no longer free", aggregate.ID())
	}
	return nil
}

func (r *GormDriverRepository) CompareAndRelease(ctx context.Context, aggregate *driver.Driver, orderID kernel.UUID) error {
	result := r.db.WithContext(ctx).Model(&DriverDTO{}).
		Where("id = ? AND current_order_id = ?", aggregate.ID().Bytes(), orderID.Bytes()).
		Updates(map[string]any{
			"current_order_id":    nil,
			"delivery_status":     string(driver.Idle),
			"active_orders_count": gorm.Expr("GREATEST(active_orders_count - 1, 0)"),
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConcurrencyConflict("driver %s no longer carries order %s", aggregate.ID(), orderID)
	}
	return nil
}
