package orderrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/wallet"
	"dispatch/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update writes bookkeeping columns only.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"integrity_error":          dto.IntegrityError,
			"needs_review":             dto.NeedsReview,
			"platform_fee_amount":      dto.PlatformFeeAmount,
			"driver_commission_amount": dto.DriverCommissionAmount,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(r.db.WithContext(ctx), id)
}

func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormOrderRepository) get(db *gorm.DB, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) GetByIDs(ctx context.Context, ids []kernel.UUID) ([]*order.Order, error) {
	if len(ids) == 0 {
		return []*order.Order{}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, id.String())
	}

	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).Where("id = ANY(?)", pq.Array(keys)).Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainAll(dtos)
}

func (r *GormOrderRepository) MarkIntegrityError(ctx context.Context, id kernel.UUID, reason string) error {
	if err := id.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND integrity_error IS NULL", id.Bytes()).
		Update("integrity_error", reason).Error
}

func (r *GormOrderRepository) GetAllDispatchable(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND driver_id IS NULL AND integrity_error IS NULL", order.Pending.String()).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainAll(dtos)
}

// GetUnsettledDelivered selects delivered orders missing any of the settlement legs.
// Quarantined orders are skipped so they cannot fill every batch.
func (r *GormOrderRepository) GetUnsettledDelivered(ctx context.Context, limit int) ([]kernel.UUID, error) {
	legs := make([]string, 0, len(wallet.SettlementTypes))
	for _, t := range wallet.SettlementTypes {
		legs = append(legs, string(t))
	}

	var raw []string
	err := r.db.WithContext(ctx).Raw(`
		SELECT o.id
		FROM orders o
		WHERE o.status = ?
		  AND o.driver_id IS NOT NULL
		  AND o.integrity_error IS NULL
		  AND (
			SELECT count(DISTINCT t.type)
			FROM wallet_transactions t
			WHERE t.order_id = o.id
			  AND t.status = ?
			  AND t.type = ANY(?)
		  ) < ?
		ORDER BY o.delivered_at NULLS FIRST, o.id
		LIMIT ?
	`, order.Delivered.String(), string(wallet.StatusCompleted), pq.Array(legs), len(legs), limit).
		Scan(&raw).Error
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(raw))
	for _, id := range raw {
		converted, idErr := kernel.UUIDFromString(id)
		if idErr != nil {
			return nil, idErr
		}
		ids = append(ids, converted)
	}
	return ids, nil
}

// CompareAndAssign succeeds only for a stored order that is still pending, driverless
// and not quarantined.
func (r *GormOrderRepository) CompareAndAssign(ctx context.Context, aggregate *order.Order) error {
	if aggregate.DriverID() == nil || aggregate.Status() != order.PickingUp {
		return errs.NewInvalidTransition("order", aggregate.Status().String(), "persist assignment of")
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND status = ? AND driver_id IS NULL AND integrity_error IS NULL", dto.ID, order.Pending.String()).
		Updates(map[string]any{
			"status":      dto.Status,
			"driver_id":   dto.DriverID,
			"assigned_at": dto.AssignedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConcurrencyConflict("order %s is no longer pending", aggregate.ID())
	}
	return nil
}

func (r *GormOrderRepository) CompareAndTransition(ctx context.Context, aggregate *order.Order, from order.Status) error {
	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND status = ?", dto.ID, from.String()).
		Updates(map[string]any{
			"status":       dto.Status,
			"delivered_at": dto.DeliveredAt,
			"cancelled_at": dto.CancelledAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConcurrencyConflict("order %s is no longer %s", aggregate.ID(), from)
	}
	return nil
}

func toDomainAll(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
