package registry

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const storeName = "live registry"

// Postgres keeps the registry in UNLOGGED tables so that several dispatch instances share
// one queue. Every error is reported as errs.ErrStoreUnavailable.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Connect opens a pool for url and checks that the server answers.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func (p *Postgres) EnqueuePending(ctx context.Context, orderID kernel.UUID) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO registry_pending_orders (order_id) VALUES ($1) ON CONFLICT (order_id) DO NOTHING`,
		orderID.Bytes())
	return wrap(err)
}

func (p *Postgres) DequeuePending(ctx context.Context, orderID kernel.UUID) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM registry_pending_orders WHERE order_id = $1`, orderID.Bytes())
	return wrap(err)
}

func (p *Postgres) ListPending(ctx context.Context) ([]kernel.UUID, error) {
	return p.listIDs(ctx, `SELECT order_id FROM registry_pending_orders ORDER BY seq`)
}

func (p *Postgres) MarkAvailable(ctx context.Context, driverID kernel.UUID) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO registry_available_drivers (driver_id) VALUES ($1) ON CONFLICT (driver_id) DO NOTHING`,
		driverID.Bytes())
	return wrap(err)
}

func (p *Postgres) MarkUnavailable(ctx context.Context, driverID kernel.UUID) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM registry_available_drivers WHERE driver_id = $1`, driverID.Bytes())
	return wrap(err)
}

func (p *Postgres) ListAvailable(ctx context.Context) ([]kernel.UUID, error) {
	return p.listIDs(ctx, `SELECT driver_id FROM registry_available_drivers`)
}

// SetLocation upserts the position; a write older than the stored one changes nothing.
func (p *Postgres) SetLocation(ctx context.Context, driverID kernel.UUID, point kernel.GeoPoint, at time.Time) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO registry_driver_locations (driver_id, lat, lng, at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (driver_id) DO UPDATE
		SET lat = excluded.lat, lng = excluded.lng, at = excluded.at
		WHERE excluded.at > registry_driver_locations.at`,
		driverID.Bytes(), point.Lat(), point.Lng(), at.UTC())
	return wrap(err)
}

func (p *Postgres) GetLocation(ctx context.Context, driverID kernel.UUID) (driver.Position, bool, error) {
	var (
		lat, lng float64
		at       time.Time
	)
	err := p.pool.QueryRow(ctx,
		`SELECT lat, lng, at FROM registry_driver_locations WHERE driver_id = $1`,
		driverID.Bytes()).Scan(&lat, &lng, &at)
	if errors.Is(err, pgx.ErrNoRows) {
		return driver.Position{}, false, nil
	}
	if err != nil {
		return driver.Position{}, false, wrap(err)
	}

	point, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		return driver.Position{}, false, err
	}
	return driver.Position{Point: point, At: at}, true, nil
}

func (p *Postgres) listIDs(ctx context.Context, query string) ([]kernel.UUID, error) {
	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, wrap(err)
	}
	defer rows.Close()

	var ids []kernel.UUID
	for rows.Next() {
		var raw uuid.UUID
		if err = rows.Scan(&raw); err != nil {
			return nil, wrap(err)
		}
		id, convErr := kernel.UUIDFromBytes(raw[:])
		if convErr != nil {
			return nil, convErr
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, wrap(err)
	}
	return ids, nil
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return errs.NewStoreUnavailable(storeName, err)
}
