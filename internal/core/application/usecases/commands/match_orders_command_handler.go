package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// DefaultMaxAssignAttempts bounds how many ranked candidates are tried per order and pass.
const DefaultMaxAssignAttempts = 3

// DriverAssigner commits a single proposal.
type DriverAssigner interface {
	Handle(ctx context.Context, cmd AssignDriverCommand) (time.Time, error)
}

// MatchOrdersCommandHandler drives a matching pass:
//
//  1. read the pending queue from the live registry; a registry failure ends the pass
//  2. drop queue entries whose order is gone, no longer pending, or broken
//  3. load eligible drivers and their registry presence once per pass
//  4. rank candidates per order and try them in order, skipping lost races
//
// A driver assigned during the pass is not offered to later orders of the same pass.
// Orders left without a driver stay queued for the next pass.
type MatchOrdersCommandHandler struct {
	uowFactory  UoWFactory
	registry    ports.LiveRegistry
	matcher     services.DriverMatcher
	assigner    DriverAssigner
	publisher   ports.AssignmentPublisher
	maxAttempts int
	logger      *slog.Logger
}

func NewMatchOrdersCommandHandler(
	uowFactory UoWFactory,
	registry ports.LiveRegistry,
	matcher services.DriverMatcher,
	assigner DriverAssigner,
	publisher ports.AssignmentPublisher,
	maxAttempts int,
	logger *slog.Logger,
) MatchOrdersCommandHandler {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAssignAttempts
	}
	return MatchOrdersCommandHandler{
		uowFactory:  uowFactory,
		registry:    registry,
		matcher:     matcher,
		assigner:    assigner,
		publisher:   publisher,
		maxAttempts: maxAttempts,
		logger:      logger.With("component", "match_orders"),
	}
}

// Handle returns the assignments committed by this pass.
func (h MatchOrdersCommandHandler) Handle(ctx context.Context, cmd MatchOrdersCommand) ([]ports.AssignmentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	queued, err := h.registry.ListPending(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "pending queue unavailable, skipping pass", "error", err)
		return nil, nil
	}
	if len(queued) == 0 {
		return nil, nil
	}

	uow := h.uowFactory.Create()
	orders, err := h.loadQueuedOrders(ctx, uow.OrderRepository(), queued)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}

	drivers, err := uow.DriverRepository().GetAllEligible(ctx)
	if err != nil {
		return nil, err
	}
	drivers = h.usableDrivers(ctx, drivers)
	presence := h.presence(ctx, drivers)

	var (
		results []ports.AssignmentResult
		taken   = make(map[kernel.UUID]struct{})
	)

	for _, o := range orders {
		if ctx.Err() != nil {
			break
		}

		ranked, rankErr := h.matcher.Rank(o, withoutTaken(drivers, taken), presence)
		var integrity *errs.DataIntegrityError
		switch {
		case errors.As(rankErr, &integrity):
			h.quarantine(ctx, o, integrity)
			continue
		case errors.Is(rankErr, errs.ErrNoEligibleDriver):
			h.logger.DebugContext(ctx, "no eligible driver", "order_id", o.ID().String())
			continue
		case rankErr != nil:
			h.logger.ErrorContext(ctx, "ranking failed", "order_id", o.ID().String(), "error", rankErr)
			continue
		}

		result, ok := h.assignFirstFree(ctx, o, ranked)
		if !ok {
			continue
		}
		taken[result.DriverID] = struct{}{}
		results = append(results, result)

		if pubErr := h.publisher.PublishAssignment(ctx, result); pubErr != nil {
			h.logger.WarnContext(ctx, "assignment event dropped", "order_id", o.ID().String(), "error", pubErr)
		}
	}

	return results, nil
}

// loadQueuedOrders keeps the queue order and evicts stale entries.
func (h MatchOrdersCommandHandler) loadQueuedOrders(
	ctx context.Context,
	repo ports.OrderRepository,
	queued []kernel.UUID,
) ([]*order.Order, error) {
	found, err := repo.GetByIDs(ctx, queued)
	if err != nil {
		return nil, err
	}

	byID := make(map[kernel.UUID]*order.Order, len(found))
	for _, o := range found {
		byID[o.ID()] = o
	}

	result := make([]*order.Order, 0, len(found))
	for _, id := range queued {
		o, ok := byID[id]
		if !ok || o.Status() != order.Pending || o.HasIntegrityError() {
			h.dequeue(ctx, id)
			continue
		}
		result = append(result, o)
	}
	return result, nil
}

// usableDrivers drops drivers the matcher would skip and reports them.
func (h MatchOrdersCommandHandler) usableDrivers(ctx context.Context, drivers []*driver.Driver) []*driver.Driver {
	usable := make([]*driver.Driver, 0, len(drivers))
	for _, d := range drivers {
		if err := d.Validate(); err != nil {
			if d != nil {
				h.logger.ErrorContext(ctx, "driver skipped by matching", "driver_id", d.ID().String(), "error", err)
			} else {
				h.logger.ErrorContext(ctx, "driver skipped by matching", "error", err)
			}
			continue
		}
		usable = append(usable, d)
	}
	return usable
}

func (h MatchOrdersCommandHandler) presence(ctx context.Context, drivers []*driver.Driver) services.Presence {
	presence := services.Presence{
		Available: make(map[kernel.UUID]struct{}),
		Positions: make(map[kernel.UUID]driver.Position),
	}

	available, err := h.registry.ListAvailable(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "available set unavailable, no candidates this pass",
			"error", errs.NewStoreUnavailable("registry", err))
		return presence
	}
	for _, id := range available {
		presence.Available[id] = struct{}{}
	}

	for _, d := range drivers {
		if _, ok := presence.Available[d.ID()]; !ok {
			continue
		}
		position, ok, err := h.registry.GetLocation(ctx, d.ID())
		if err != nil {
			h.logger.WarnContext(ctx, "driver location unavailable", "driver_id", d.ID().String(), "error", err)
			continue
		}
		if ok {
			presence.Positions[d.ID()] = position
		}
	}
	return presence
}

func (h MatchOrdersCommandHandler) assignFirstFree(
	ctx context.Context,
	o *order.Order,
	ranked []services.Proposal,
) (ports.AssignmentResult, bool) {
	for i, proposal := range ranked {
		if i == h.maxAttempts {
			break
		}

		cmd, err := NewAssignDriverCommand(o.ID(), proposal.DriverID())
		if err != nil {
			h.logger.ErrorContext(ctx, "invalid assignment", "order_id", o.ID().String(), "error", err)
			return ports.AssignmentResult{}, false
		}

		assignedAt, err := h.assigner.Handle(ctx, cmd)
		if errors.Is(err, errs.ErrConcurrencyConflict) {
			h.logger.InfoContext(ctx, "assignment lost race",
				"order_id", o.ID().String(), "driver_id", proposal.DriverID().String(), "error", err)
			continue
		}
		if err != nil {
			h.logger.ErrorContext(ctx, "assignment failed",
				"order_id", o.ID().String(), "driver_id", proposal.DriverID().String(), "error", err)
			return ports.AssignmentResult{}, false
		}

		h.logger.InfoContext(ctx, "order assigned",
			"order_id", o.ID().String(), "driver_id", proposal.DriverID().String(),
			"distance_km", proposal.DistanceKm, "score", proposal.Score)

		return ports.AssignmentResult{
			OrderID:    o.ID(),
			DriverID:   proposal.DriverID(),
			DistanceKm: proposal.DistanceKm,
			Score:      proposal.Score,
			AssignedAt: assignedAt,
		}, true
	}
	return ports.AssignmentResult{}, false
}

// quarantine records a permanent data defect so the order is never retried automatically.
func (h MatchOrdersCommandHandler) quarantine(ctx context.Context, o *order.Order, cause *errs.DataIntegrityError) {
	h.logger.ErrorContext(ctx, "order taken out of dispatch", "order_id", o.ID().String(), "error", cause)

	if err := h.markIntegrityError(ctx, o, cause.Reason); err != nil {
		h.logger.ErrorContext(ctx, "integrity error not persisted", "order_id", o.ID().String(), "error", err)
	}
	h.dequeue(ctx, o.ID())
}

func (h MatchOrdersCommandHandler) markIntegrityError(ctx context.Context, o *order.Order, reason string) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o.MarkIntegrityError(reason)
	if err := uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func (h MatchOrdersCommandHandler) dequeue(ctx context.Context, orderID kernel.UUID) {
	if err := h.registry.DequeuePending(ctx, orderID); err != nil {
		h.logger.WarnContext(ctx, "registry dequeue dropped", "order_id", orderID.String(), "error", err)
	}
}

func withoutTaken(drivers []*driver.Driver, taken map[kernel.UUID]struct{}) []*driver.Driver {
	if len(taken) == 0 {
		return drivers
	}
	free := make([]*driver.Driver, 0, len(drivers))
	for _, d := range drivers {
		if _, ok := taken[d.ID()]; !ok {
			free = append(free, d)
		}
	}
	return free
}
