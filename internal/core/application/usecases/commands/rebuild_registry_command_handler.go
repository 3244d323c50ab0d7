package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// RebuildReport counts what a rebuild wrote to the registry.
type RebuildReport struct {
	Enqueued        int `json:"enqueued"`
	Available       int `json:"available"`
	MadeUnavailable int `json:"madeUnavailable"`
}

// RebuildRegistryCommandHandler re-enqueues every dispatchable order, marks every eligible
// driver available and withdraws drivers the registry wrongly lists as available.
// Positions are not touched; they come only from drivers.
type RebuildRegistryCommandHandler struct {
	uowFactory UoWFactory
	registry   ports.LiveRegistry
	logger     *slog.Logger
}

func NewRebuildRegistryCommandHandler(uowFactory UoWFactory, registry ports.LiveRegistry, logger *slog.Logger) RebuildRegistryCommandHandler {
	return RebuildRegistryCommandHandler{
		uowFactory: uowFactory,
		registry:   registry,
		logger:     logger.With("component", "rebuild_registry"),
	}
}

func (h RebuildRegistryCommandHandler) Handle(ctx context.Context, cmd RebuildRegistryCommand) (RebuildReport, error) {
	if err := cmd.Validate(); err != nil {
		return RebuildReport{}, err
	}

	uow := h.uowFactory.Create()

	orders, err := uow.OrderRepository().GetAllDispatchable(ctx)
	if err != nil {
		return RebuildReport{}, err
	}
	drivers, err := uow.DriverRepository().GetAllEligible(ctx)
	if err != nil {
		return RebuildReport{}, err
	}

	var report RebuildReport
	for _, o := range orders {
		if err = h.registry.EnqueuePending(ctx, o.ID()); err != nil {
			return report, err
		}
		report.Enqueued++
	}

	eligible := make(map[kernel.UUID]struct{}, len(drivers))
	for _, d := range drivers {
		eligible[d.ID()] = struct{}{}
		if err = h.registry.MarkAvailable(ctx, d.ID()); err != nil {
			return report, err
		}
		report.Available++
	}

	listed, err := h.registry.ListAvailable(ctx)
	if err != nil {
		return report, err
	}
	for _, id := range listed {
		if _, ok := eligible[id]; ok {
			continue
		}
		if err = h.registry.MarkUnavailable(ctx, id); err != nil {
			return report, err
		}
		report.MadeUnavailable++
	}

	h.logger.InfoContext(ctx, "live registry rebuilt",
		"enqueued", report.Enqueued, "available", report.Available, "made_unavailable", report.MadeUnavailable)
	return report, nil
}
