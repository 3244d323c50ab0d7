package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/ports"
)

// UpdateDriverLocationCommandHandler writes positions to the live registry only.
// Location updates are fire-and-forget: registry failures are logged, never returned.
type UpdateDriverLocationCommandHandler struct {
	registry ports.LiveRegistry
	logger   *slog.Logger
}

func NewUpdateDriverLocationCommandHandler(registry ports.LiveRegistry, logger *slog.Logger) UpdateDriverLocationCommandHandler {
	return UpdateDriverLocationCommandHandler{
		registry: registry,
		logger:   logger.With("component", "driver_location"),
	}
}

func (h UpdateDriverLocationCommandHandler) Handle(ctx context.Context, cmd UpdateDriverLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := h.registry.SetLocation(ctx, cmd.DriverID(), cmd.Point(), cmd.At()); err != nil {
		h.logger.WarnContext(ctx, "location update dropped", "driver_id", cmd.DriverID().String(), "error", err)
	}
	return nil
}
