package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultRebuildSchedule refreshes the live registry every ten minutes.
const DefaultRebuildSchedule = "0 */10 * * * *"

// RegistryRebuildJob periodically re-derives the live registry from durable state, so
// entries lost by a registry restart or a failed post-commit write come back.
type RegistryRebuildJob struct {
	handler  RegistryRebuilder
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewRegistryRebuildJob(handler RegistryRebuilder, schedule string, logger *slog.Logger) *RegistryRebuildJob {
	if schedule == "" {
		schedule = DefaultRebuildSchedule
	}
	logger = logger.With("component", "registry_rebuild_job")
	return &RegistryRebuildJob{
		handler:  handler,
		schedule: schedule,
		cron:     newCron(logger, true),
		logger:   logger,
	}
}

func (j *RegistryRebuildJob) Name() string {
	return "registry_rebuild"
}

// Run executes one rebuild.
func (j *RegistryRebuildJob) Run(ctx context.Context) {
	report, err := j.handler.Handle(ctx, commands.NewRebuildRegistryCommand())
	if err != nil {
		j.logger.ErrorContext(ctx, "Registry rebuild failed", "error", err)
		return
	}
	j.logger.DebugContext(ctx, "Registry rebuilt",
		"enqueued", report.Enqueued, "available", report.Available, "made_unavailable", report.MadeUnavailable)
}

func (j *RegistryRebuildJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Registry rebuild job started", "schedule", j.schedule)
	return nil
}

func (j *RegistryRebuildJob) Stop() {
	stopCron(j.cron)
	j.logger.InfoContext(context.Background(), "Registry rebuild job stopped")
}
