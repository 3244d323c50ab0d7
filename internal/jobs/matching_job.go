package jobs

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultMatchingSchedule runs a matching pass every two seconds.
const DefaultMatchingSchedule = "*/2 * * * * *"

const matchingRunTimeout = 30 * time.Second

// MatchingJob triggers matching passes. Passes may overlap; assignment is protected by
// conditional writes, not by the scheduler.
type MatchingJob struct {
	handler  Matcher
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewMatchingJob(handler Matcher, schedule string, logger *slog.Logger) *MatchingJob {
	if schedule == "" {
		schedule = DefaultMatchingSchedule
	}
	logger = logger.With("component", "matching_job")
	return &MatchingJob{
		handler:  handler,
		schedule: schedule,
		cron:     newCron(logger, false),
		logger:   logger,
	}
}

func (j *MatchingJob) Name() string {
	return "matching"
}

// Run executes one matching pass.
func (j *MatchingJob) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, matchingRunTimeout)
	defer cancel()

	results, err := j.handler.Handle(ctx, commands.NewMatchOrdersCommand())
	if err != nil {
		j.logger.ErrorContext(ctx, "Matching pass failed", "error", err)
		return
	}
	if len(results) > 0 {
		j.logger.InfoContext(ctx, "Matching pass assigned orders", "assigned", len(results))
	}
}

func (j *MatchingJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Matching job started", "schedule", j.schedule)
	return nil
}

func (j *MatchingJob) Stop() {
	stopCron(j.cron)
	j.logger.InfoContext(context.Background(), "Matching job stopped")
}
