package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultReconciliationSchedule sweeps every five minutes.
const DefaultReconciliationSchedule = "0 */5 * * * *"

// ReconciliationJob settles delivered orders whose settlement request was lost.
// A sweep never starts while the previous one is running.
type ReconciliationJob struct {
	handler     Reconciler
	schedule    string
	batchSize   int
	concurrency int
	cron        *cron.Cron
	logger      *slog.Logger
}

func NewReconciliationJob(handler Reconciler, schedule string, batchSize, concurrency int, logger *slog.Logger) *ReconciliationJob {
	if schedule == "" {
		schedule = DefaultReconciliationSchedule
	}
	logger = logger.With("component", "reconciliation_job")
	return &ReconciliationJob{
		handler:     handler,
		schedule:    schedule,
		batchSize:   batchSize,
		concurrency: concurrency,
		cron:        newCron(logger, true),
		logger:      logger,
	}
}

func (j *ReconciliationJob) Name() string {
	return "reconciliation"
}

// Run executes one sweep.
func (j *ReconciliationJob) Run(ctx context.Context) {
	cmd, err := commands.NewReconcileSettlementsCommand(j.batchSize, j.concurrency)
	if err != nil {
		j.logger.ErrorContext(ctx, "Invalid sweep settings", "error", err)
		return
	}

	report, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Reconciliation sweep failed", "error", err)
		return
	}
	if len(report.Failed) > 0 {
		j.logger.WarnContext(ctx, "Reconciliation sweep left orders unsettled", "failed", len(report.Failed))
	}
}

func (j *ReconciliationJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Reconciliation job started", "schedule", j.schedule)
	return nil
}

func (j *ReconciliationJob) Stop() {
	stopCron(j.cron)
	j.logger.InfoContext(context.Background(), "Reconciliation job stopped")
}
