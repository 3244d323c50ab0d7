package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// Use cases driven by the scheduler.
type (
	Matcher interface {
		Handle(ctx context.Context, cmd commands.MatchOrdersCommand) ([]ports.AssignmentResult, error)
	}

	Reconciler interface {
		Handle(ctx context.Context, cmd commands.ReconcileSettlementsCommand) (commands.SweepReport, error)
	}

	RegistryRebuilder interface {
		Handle(ctx context.Context, cmd commands.RebuildRegistryCommand) (commands.RebuildReport, error)
	}
)

// Job is a scheduled task.
type Job interface {
	Name() string
	Start() error
	Stop()
}

// cronLogger routes cron's own messages (skipped runs, recovered panics) to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}

// newCron builds a scheduler with second precision. Panics in a run are recovered;
// with skipOverlap a run is skipped while the previous one is still going.
func newCron(logger *slog.Logger, skipOverlap bool) *cron.Cron {
	l := cronLogger{logger: logger}
	wrappers := []cron.JobWrapper{cron.Recover(l)}
	if skipOverlap {
		wrappers = append(wrappers, cron.SkipIfStillRunning(l))
	}
	return cron.New(cron.WithSeconds(), cron.WithLogger(l), cron.WithChain(wrappers...))
}

// stopCron stops scheduling and waits for the running invocation, if any.
func stopCron(c *cron.Cron) {
	<-c.Stop().Done()
}
