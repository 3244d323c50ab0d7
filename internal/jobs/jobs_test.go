package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"
	"dispatch/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMatcher struct{ mock.Mock }

func (m *MockMatcher) Handle(ctx context.Context, cmd commands.MatchOrdersCommand) ([]ports.AssignmentResult, error) {
	args := m.Called(ctx, cmd)
	results, _ := args.Get(0).([]ports.AssignmentResult)
	return results, args.Error(1)
}

type MockReconciler struct{ mock.Mock }

func (m *MockReconciler) Handle(ctx context.Context, cmd commands.ReconcileSettlementsCommand) (commands.SweepReport, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.SweepReport), args.Error(1)
}

type MockRebuilder struct{ mock.Mock }

func (m *MockRebuilder) Handle(ctx context.Context, cmd commands.RebuildRegistryCommand) (commands.RebuildReport, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.RebuildReport), args.Error(1)
}

type MockSettler struct{ mock.Mock }

func (m *MockSettler) Handle(ctx context.Context, cmd commands.SettleOrderCommand) (commands.SettlementResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.SettlementResult), args.Error(1)
}

func TestMatchingJob_Run(t *testing.T) {
	matcher := new(MockMatcher)
	matcher.On("Handle", mock.Anything, mock.Anything).
		Return([]ports.AssignmentResult{{OrderID: kernel.NewUUID(), DriverID: kernel.NewUUID()}}, nil).Once()

	jobs.NewMatchingJob(matcher, "", logger.NewNop()).Run(context.Background())

	matcher.AssertExpectations(t)
}

func TestMatchingJob_RunsOnSchedule(t *testing.T) {
	matcher := new(MockMatcher)
	ran := make(chan struct{}, 1)
	matcher.On("Handle", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case ran <- struct{}{}:
			default:
			}
		}).
		Return(nil, nil)

	job := jobs.NewMatchingJob(matcher, "* * * * * *", logger.NewNop())
	require.NoError(t, job.Start())
	defer job.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("matching pass was not scheduled")
	}
}

func TestReconciliationJob_Run(t *testing.T) {
	reconciler := new(MockReconciler)
	reconciler.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ReconcileSettlementsCommand) bool {
		return cmd.BatchSize() == 100 && cmd.Concurrency() == 2
	})).Return(commands.SweepReport{Scanned: 1, Settled: 1}, nil).Once()

	jobs.NewReconciliationJob(reconciler, "", 100, 2, logger.NewNop()).Run(context.Background())

	reconciler.AssertExpectations(t)
}

func TestRegistryRebuildJob_Run(t *testing.T) {
	rebuilder := new(MockRebuilder)
	rebuilder.On("Handle", mock.Anything, mock.Anything).Return(commands.RebuildReport{}, errors.New("registry down")).Once()

	jobs.NewRegistryRebuildJob(rebuilder, "", logger.NewNop()).Run(context.Background())

	rebuilder.AssertExpectations(t)
}

func TestJobManager_StartAll_InvalidScheduleStopsStartedJobs(t *testing.T) {
	manager := jobs.NewJobManager(
		jobs.NewMatchingJob(new(MockMatcher), "0 0 1 1 * *", logger.NewNop()),
		jobs.NewReconciliationJob(new(MockReconciler), "not a schedule", 0, 0, logger.NewNop()),
	)

	err := manager.StartAll()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reconciliation")
	manager.StopAll()
}

func TestJobManager_StartAndStop(t *testing.T) {
	manager := jobs.NewJobManager(
		jobs.NewMatchingJob(new(MockMatcher), "0 0 1 1 * *", logger.NewNop()),
		jobs.NewReconciliationJob(new(MockReconciler), "0 0 1 1 * *", 0, 0, logger.NewNop()),
		jobs.NewRegistryRebuildJob(new(MockRebuilder), "0 0 1 1 * *", logger.NewNop()),
	)

	require.NoError(t, manager.StartAll())
	manager.StopAll()
}

func TestSettlementWorker_SettlesQueuedOrders(t *testing.T) {
	settler := new(MockSettler)
	orderID := kernel.NewUUID()
	done := make(chan struct{})
	settler.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.SettleOrderCommand) bool {
		return cmd.OrderID().IsEqual(orderID)
	})).
		Run(func(mock.Arguments) { close(done) }).
		Return(commands.SettlementResult{OrderID: orderID, Status: commands.SettlementApplied}, nil).Once()

	worker := jobs.NewSettlementWorker(settler, 4, 1, logger.NewNop())
	worker.Start(context.Background())
	defer worker.Stop()

	require.NoError(t, worker.RequestSettlement(context.Background(), orderID))

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("order was not settled")
	}
	settler.AssertExpectations(t)
}

func TestSettlementWorker_DropsWhenFull(t *testing.T) {
	worker := jobs.NewSettlementWorker(new(MockSettler), 1, 1, logger.NewNop())

	require.NoError(t, worker.RequestSettlement(context.Background(), kernel.NewUUID()))
	err := worker.RequestSettlement(context.Background(), kernel.NewUUID())

	assert.ErrorIs(t, err, jobs.ErrSettlementQueueFull)
}
