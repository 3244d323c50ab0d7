package commands_test

import (
	"errors"
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewReconcileSettlementsCommand(t *testing.T) {
	cmd, err := commands.NewReconcileSettlementsCommand(0, 0)
	require.NoError(t, err)
	assert.Equal(t, commands.DefaultSweepBatchSize, cmd.BatchSize())
	assert.Equal(t, commands.DefaultSweepConcurrency, cmd.Concurrency())

	_, err = commands.NewReconcileSettlementsCommand(-1, -2)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Contains(t, err.Error(), "batchSize")
	assert.Contains(t, err.Error(), "concurrency")
}

func forOrder(id kernel.UUID) any {
	return mock.MatchedBy(func(cmd commands.SettleOrderCommand) bool { return cmd.OrderID() == id })
}

func TestReconcileSettlementsCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	settled, raced, broken := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()

	uow := newMockUoW()
	uow.orders.On("GetUnsettledDelivered", ctx, 100).Return([]kernel.UUID{settled, raced, broken}, nil).Once()

	settler := new(MockSettler)
	settler.On("Handle", mock.Anything, forOrder(settled)).
		Return(commands.SettlementResult{OrderID: settled, Status: commands.SettlementApplied}, nil).Once()
	settler.On("Handle", mock.Anything, forOrder(raced)).
		Return(commands.SettlementResult{OrderID: raced, Status: commands.SettlementSkipped}, nil).Once()
	settler.On("Handle", mock.Anything, forOrder(broken)).
		Return(commands.SettlementResult{}, errs.NewDataIntegrityError("order", broken.String(), "insufficient escrow balance")).Once()

	cmd, err := commands.NewReconcileSettlementsCommand(100, 2)
	require.NoError(t, err)

	report, err := commands.NewReconcileSettlementsCommandHandler(uowFactory{uow}, settler, discardLogger()).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 1, report.Settled)
	assert.Equal(t, 1, report.Skipped)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, broken, report.Failed[0].OrderID)
	assert.Contains(t, report.Failed[0].Error, "insufficient escrow")
	settler.AssertExpectations(t)
	uow.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestReconcileSettlementsCommandHandler_Handle_NothingToDo(t *testing.T) {
	ctx := t.Context()
	uow := newMockUoW()
	uow.orders.On("GetUnsettledDelivered", ctx, commands.DefaultSweepBatchSize).Return([]kernel.UUID{}, nil).Once()
	settler := new(MockSettler)

	cmd, err := commands.NewReconcileSettlementsCommand(0, 0)
	require.NoError(t, err)

	report, err := commands.NewReconcileSettlementsCommandHandler(uowFactory{uow}, settler, discardLogger()).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Zero(t, report.Scanned)
	assert.Empty(t, report.Failed)
	settler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestReconcileSettlementsCommandHandler_Handle_QueryFails(t *testing.T) {
	ctx := t.Context()
	uow := newMockUoW()
	uow.orders.On("GetUnsettledDelivered", ctx, commands.DefaultSweepBatchSize).Return(nil, errors.New("db down")).Once()

	cmd, err := commands.NewReconcileSettlementsCommand(0, 0)
	require.NoError(t, err)

	_, err = commands.NewReconcileSettlementsCommandHandler(uowFactory{uow}, new(MockSettler), discardLogger()).Handle(ctx, cmd)

	require.EqualError(t, err, "db down")
}
