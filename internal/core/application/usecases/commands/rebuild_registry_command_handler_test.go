package commands_test

import (
	"errors"
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebuildRegistryCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	first, second := newPendingOrder(t), newPendingOrder(t)
	d := newCheckedInDriver(t)
	stale := kernel.NewUUID()

	uow := newMockUoW()
	uow.orders.On("GetAllDispatchable", ctx).Return([]*order.Order{first, second}, nil).Once()
	uow.drivers.On("GetAllEligible", ctx).Return([]*driver.Driver{d}, nil).Once()

	registry := new(MockLiveRegistry)
	registry.On("EnqueuePending", ctx, first.ID()).Return(nil).Once()
	registry.On("EnqueuePending", ctx, second.ID()).Return(nil).Once()
	registry.On("MarkAvailable", ctx, d.ID()).Return(nil).Once()
	registry.On("ListAvailable", ctx).Return([]kernel.UUID{d.ID(), stale}, nil).Once()
	registry.On("MarkUnavailable", ctx, stale).Return(nil).Once()

	report, err := commands.NewRebuildRegistryCommandHandler(uowFactory{uow}, registry, discardLogger()).
		Handle(ctx, commands.NewRebuildRegistryCommand())

	require.NoError(t, err)
	assert.Equal(t, commands.RebuildReport{Enqueued: 2, Available: 1, MadeUnavailable: 1}, report)
	registry.AssertExpectations(t)
	uow.assertAll(t)
}

func TestRebuildRegistryCommandHandler_Handle_RegistryDown(t *testing.T) {
	ctx := t.Context()
	o := newPendingOrder(t)

	uow := newMockUoW()
	uow.orders.On("GetAllDispatchable", ctx).Return([]*order.Order{o}, nil).Once()
	uow.drivers.On("GetAllEligible", ctx).Return([]*driver.Driver{}, nil).Once()

	registry := new(MockLiveRegistry)
	registry.On("EnqueuePending", ctx, o.ID()).Return(errors.New("connection refused")).Once()

	report, err := commands.NewRebuildRegistryCommandHandler(uowFactory{uow}, registry, discardLogger()).
		Handle(ctx, commands.NewRebuildRegistryCommand())

	require.EqualError(t, err, "connection refused")
	assert.Zero(t, report.Enqueued)
}
