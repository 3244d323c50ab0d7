package commands_test

import (
	"errors"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegisterDriverCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewRegisterDriverCommand(kernel.NewUUID(), kernel.NewUUID(), 4.8, 0)
	require.NoError(t, err)

	uow := newMockUoW()
	uow.expectTx(ctx, true)
	uow.drivers.On("Add", ctx, mock.MatchedBy(func(d *driver.Driver) bool {
		return d.ID() == cmd.DriverID() &&
			d.Status() == driver.Offline &&
			d.MaxConcurrentOrders() == driver.DefaultMaxConcurrentOrders
	})).Return(nil).Once()

	err = commands.NewRegisterDriverCommandHandler(driverUoWFactory{uow}).Handle(ctx, cmd)

	require.NoError(t, err)
	uow.assertAll(t)
}

func TestRegisterDriverCommandHandler_Handle_InvalidRating(t *testing.T) {
	cmd, err := commands.NewRegisterDriverCommand(kernel.NewUUID(), kernel.NewUUID(), 7, 0)
	require.NoError(t, err)

	uow := newMockUoW()
	err = commands.NewRegisterDriverCommandHandler(driverUoWFactory{uow}).Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	uow.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestDriverShiftCommandHandler_HandleCheckIn(t *testing.T) {
	ctx := t.Context()
	d, err := driver.NewDriver(kernel.NewUUID(), kernel.NewUUID(), 4.2, 0)
	require.NoError(t, err)
	cmd, err := commands.NewCheckInDriverCommand(d.ID())
	require.NoError(t, err)

	uow := newMockUoW()
	registry := new(MockLiveRegistry)
	uow.expectTx(ctx, true)
	uow.drivers.On("Get", ctx, d.ID()).Return(d, nil).Once()
	uow.drivers.On("Update", ctx, d).Return(nil).Once()
	registry.On("MarkAvailable", ctx, d.ID()).Return(nil).Once()

	err = commands.NewDriverShiftCommandHandler(driverUoWFactory{uow}, registry, discardLogger()).HandleCheckIn(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, driver.CheckIn, d.Status())
	uow.assertAll(t)
	registry.AssertExpectations(t)
}

func TestDriverShiftCommandHandler_HandleCheckOut_WhileDelivering(t *testing.T) {
	ctx := t.Context()
	d := newCheckedInDriver(t)
	require.NoError(t, d.TakeOrder(kernel.NewUUID()))
	cmd, err := commands.NewCheckOutDriverCommand(d.ID())
	require.NoError(t, err)

	uow := newMockUoW()
	registry := new(MockLiveRegistry)
	uow.expectTx(ctx, false)
	uow.drivers.On("Get", ctx, d.ID()).Return(d, nil).Once()

	err = commands.NewDriverShiftCommandHandler(driverUoWFactory{uow}, registry, discardLogger()).HandleCheckOut(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	assert.Equal(t, driver.CheckIn, d.Status())
	registry.AssertNotCalled(t, "MarkUnavailable", mock.Anything, mock.Anything)
}

func TestDriverShiftCommandHandler_HandleCheckOut(t *testing.T) {
	ctx := t.Context()
	d := newCheckedInDriver(t)
	cmd, err := commands.NewCheckOutDriverCommand(d.ID())
	require.NoError(t, err)

	uow := newMockUoW()
	registry := new(MockLiveRegistry)
	uow.expectTx(ctx, true)
	uow.drivers.On("Get", ctx, d.ID()).Return(d, nil).Once()
	uow.drivers.On("Update", ctx, d).Return(nil).Once()
	registry.On("MarkUnavailable", ctx, d.ID()).Return(errors.New("timeout")).Once()

	err = commands.NewDriverShiftCommandHandler(driverUoWFactory{uow}, registry, discardLogger()).HandleCheckOut(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, driver.Offline, d.Status())
}

func TestNewUpdateDriverLocationCommand(t *testing.T) {
	_, err := commands.NewUpdateDriverLocationCommand(kernel.NewUUID(), 95, 0, time.Now())
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = commands.NewUpdateDriverLocationCommand(kernel.NewUUID(), 40, -74, time.Time{})
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestUpdateDriverLocationCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	at := time.Now()
	cmd, err := commands.NewUpdateDriverLocationCommand(kernel.NewUUID(), 40.01, -74.0, at)
	require.NoError(t, err)

	registry := new(MockLiveRegistry)
	registry.On("SetLocation", ctx, cmd.DriverID(), cmd.Point(), cmd.At()).Return(errors.New("timeout")).Once()

	err = commands.NewUpdateDriverLocationCommandHandler(registry, discardLogger()).Handle(ctx, cmd)

	require.NoError(t, err)
	registry.AssertExpectations(t)
}
