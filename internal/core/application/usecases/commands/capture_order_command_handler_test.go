package commands_test

import (
	"errors"
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/wallet"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func captureHandler(t *testing.T, uow *MockUoW, registry *MockLiveRegistry) commands.CaptureOrderCommandHandler {
	t.Helper()
	defaults := services.SettlementDefaults{PlatformFeeRate: rate(t, 10), DriverCommissionRate: rate(t, 30)}
	return commands.NewCaptureOrderCommandHandler(uowFactory{uow}, registry, defaults, discardLogger())
}

func TestCaptureOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCaptureOrderCommand(validCaptureParams())
	require.NoError(t, err)

	uow := newMockUoW()
	registry := new(MockLiveRegistry)
	system := newSystemWallet(t, 0)

	uow.expectTx(ctx, true)
	mock.InOrder(
		uow.wallets.On("CompletedTransactionTypes", ctx, cmd.OrderID()).Return([]wallet.TransactionType{}, nil).Once(),
		uow.orders.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.wallets.On("GetOrCreateForUpdate", ctx, wallet.SystemOwner()).Return(system, nil).Once(),
		uow.wallets.On("Save", ctx, system).Return(nil).Once(),
		uow.wallets.On("AddTransaction", ctx, mock.MatchedBy(func(tx wallet.Transaction) bool {
			return tx.Type == wallet.TypeDeposit && tx.Amount == 65000 && tx.WalletID == system.ID()
		})).Return(nil).Once(),
		uow.wallets.On("AddLedgerEntry", ctx, mock.MatchedBy(func(e wallet.LedgerEntry) bool {
			return e.From == wallet.AccountCapture && e.To == wallet.AccountEscrow && e.Amount == 65000
		})).Return(nil).Once(),
	)
	registry.On("EnqueuePending", ctx, cmd.OrderID()).Return(nil).Once()

	err = captureHandler(t, uow, registry).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, kernel.Money(65000), system.EscrowBalance())
	assert.Equal(t, kernel.Money(0), system.Balance())
	uow.assertAll(t)
	registry.AssertExpectations(t)
}

func TestCaptureOrderCommandHandler_Handle_AlreadyCaptured(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCaptureOrderCommand(validCaptureParams())
	require.NoError(t, err)

	uow := newMockUoW()
	registry := new(MockLiveRegistry)

	uow.expectTx(ctx, false)
	uow.wallets.On("CompletedTransactionTypes", ctx, cmd.OrderID()).
		Return([]wallet.TransactionType{wallet.TypeDeposit}, nil).Once()

	err = captureHandler(t, uow, registry).Handle(ctx, cmd)

	require.NoError(t, err)
	uow.orders.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	registry.AssertNotCalled(t, "EnqueuePending", mock.Anything, mock.Anything)
}

func TestCaptureOrderCommandHandler_Handle_RegistryFailureIsNotFatal(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCaptureOrderCommand(validCaptureParams())
	require.NoError(t, err)

	uow := newMockUoW()
	registry := new(MockLiveRegistry)
	system := newSystemWallet(t, 0)

	uow.expectTx(ctx, true)
	uow.wallets.On("CompletedTransactionTypes", ctx, cmd.OrderID()).Return(nil, nil).Once()
	uow.orders.On("Add", ctx, mock.Anything).Return(nil).Once()
	uow.wallets.On("GetOrCreateForUpdate", ctx, wallet.SystemOwner()).Return(system, nil).Once()
	uow.wallets.On("Save", ctx, system).Return(nil).Once()
	uow.wallets.On("AddTransaction", ctx, mock.Anything).Return(nil).Once()
	uow.wallets.On("AddLedgerEntry", ctx, mock.Anything).Return(nil).Once()
	registry.On("EnqueuePending", ctx, cmd.OrderID()).Return(errors.New("connection refused")).Once()

	err = captureHandler(t, uow, registry).Handle(ctx, cmd)

	require.NoError(t, err)
	uow.assertAll(t)
}

func TestCaptureOrderCommandHandler_Handle_AddFails(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCaptureOrderCommand(validCaptureParams())
	require.NoError(t, err)

	uow := newMockUoW()
	registry := new(MockLiveRegistry)

	uow.expectTx(ctx, false)
	uow.wallets.On("CompletedTransactionTypes", ctx, cmd.OrderID()).Return(nil, nil).Once()
	uow.orders.On("Add", ctx, mock.Anything).Return(errors.New("insert failed")).Once()

	err = captureHandler(t, uow, registry).Handle(ctx, cmd)

	require.EqualError(t, err, "insert failed")
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	uow.AssertCalled(t, "Rollback", ctx)
}

func TestCaptureOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	uow := newMockUoW()
	registry := new(MockLiveRegistry)

	err := captureHandler(t, uow, registry).Handle(t.Context(), commands.CaptureOrderCommand{})

	require.ErrorIs(t, err, commands.ErrCaptureOrderCommandIsNotConstructed)
	uow.AssertNotCalled(t, "Begin", mock.Anything)
}
