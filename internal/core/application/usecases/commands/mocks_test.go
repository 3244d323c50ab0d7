package commands_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/wallet"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByIDs(ctx context.Context, ids []kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) MarkIntegrityError(ctx context.Context, id kernel.UUID, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

func (m *MockOrderRepository) GetAllDispatchable(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetUnsettledDelivered(ctx context.Context, limit int) ([]kernel.UUID, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

func (m *MockOrderRepository) CompareAndAssign(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) CompareAndTransition(ctx context.Context, o *order.Order, from order.Status) error {
	return m.Called(ctx, o, from).Error(0)
}

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) Add(ctx context.Context, d *driver.Driver) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDriverRepository) Update(ctx context.Context, d *driver.Driver) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

func (m *MockDriverRepository) GetAllEligible(ctx context.Context) ([]*driver.Driver, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*driver.Driver), args.Error(1)
}

func (m *MockDriverRepository) CompareAndClaim(ctx context.Context, d *driver.Driver) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDriverRepository) CompareAndRelease(ctx context.Context, d *driver.Driver, orderID kernel.UUID) error {
	return m.Called(ctx, d, orderID).Error(0)
}

type MockWalletRepository struct{ mock.Mock }

func (m *MockWalletRepository) GetOrCreateForUpdate(ctx context.Context, owner wallet.Owner) (*wallet.Wallet, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Find(ctx context.Context, owner wallet.Owner) (*wallet.Wallet, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Save(ctx context.Context, w *wallet.Wallet) error {
	return m.Called(ctx, w).Error(0)
}

func (m *MockWalletRepository) CompletedTransactionTypes(ctx context.Context, orderID kernel.UUID) ([]wallet.TransactionType, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]wallet.TransactionType), args.Error(1)
}

func (m *MockWalletRepository) AddTransaction(ctx context.Context, tx wallet.Transaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockWalletRepository) AddLedgerEntry(ctx context.Context, entry wallet.LedgerEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockWalletRepository) LedgerEntries(ctx context.Context, orderID kernel.UUID) ([]wallet.LedgerEntry, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]wallet.LedgerEntry), args.Error(1)
}

type MockUoW struct {
	mock.Mock
	orders  *MockOrderRepository
	drivers *MockDriverRepository
	wallets *MockWalletRepository
}

func newMockUoW() *MockUoW {
	return &MockUoW{
		orders:  new(MockOrderRepository),
		drivers: new(MockDriverRepository),
		wallets: new(MockWalletRepository),
	}
}

func (m *MockUoW) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	return m.orders
}

func (m *MockUoW) DriverRepository() ports.DriverRepository {
	return m.drivers
}

func (m *MockUoW) WalletRepository() ports.WalletRepository {
	return m.wallets
}

// expectTx registers Begin, an optional Commit and the deferred Rollback.
func (m *MockUoW) expectTx(ctx context.Context, commit bool) {
	m.On("Begin", ctx).Return(nil).Once()
	if commit {
		m.On("Commit", ctx).Return(nil).Once()
	}
	m.On("Rollback", ctx).Return(nil).Maybe()
}

func (m *MockUoW) assertAll(t mock.TestingT) {
	m.AssertExpectations(t)
	m.orders.AssertExpectations(t)
	m.drivers.AssertExpectations(t)
	m.wallets.AssertExpectations(t)
}

type uowFactory struct{ uow *MockUoW }

func (f uowFactory) Create() commands.UoW {
	return f.uow
}

type orderUoWFactory struct{ uow *MockUoW }

func (f orderUoWFactory) Create() commands.OrderUoW {
	return f.uow
}

type driverUoWFactory struct{ uow *MockUoW }

func (f driverUoWFactory) Create() commands.DriverUoW {
	return f.uow
}

type MockLiveRegistry struct{ mock.Mock }

func (m *MockLiveRegistry) EnqueuePending(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLiveRegistry) DequeuePending(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLiveRegistry) ListPending(ctx context.Context) ([]kernel.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

func (m *MockLiveRegistry) MarkAvailable(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLiveRegistry) MarkUnavailable(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLiveRegistry) ListAvailable(ctx context.Context) ([]kernel.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

func (m *MockLiveRegistry) SetLocation(ctx context.Context, id kernel.UUID, point kernel.GeoPoint, at time.Time) error {
	return m.Called(ctx, id, point, at).Error(0)
}

func (m *MockLiveRegistry) GetLocation(ctx context.Context, id kernel.UUID) (driver.Position, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(driver.Position), args.Bool(1), args.Error(2)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) PublishAssignment(ctx context.Context, result ports.AssignmentResult) error {
	return m.Called(ctx, result).Error(0)
}

type MockSettlementRequester struct{ mock.Mock }

func (m *MockSettlementRequester) RequestSettlement(ctx context.Context, orderID kernel.UUID) error {
	return m.Called(ctx, orderID).Error(0)
}

type MockAssigner struct{ mock.Mock }

func (m *MockAssigner) Handle(ctx context.Context, cmd commands.AssignDriverCommand) (time.Time, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(time.Time), args.Error(1)
}

type MockSettler struct{ mock.Mock }

func (m *MockSettler) Handle(ctx context.Context, cmd commands.SettleOrderCommand) (commands.SettlementResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.SettlementResult), args.Error(1)
}
