package commands_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/wallet"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// memoryStore keeps committed aggregates for handlers that must be run against shared
// state. Reads see committed data only. Writes are staged on the unit of work and applied
// at commit, where conditional writes are checked again under the store lock.
type memoryStore struct {
	mu           sync.Mutex
	orders       map[kernel.UUID]order.Order
	drivers      map[kernel.UUID]driver.Driver
	wallets      map[string]wallet.Wallet
	transactions []wallet.Transaction
	ledger       []wallet.LedgerEntry
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		orders:  make(map[kernel.UUID]order.Order),
		drivers: make(map[kernel.UUID]driver.Driver),
		wallets: make(map[string]wallet.Wallet),
	}
}

func (s *memoryStore) putOrder(o *order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID()] = *o
}

func (s *memoryStore) putDriver(d *driver.Driver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drivers[d.ID()] = *d
}

func (s *memoryStore) putWallet(w *wallet.Wallet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets[w.Owner().String()] = *w
}

func (s *memoryStore) order(id kernel.UUID) (*order.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	return &o, ok
}

func (s *memoryStore) driver(id kernel.UUID) (*driver.Driver, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drivers[id]
	return &d, ok
}

func (s *memoryStore) wallet(owner wallet.Owner) (*wallet.Wallet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[owner.String()]
	return &w, ok
}

func (s *memoryStore) completed(orderID kernel.UUID) []wallet.TransactionType {
	var types []wallet.TransactionType
	for _, tx := range s.transactions {
		if tx.OrderID != nil && tx.OrderID.IsEqual(orderID) && tx.Status == wallet.StatusCompleted {
			types = append(types, tx.Type)
		}
	}
	return types
}

func (s *memoryStore) Create() commands.UoW {
	return &memoryUoW{store: s}
}

type stagedWrite struct {
	// check runs under the store lock before any write of the transaction is applied.
	check func() error
	apply func()
}

type memoryUoW struct {
	store  *memoryStore
	active bool
	writes []stagedWrite
}

func (u *memoryUoW) Begin(context.Context) error {
	u.active = true
	u.writes = nil
	return nil
}

func (u *memoryUoW) Commit(context.Context) error {
	if !u.active {
		return errors.New("commit without begin")
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	writes := u.writes
	u.active, u.writes = false, nil
	for _, w := range writes {
		if w.check == nil {
			continue
		}
		if err := w.check(); err != nil {
			return err
		}
	}
	for _, w := range writes {
		w.apply()
	}
	return nil
}

func (u *memoryUoW) Rollback(context.Context) error {
	u.active, u.writes = false, nil
	return nil
}

func (u *memoryUoW) stage(check func() error, apply func()) {
	u.writes = append(u.writes, stagedWrite{check: check, apply: apply})
}

func (u *memoryUoW) OrderRepository() ports.OrderRepository   { return memoryOrders{u} }
func (u *memoryUoW) DriverRepository() ports.DriverRepository { return memoryDrivers{u} }
func (u *memoryUoW) WalletRepository() ports.WalletRepository { return memoryWallets{u} }

type memoryOrders struct{ uow *memoryUoW }

func (r memoryOrders) Add(_ context.Context, o *order.Order) error {
	snapshot := *o
	r.uow.stage(nil, func() { r.uow.store.orders[o.ID()] = snapshot })
	return nil
}

func (r memoryOrders) Update(_ context.Context, o *order.Order) error {
	snapshot := *o
	r.uow.stage(nil, func() { r.uow.store.orders[o.ID()] = snapshot })
	return nil
}

func (r memoryOrders) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	o, ok := r.uow.store.order(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	return o, nil
}

func (r memoryOrders) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.Get(ctx, id)
}

func (r memoryOrders) GetByIDs(_ context.Context, ids []kernel.UUID) ([]*order.Order, error) {
	var found []*order.Order
	for _, id := range ids {
		if o, ok := r.uow.store.order(id); ok {
			found = append(found, o)
		}
	}
	return found, nil
}

func (r memoryOrders) MarkIntegrityError(_ context.Context, id kernel.UUID, reason string) error {
	r.uow.stage(nil, func() {
		if o, ok := r.uow.store.orders[id]; ok {
			o.MarkIntegrityError(reason)
			r.uow.store.orders[id] = o
		}
	})
	return nil
}

func (r memoryOrders) GetAllDispatchable(context.Context) ([]*order.Order, error) {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	var found []*order.Order
	for _, o := range r.uow.store.orders {
		if o.Status() == order.Pending && !o.HasIntegrityError() {
			found = append(found, &o)
		}
	}
	return found, nil
}

func (r memoryOrders) GetUnsettledDelivered(_ context.Context, limit int) ([]kernel.UUID, error) {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	var ids []kernel.UUID
	for id, o := range r.uow.store.orders {
		if len(ids) == limit {
			break
		}
		if o.Status() != order.Delivered || o.DriverID() == nil || o.HasIntegrityError() {
			continue
		}
		done := r.uow.store.completed(id)
		for _, t := range wallet.SettlementTypes {
			if !slices.Contains(done, t) {
				ids = append(ids, id)
				break
			}
		}
	}
	return ids, nil
}

func (r memoryOrders) CompareAndAssign(_ context.Context, o *order.Order) error {
	snapshot := *o
	r.uow.stage(func() error {
		stored := r.uow.store.orders[o.ID()]
		if stored.Status() != order.Pending || stored.DriverID() != nil {
			return errs.NewConcurrencyConflict("order %s is no longer pending", o.ID())
		}
		return nil
	}, func() { r.uow.store.orders[o.ID()] = snapshot })
	return nil
}

func (r memoryOrders) CompareAndTransition(_ context.Context, o *order.Order, from order.Status) error {
	snapshot := *o
	r.uow.stage(func() error {
		if stored := r.uow.store.orders[o.ID()]; stored.Status() != from {
			return errs.NewConcurrencyConflict("order %s left %s", o.ID(), from)
		}
		return nil
	}, func() { r.uow.store.orders[o.ID()] = snapshot })
	return nil
}

type memoryDrivers struct{ uow *memoryUoW }

func (r memoryDrivers) Add(_ context.Context, d *driver.Driver) error {
	snapshot := *d
	r.uow.stage(nil, func() { r.uow.store.drivers[d.ID()] = snapshot })
	return nil
}

func (r memoryDrivers) Update(ctx context.Context, d *driver.Driver) error {
	return r.Add(ctx, d)
}

func (r memoryDrivers) Get(_ context.Context, id kernel.UUID) (*driver.Driver, error) {
	d, ok := r.uow.store.driver(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("driver", id)
	}
	return d, nil
}

func (r memoryDrivers) GetAllEligible(context.Context) ([]*driver.Driver, error) {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	var found []*driver.Driver
	for _, d := range r.uow.store.drivers {
		if d.IsEligible() {
			found = append(found, &d)
		}
	}
	return found, nil
}

func (r memoryDrivers) CompareAndClaim(_ context.Context, d *driver.Driver) error {
	snapshot := *d
	r.uow.stage(func() error {
		stored := r.uow.store.drivers[d.ID()]
		if stored.CurrentOrderID() != nil || !stored.HasCapacity() {
			return errs.NewConcurrencyConflict("driver %s is no longer free", d.ID())
		}
		return nil
	}, func() { r.uow.store.drivers[d.ID()] = snapshot })
	return nil
}

func (r memoryDrivers) CompareAndRelease(_ context.Context, d *driver.Driver, orderID kernel.UUID) error {
	snapshot := *d
	r.uow.stage(func() error {
		stored := r.uow.store.drivers[d.ID()]
		if current := stored.CurrentOrderID(); current == nil || !current.IsEqual(orderID) {
			return errs.NewConcurrencyConflict("driver %s no longer carries order %s", d.ID(), orderID)
		}
		return nil
	}, func() { r.uow.store.drivers[d.ID()] = snapshot })
	return nil
}

type memoryWallets struct{ uow *memoryUoW }

func (r memoryWallets) GetOrCreateForUpdate(_ context.Context, owner wallet.Owner) (*wallet.Wallet, error) {
	if w, ok := r.uow.store.wallet(owner); ok {
		return w, nil
	}
	return wallet.NewWallet(kernel.NewUUID(), owner)
}

func (r memoryWallets) Find(_ context.Context, owner wallet.Owner) (*wallet.Wallet, error) {
	w, ok := r.uow.store.wallet(owner)
	if !ok {
		return nil, errs.NewObjectNotFoundError("wallet", owner.String())
	}
	return w, nil
}

func (r memoryWallets) Save(_ context.Context, w *wallet.Wallet) error {
	snapshot := *w
	r.uow.stage(nil, func() { r.uow.store.wallets[w.Owner().String()] = snapshot })
	return nil
}

func (r memoryWallets) CompletedTransactionTypes(_ context.Context, orderID kernel.UUID) ([]wallet.TransactionType, error) {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	return r.uow.store.completed(orderID), nil
}

func (r memoryWallets) AddTransaction(_ context.Context, tx wallet.Transaction) error {
	r.uow.stage(func() error {
		if tx.OrderID != nil && slices.Contains(r.uow.store.completed(*tx.OrderID), tx.Type) {
			return fmt.Errorf("%w: %s", errs.ErrSettlementConflict, tx.Type)
		}
		return nil
	}, func() { r.uow.store.transactions = append(r.uow.store.transactions, tx) })
	return nil
}

func (r memoryWallets) AddLedgerEntry(_ context.Context, entry wallet.LedgerEntry) error {
	r.uow.stage(nil, func() { r.uow.store.ledger = append(r.uow.store.ledger, entry) })
	return nil
}

func (r memoryWallets) LedgerEntries(_ context.Context, orderID kernel.UUID) ([]wallet.LedgerEntry, error) {
	r.uow.store.mu.Lock()
	defer r.uow.store.mu.Unlock()
	var entries []wallet.LedgerEntry
	for _, e := range r.uow.store.ledger {
		if e.OrderID.IsEqual(orderID) {
			entries = append(entries, e)
		}
	}
	return entries, nil
}
