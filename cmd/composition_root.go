package cmd

import (
	"log/slog"

	inamqp "dispatch/internal/adapters/in/amqp"
	httpin "dispatch/internal/adapters/in/http"
	outamqp "dispatch/internal/adapters/out/amqp"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires use cases to adapters. Infrastructure (database, live registry,
// broker) is opened by the caller and handed in.
type CompositionRoot struct {
	cfg        Config
	logger     *slog.Logger
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	registry   ports.LiveRegistry

	// broker is nil when AMQP is disabled; settlement then runs on settlementWorker.
	broker           *outamqp.Broker
	publisher        ports.AssignmentPublisher
	settlement       ports.SettlementRequester
	settlementWorker *jobs.SettlementWorker

	matcher  services.DriverMatcher
	defaults services.SettlementDefaults
}

func NewCompositionRoot(
	cfg Config,
	logger *slog.Logger,
	gormDB *gorm.DB,
	registry ports.LiveRegistry,
	broker *outamqp.Broker,
) (*CompositionRoot, error) {
	policy, err := cfg.MatchPolicy()
	if err != nil {
		return nil, err
	}
	matcher, err := services.NewDriverMatcher(policy)
	if err != nil {
		return nil, err
	}
	defaults, err := cfg.SettlementDefaults()
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		cfg:        cfg,
		logger:     logger,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		registry:   registry,
		broker:     broker,
		matcher:    matcher,
		defaults:   defaults,
	}

	if broker != nil {
		publisher := outamqp.NewPublisher(broker)
		c.publisher = publisher
		c.settlement = publisher
	} else {
		c.publisher = outamqp.NewLogPublisher(logger)
		c.settlementWorker = jobs.NewSettlementWorker(
			c.CreateSettleOrderCommandHandler(), cfg.SettlementQueueSize, cfg.SettlementWorkers, logger,
		)
		c.settlement = c.settlementWorker
	}

	return c, nil
}

// SettlementWorker is nil when settlement requests go through the broker.
func (c *CompositionRoot) SettlementWorker() *jobs.SettlementWorker {
	return c.settlementWorker
}

func (c *CompositionRoot) CreateCaptureOrderCommandHandler() commands.CaptureOrderCommandHandler {
	return commands.NewCaptureOrderCommandHandler(c.unitOfWorkFactory(), c.registry, c.defaults, c.logger)
}

func (c *CompositionRoot) CreateAssignDriverCommandHandler() commands.AssignDriverCommandHandler {
	return commands.NewAssignDriverCommandHandler(c.unitOfWorkFactory(), c.registry, c.logger)
}

func (c *CompositionRoot) CreateMatchOrdersCommandHandler() commands.MatchOrdersCommandHandler {
	return commands.NewMatchOrdersCommandHandler(
		c.unitOfWorkFactory(),
		c.registry,
		c.matcher,
		c.CreateAssignDriverCommandHandler(),
		c.publisher,
		c.cfg.MaxAssignAttempts,
		c.logger,
	)
}

func (c *CompositionRoot) CreatePickUpOrderCommandHandler() commands.PickUpOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPickUpOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	return commands.NewCompleteDeliveryCommandHandler(c.unitOfWorkFactory(), c.registry, c.settlement, c.logger)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.unitOfWorkFactory(), c.registry, c.logger)
}

func (c *CompositionRoot) CreateSettleOrderCommandHandler() commands.SettleOrderCommandHandler {
	return commands.NewSettleOrderCommandHandler(c.unitOfWorkFactory(), services.NewSettlementCalculator(c.defaults), c.logger)
}

func (c *CompositionRoot) CreateReconcileSettlementsCommandHandler() commands.ReconcileSettlementsCommandHandler {
	return commands.NewReconcileSettlementsCommandHandler(c.unitOfWorkFactory(), c.CreateSettleOrderCommandHandler(), c.logger)
}

func (c *CompositionRoot) CreateRebuildRegistryCommandHandler() commands.RebuildRegistryCommandHandler {
	return commands.NewRebuildRegistryCommandHandler(c.unitOfWorkFactory(), c.registry, c.logger)
}

func (c *CompositionRoot) CreateRegisterDriverCommandHandler() commands.RegisterDriverCommandHandler {
	return commands.NewRegisterDriverCommandHandler(c.driverUnitOfWorkFactory())
}

func (c *CompositionRoot) CreateDriverShiftCommandHandler() commands.DriverShiftCommandHandler {
	return commands.NewDriverShiftCommandHandler(c.driverUnitOfWorkFactory(), c.registry, c.logger)
}

func (c *CompositionRoot) CreateUpdateDriverLocationCommandHandler() commands.UpdateDriverLocationCommandHandler {
	return commands.NewUpdateDriverLocationCommandHandler(c.registry, c.logger)
}

func (c *CompositionRoot) CreateGetPendingOrdersQueryHandler() queries.GetPendingOrdersQueryHandler {
	return queries.NewGetPendingOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetWalletBalanceQueryHandler() queries.GetWalletBalanceQueryHandler {
	return queries.NewGetWalletBalanceQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetWalletTransactionsQueryHandler() queries.GetWalletTransactionsQueryHandler {
	return queries.NewGetWalletTransactionsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetReconciliationReportQueryHandler() queries.GetReconciliationReportQueryHandler {
	return queries.NewGetReconciliationReportQueryHandler(c.gormDB)
}

// CreateHTTPServer builds the API server over every use case.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	handlers := httpin.Handlers{
		CaptureOrder:     c.CreateCaptureOrderCommandHandler(),
		PickUpOrder:      c.CreatePickUpOrderCommandHandler(),
		CompleteDelivery: c.CreateCompleteDeliveryCommandHandler(),
		CancelOrder:      c.CreateCancelOrderCommandHandler(),
		SettleOrder:      c.CreateSettleOrderCommandHandler(),

		RegisterDriver: c.CreateRegisterDriverCommandHandler(),
		DriverShifts:   c.CreateDriverShiftCommandHandler(),
		UpdateLocation: c.CreateUpdateDriverLocationCommandHandler(),

		MatchOrders:     c.CreateMatchOrdersCommandHandler(),
		Reconcile:       c.CreateReconcileSettlementsCommandHandler(),
		RebuildRegistry: c.CreateRebuildRegistryCommandHandler(),

		PendingOrders:        c.CreateGetPendingOrdersQueryHandler(),
		WalletBalance:        c.CreateGetWalletBalanceQueryHandler(),
		WalletTransactions:   c.CreateGetWalletTransactionsQueryHandler(),
		ReconciliationReport: c.CreateGetReconciliationReportQueryHandler(),
	}
	sweep := httpin.SweepSettings{BatchSize: c.cfg.SweepBatchSize, Concurrency: c.cfg.SweepConcurrency}
	return httpin.NewServer(handlers, sweep, c.logger)
}

// CreateJobManager schedules matching passes, the reconciliation sweep and registry rebuilds.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewMatchingJob(c.CreateMatchOrdersCommandHandler(), c.cfg.MatchingSchedule, c.logger),
		jobs.NewReconciliationJob(
			c.CreateReconcileSettlementsCommandHandler(),
			c.cfg.ReconcileSchedule,
			c.cfg.SweepBatchSize,
			c.cfg.SweepConcurrency,
			c.logger,
		),
		jobs.NewRegistryRebuildJob(c.CreateRebuildRegistryCommandHandler(), c.cfg.RebuildSchedule, c.logger),
	)
}

// CreateSettlementConsumer returns nil when AMQP is disabled.
func (c *CompositionRoot) CreateSettlementConsumer() *inamqp.SettlementConsumer {
	if c.broker == nil {
		return nil
	}
	return inamqp.NewSettlementConsumer(c.broker, c.CreateSettleOrderCommandHandler(), c.logger)
}

func (c *CompositionRoot) unitOfWorkFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) driverUnitOfWorkFactory() commands.DriverUoWFactory {
	return FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
}

type FuncDriverUoWFactory func() commands.DriverUoW

func (f FuncDriverUoWFactory) Create() commands.DriverUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
