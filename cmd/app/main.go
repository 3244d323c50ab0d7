package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dispatch/api"
	"dispatch/cmd"
	httpin "dispatch/internal/adapters/in/http"
	outamqp "dispatch/internal/adapters/out/amqp"
	"dispatch/internal/adapters/out/postgres/migrations"
	"dispatch/internal/adapters/out/registry"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/logger"

	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := cmd.LoadConfig()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.ServiceName, cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, log.Logger)
	stop()

	if err != nil {
		log.Error("Dispatch service stopped with error", "error", err)
		_ = log.Sync()
		os.Exit(1)
	}
	log.Info("Dispatch service stopped")
	_ = log.Sync()
}

func run(ctx context.Context, cfg cmd.Config, log *slog.Logger) error {
	log.InfoContext(ctx, "Dispatch service starting", "env", cfg.AppEnv, "registry", cfg.RegistryDriver)

	if err := migrations.Up(cfg.DatabaseURL()); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	gormDB, err := gorm.Open(postgres.Open(cfg.DatabaseURL()), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		defer sqlDB.Close()
	}

	liveRegistry, closeRegistry, err := openRegistry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open live registry: %w", err)
	}
	defer closeRegistry()

	var broker *outamqp.Broker
	if cfg.AMQPURL != "" {
		broker, err = outamqp.Dial(ctx, cfg.AMQPURL, log)
		if err != nil {
			return err
		}
		defer broker.Close()
		if err = broker.SetupTopology(ctx); err != nil {
			return fmt.Errorf("declare rabbitmq topology: %w", err)
		}
	} else {
		log.WarnContext(ctx, "AMQP_URL not set, settling in-process")
	}

	app, err := cmd.NewCompositionRoot(cfg, log, gormDB, liveRegistry, broker)
	if err != nil {
		return err
	}

	// The live registry may be empty or stale after a restart.
	report, err := app.CreateRebuildRegistryCommandHandler().Handle(ctx, commands.NewRebuildRegistryCommand())
	if err != nil {
		log.WarnContext(ctx, "Initial registry rebuild failed", "error", err)
	} else {
		log.InfoContext(ctx, "Live registry rebuilt",
			"enqueued", report.Enqueued, "available", report.Available, "made_unavailable", report.MadeUnavailable)
	}

	if worker := app.SettlementWorker(); worker != nil {
		worker.Start(ctx)
		defer worker.Stop()
	}
	if consumer := app.CreateSettlementConsumer(); consumer != nil {
		if err = consumer.Start(ctx); err != nil {
			return fmt.Errorf("start settlement consumer: %w", err)
		}
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return fmt.Errorf("start jobs: %w", err)
	}
	defer jobManager.StopAll()

	doc, err := api.Load()
	if err != nil {
		return fmt.Errorf("load openapi document: %w", err)
	}
	e, err := httpin.NewRouter(app.CreateHTTPServer(), httpin.RouterConfig{
		Doc:       doc,
		JWTSecret: []byte(cfg.JWTSecret),
		Logger:    log,
	})
	if err != nil {
		return err
	}
	if cfg.JWTSecret == "" {
		log.WarnContext(ctx, "JWT_SECRET not set, operator endpoints are locked")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := fmt.Sprintf("0.0.0.0:%d", cfg.HTTPPort)
		log.InfoContext(gctx, "HTTP server listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openRegistry returns the configured live registry and a function releasing it.
func openRegistry(ctx context.Context, cfg cmd.Config) (ports.LiveRegistry, func(), error) {
	if cfg.RegistryDriver != cmd.RegistryPostgres {
		return registry.NewMemory(), func() {}, nil
	}

	pool, err := registry.Connect(ctx, cfg.DatabaseURL())
	if err != nil {
		return nil, nil, err
	}
	return registry.NewPostgres(pool), pool.Close, nil
}
