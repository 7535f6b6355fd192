package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	alertapp "github.com/retail/backoffice/internal/application/alert"
	catalogapp "github.com/retail/backoffice/internal/application/catalog"
	ledgerapp "github.com/retail/backoffice/internal/application/ledger"
	reportapp "github.com/retail/backoffice/internal/application/report"
	tradeapp "github.com/retail/backoffice/internal/application/trade"
	"github.com/retail/backoffice/internal/infrastructure/cache"
	"github.com/retail/backoffice/internal/infrastructure/config"
	"github.com/retail/backoffice/internal/infrastructure/event"
	"github.com/retail/backoffice/internal/infrastructure/logger"
	"github.com/retail/backoffice/internal/infrastructure/persistence"
	"github.com/retail/backoffice/internal/infrastructure/telemetry"
	"github.com/retail/backoffice/internal/interfaces/http/handler"
	"github.com/retail/backoffice/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("starting backoffice",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracer, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("failed to initialize telemetry", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()
	log.Info("database connected")

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	batchRepo := persistence.NewGormStockBatchRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	adjustmentRepo := persistence.NewGormStockAdjustmentRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	reportRepo := persistence.NewGormProfitReportRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	// Event bus
	bus := event.NewInMemoryEventBus(log)
	if err := bus.Start(ctx); err != nil {
		log.Fatal("failed to start event bus", zap.Error(err))
	}
	defer func() {
		_ = bus.Stop(context.Background())
	}()

	// Low-stock snapshot cache. The service degrades to direct reads
	// when Redis is unavailable.
	var snapshotCache alertapp.SnapshotCache
	redisCache, err := cache.NewRedisSnapshotCache(&cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, low stock snapshots will not be cached", zap.Error(err))
	} else {
		snapshotCache = redisCache
		defer func() {
			_ = redisCache.Close()
		}()
	}

	// Application services
	deductionSvc := ledgerapp.NewDeductionService(scope, bus, log)
	conversionSvc := ledgerapp.NewConversionService(scope, deductionSvc, bus, log)
	adjustmentSvc := ledgerapp.NewAdjustmentService(scope, deductionSvc, bus, log)
	productSvc := catalogapp.NewProductService(productRepo, bus, log)
	salesSvc := tradeapp.NewSalesService(scope, deductionSvc, saleRepo, bus, log)
	profitSvc := reportapp.NewProfitService(reportRepo, log)
	lowStockSvc := alertapp.NewLowStockService(productRepo, snapshotCache, cfg.Alert.SnapshotTTL, log)

	if snapshotCache != nil {
		if err := bus.Subscribe(alertapp.NewRefreshHandler(snapshotCache, log)); err != nil {
			log.Fatal("failed to subscribe snapshot refresh handler", zap.Error(err))
		}
	}

	// HTTP
	r := router.New(cfg, log)
	r.Register(handler.NewSystemHandler(db)).
		Register(handler.NewProductHandler(productSvc)).
		Register(handler.NewStockHandler(deductionSvc, conversionSvc, adjustmentSvc, lowStockSvc, batchRepo, movementRepo, adjustmentRepo)).
		Register(handler.NewSalesHandler(salesSvc)).
		Register(handler.NewReportHandler(profitSvc))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        r.Setup(),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
	if err := tracer.Shutdown(shutdownCtx); err != nil {
		log.Error("tracer shutdown failed", zap.Error(err))
	}

	log.Info("stopped")
}
