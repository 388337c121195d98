package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"

	"github.com/jhoicas/hrims-stock/internal/application/directory"
	"github.com/jhoicas/hrims-stock/internal/application/inventory"
	"github.com/jhoicas/hrims-stock/internal/application/lowstock"
	"github.com/jhoicas/hrims-stock/internal/application/notification"
	"github.com/jhoicas/hrims-stock/internal/application/request"
	"github.com/jhoicas/hrims-stock/internal/application/transfer"
	"github.com/jhoicas/hrims-stock/internal/domain/repository"
	"github.com/jhoicas/hrims-stock/internal/infrastructure/cache"
	"github.com/jhoicas/hrims-stock/internal/infrastructure/messaging"
	httpRouter "github.com/jhoicas/hrims-stock/internal/interfaces/http"
	"github.com/jhoicas/hrims-stock/pkg/config"
	"github.com/jhoicas/hrims-stock/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	sinks, closeSinks, err := messaging.BuildSinks(cfg, log.Component("notification"))
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar canales de notificación")
	}
	defer closeSinks()
	dispatcher := notification.NewDispatcher(notification.DispatcherConfig{
		Workers:        cfg.Notify.Workers,
		QueueSize:      cfg.Notify.QueueSize,
		DeliverTimeout: cfg.Notify.DeliverTimeout,
	}, log.Zerolog(), sinks...)

	var departments repository.DepartmentRepository = store.departments
	if cfg.Redis.Addr != "" {
		rdb, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		departments = cache.NewDepartmentCache(store.departments, rdb, cfg.Redis.DirectoryTTL, log.Component("cache"))
	}

	monitor := lowstock.NewMonitor(lowstock.Config{
		Enabled:   cfg.Alerts.LowStockEnabled,
		Recipient: cfg.Alerts.AdminRecipient,
	}, dispatcher, log.Component("lowstock"))
	catalog := inventory.NewCatalog(store.warehouses, store.items)
	resolver := directory.NewResolver(departments, store.warehouses, cfg.Workflow.DefaultWarehouseCode)

	stockUC := inventory.NewStockUseCase(store.runner, store.levels, catalog, monitor, log.Component("inventory"),
		inventory.Options{AllowNegativeAdjustments: cfg.Workflow.AllowNegativeAdjustments})
	historyUC := inventory.NewHistoryUseCase(store.transactions)
	requestUC := request.NewUseCase(store.runner, store.requests, resolver, catalog, dispatcher, monitor,
		log.Component("request"), request.Options{RestockOnReject: cfg.Workflow.RestockOnReject})
	transferUC := transfer.NewUseCase(store.runner, store.transfers, store.levels, catalog, dispatcher, monitor,
		log.Component("transfer"), transfer.Options{StrictProposal: cfg.Workflow.StrictTransferProposal})
	mappingUC := directory.NewMappingUseCase(departments, store.warehouses, resolver)

	scheduler := cron.New()
	if cfg.Alerts.LowStockEnabled && cfg.Alerts.SweepSchedule != "" {
		sweeper := lowstock.NewSweeper(store.levels, monitor, log.Component("lowstock"))
		_, err := scheduler.AddFunc(cfg.Alerts.SweepSchedule, func() {
			sweepCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if _, err := sweeper.Sweep(sweepCtx); err != nil {
				log.Error().Err(err).Msg("barrido de stock bajo")
			}
		})
		if err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.Alerts.SweepSchedule).Msg("programar barrido de stock bajo")
		}
		scheduler.Start()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		StockUC:    stockUC,
		HistoryUC:  historyUC,
		RequestUC:  requestUC,
		TransferUC: transferUC,
		MappingUC:  mappingUC,
		JWTSecret:  cfg.JWT.Secret,
		Log:        log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	<-scheduler.Stop().Done()

	// Las notificaciones pendientes se entregan después de cerrar el servidor.
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("notificaciones pendientes descartadas al apagar")
	}

	log.Info().Msg("aplicación detenida")
}
