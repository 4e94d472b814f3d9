package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/storefront/backoffice/internal/api/http"
	"github.com/storefront/backoffice/internal/api/http/handlers"
	"github.com/storefront/backoffice/internal/auth"
	"github.com/storefront/backoffice/internal/config"
	"github.com/storefront/backoffice/internal/events"
	"github.com/storefront/backoffice/internal/observability"
	"github.com/storefront/backoffice/internal/persistence"
	"github.com/storefront/backoffice/internal/repository"
	"github.com/storefront/backoffice/internal/service"
	"github.com/storefront/backoffice/internal/worker"
)

type repositories struct {
	customers repository.CustomerRepository
	products  repository.ProductRepository
	sales     repository.SaleRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	location, err := cfg.App.Location()
	if err != nil {
		logger.Fatal("invalid timezone", zap.Error(err))
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	pool := pg.PoolHandle()
	if pool != nil && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pool, cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	repos := repositories{}
	healthDeps := []handlers.Dependency{{Name: "redis", Pinger: redis}}
	if pool != nil {
		repos.customers = repository.NewCustomerRepository(pool)
		repos.products = repository.NewProductRepository(pool)
		repos.sales = repository.NewSaleRepository(pool)
		healthDeps = append(healthDeps, handlers.Dependency{Name: "postgres", Pinger: pg})
	} else {
		logger.Warn("using in-memory repositories; data is lost on restart")
		store := repository.NewMemoryStore()
		repos.customers = store.Customers()
		repos.products = store.Products()
		repos.sales = store.Sales()
	}

	var idempotency repository.IdempotencyStore = repository.NewRedisIdempotencyStore(redis.Client)
	if !redis.Reachable() {
		logger.Warn("redis unreachable; idempotency keys held in memory")
		idempotency = repository.NewMemoryIdempotencyStore()
	}

	dispatcher := events.NewInMemoryDispatcher()
	notifier := worker.NewNotificationWorker(service.NewNotificationService(logger, cfg.Notification), logger, 0)
	notifier.Start(ctx, dispatcher)

	authService, err := service.NewAuthService(*cfg, service.AuthDependencies{
		CustomerRepo: repos.customers,
		Dispatcher:   dispatcher,
	})
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}
	if admin, created, err := authService.SeedAdmin(ctx, cfg.AdminSeed); err != nil {
		logger.Fatal("failed to seed admin", zap.Error(err))
	} else if admin != nil {
		logger.Info("seed admin ensured", zap.String("email", admin.Email), zap.Bool("created", created))
	}
	catalogService := service.NewCatalogService(repos.products, dispatcher)
	ledgerService := service.NewLedgerService(service.LedgerDependencies{
		CustomerRepo: repos.customers,
		ProductRepo:  repos.products,
		SaleRepo:     repos.sales,
		Dispatcher:   dispatcher,
	})
	queryService := service.NewSalesQueryService(service.SalesQueryDependencies{
		CustomerRepo: repos.customers,
		ProductRepo:  repos.products,
		SaleRepo:     repos.sales,
		Location:     location,
	})

	if cfg.Sales.ReportSchedule != "" {
		scheduler, err := worker.StartMonthlyReportScheduler(cfg.Sales.ReportSchedule, worker.NewMonthlyReportJob(queryService, logger))
		if err != nil {
			logger.Fatal("invalid report schedule", zap.String("schedule", cfg.Sales.ReportSchedule), zap.Error(err))
		}
		defer scheduler.Stop()
	}

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, metrics, healthDeps...),
		Customers: handlers.NewCustomersHandler(authService),
		Products:  handlers.NewProductsHandler(catalogService),
		Sales: handlers.NewSalesHandler(handlers.SalesHandlerDependencies{
			Ledger:         ledgerService,
			Queries:        queryService,
			Idempotency:    idempotency,
			IdempotencyTTL: cfg.Sales.IdempotencyTTL(),
			Logger:         logger,
		}),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	cancel()
	notifier.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
