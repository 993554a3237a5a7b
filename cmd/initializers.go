package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"floortrack/app/handler"
	"floortrack/app/router"
	"floortrack/internal/matcher"
	"floortrack/internal/service"
	asanaclient "floortrack/pkg/client/asana"
	"floortrack/pkg/config"
	"floortrack/pkg/logger"
	queuemgr "floortrack/pkg/queue/asynq"
	mysqlstore "floortrack/pkg/store/mysql"
	redisstore "floortrack/pkg/store/redis"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

// initConfig initializes configuration
func (app *Application) initConfig() error {
	if err := config.Init(); err != nil {
		return err
	}
	app.config = config.GlobalConfig
	return nil
}

// initLogger initializes logging
func (app *Application) initLogger() error {
	if err := logger.Init(); err != nil {
		return err
	}
	app.registerCleanup(func() {
		logger.Sync()
		logger.InfoCtx(app.ctx, "Logging system has been closed")
	})
	return nil
}

// initMySQL initializes MySQL
func (app *Application) initMySQL() error {
	dsn := mysqlstore.BuildDSN(
		app.config.MySQL.User,
		app.config.MySQL.Password,
		app.config.MySQL.Host,
		app.config.MySQL.Port,
		app.config.MySQL.Database,
	)

	repo, err := mysqlstore.NewRepository(dsn)
	if err != nil {
		return err
	}

	if err := repo.Migrate(); err != nil {
		repo.Close()
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	app.mysqlRepo = repo
	app.registerCleanup(func() {
		repo.Close()
		logger.InfoCtx(app.ctx, "MySQL connection has been closed")
	})

	return nil
}

// initRedis initializes Redis and the running-total cache
func (app *Application) initRedis() error {
	client, err := redisstore.NewRedisClient(app.config)
	if err != nil {
		return err
	}

	app.redisClient = client
	app.totalsCache = redisstore.NewTotalsCache(client, app.config.Reconcile.TotalsCacheTTL())
	app.registerCleanup(func() {
		client.Close()
		logger.InfoCtx(app.ctx, "Redis connection has been closed")
	})

	return nil
}

// initQueue initializes the reconcile queue manager
func (app *Application) initQueue() error {
	manager, err := queuemgr.NewManager(app.config)
	if err != nil {
		return err
	}

	app.queueManager = manager
	app.registerCleanup(func() {
		manager.Close()
		logger.InfoCtx(app.ctx, "Queue client has been closed")
	})

	return nil
}

// initServices initializes service layer
func (app *Application) initServices() error {
	// External task service client
	app.taskClient = asanaclient.NewClient(&app.config.Asana)

	// Work session lifecycle and running totals
	app.sessionService = service.NewSessionService(
		app.mysqlRepo.WorkSession,
		app.mysqlRepo.QCEntry,
		app.totalsCache,
	)

	// QC ledger
	app.ledgerService = service.NewLedgerService(app.mysqlRepo.QCEntry, app.totalsCache)

	// Task cache sync
	app.syncService = service.NewSyncService(
		app.taskClient,
		app.mysqlRepo.TaskCache,
		app.mysqlRepo.Department,
	)

	// Reference data
	app.catalogService = service.NewCatalogService(
		app.mysqlRepo.Operator,
		app.mysqlRepo.Department,
		app.mysqlRepo.Machine,
	)

	// Ledger reconciliation
	app.reconcileService = service.NewReconcileService(
		app.taskClient,
		app.mysqlRepo.QCEntry,
		app.mysqlRepo.WorkSession,
		app.mysqlRepo.Department,
		matcher.New(app.config.Reconcile.SimilarityThreshold),
	)

	// Queue worker runs department reconciliations
	app.queueManager.RegisterHandler(queuemgr.TypeReconcileDepartment, asynq.HandlerFunc(app.handleReconcileTask))

	return nil
}

// handleReconcileTask runs one queued department reconciliation
func (app *Application) handleReconcileTask(ctx context.Context, t *asynq.Task) error {
	var payload queuemgr.ReconcilePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal reconcile payload: %w", err)
	}

	summary, err := app.reconcileService.ReconcileDepartment(ctx, payload.Department)
	if err != nil {
		logger.ErrorCtx(ctx, "reconciliation failed, department: %s, error: %v", payload.Department, err)
		return err
	}

	logger.InfoCtx(ctx, "reconciliation completed, department: %s, matched: %d, backfilled: %d, sessions created: %d, skipped: %d",
		summary.Department, summary.TasksMatched, summary.RefsBackfilled, summary.SessionsCreated, summary.SessionsSkipped)
	return nil
}

// initHandlers initializes handler layer
func (app *Application) initHandlers() error {
	app.sessionHandler = handler.NewSessionHandler(app.sessionService)
	app.watchHandler = handler.NewWatchHandler(app.sessionService, 0)
	app.taskHandler = handler.NewTaskHandler(app.syncService)
	app.ledgerHandler = handler.NewLedgerHandler(app.ledgerService)
	app.catalogHandler = handler.NewCatalogHandler(app.catalogService)
	app.reconcileHandler = handler.NewReconcileHandler(app.reconcileService, app.queueManager)

	return nil
}

// initHTTPServer initializes HTTP server
func (app *Application) initHTTPServer() error {
	// Initialize router
	r := router.NewRouter(
		app.sessionHandler,
		app.watchHandler,
		app.taskHandler,
		app.ledgerHandler,
		app.catalogHandler,
		app.reconcileHandler,
	)

	// Set Gin mode
	gin.SetMode(app.config.Server.Mode)

	// Create Gin engine
	app.ginEngine = gin.New()

	// Setup routes
	r.Setup(app.ginEngine)

	// Create HTTP server
	app.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.config.Server.Port),
		Handler: app.ginEngine,
	}

	return nil
}
