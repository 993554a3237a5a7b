package router

import (
	"floortrack/app/handler"
	"floortrack/app/middleware"

	"github.com/gin-gonic/gin"
)

// Router Router
type Router struct {
	sessionHandler   *handler.SessionHandler
	watchHandler     *handler.WatchHandler
	taskHandler      *handler.TaskHandler
	ledgerHandler    *handler.LedgerHandler
	catalogHandler   *handler.CatalogHandler
	reconcileHandler *handler.ReconcileHandler
}

// NewRouter creates a new Router
func NewRouter(
	sessionHandler *handler.SessionHandler,
	watchHandler *handler.WatchHandler,
	taskHandler *handler.TaskHandler,
	ledgerHandler *handler.LedgerHandler,
	catalogHandler *handler.CatalogHandler,
	reconcileHandler *handler.ReconcileHandler,
) *Router {
	return &Router{
		sessionHandler:   sessionHandler,
		watchHandler:     watchHandler,
		taskHandler:      taskHandler,
		ledgerHandler:    ledgerHandler,
		catalogHandler:   catalogHandler,
		reconcileHandler: reconcileHandler,
	}
}

// Setup sets up routes
func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger())

	// V1 API - shop-floor terminal interface
	v1 := engine.Group("/v1")
	{
		// Work session lifecycle
		v1.GET("/work-session", r.sessionHandler.Status)
		v1.POST("/work-session", r.sessionHandler.Start)
		v1.PUT("/work-session/parts", r.sessionHandler.AccumulateParts)
		v1.DELETE("/work-session", r.sessionHandler.End)

		// Running totals
		parts := v1.Group("/parts")
		{
			parts.GET("/:part_gid/total", r.sessionHandler.RunningTotal)
			parts.GET("/:part_gid/watch", r.watchHandler.Watch) // websocket
		}

		// Cached external tasks
		v1.GET("/tasks", r.taskHandler.List)
		v1.GET("/tasks/:task_gid", r.taskHandler.Get)

		// QC ledger
		entries := v1.Group("/qc-entries")
		{
			entries.GET("", r.ledgerHandler.List)
			entries.POST("", r.ledgerHandler.Append)
			entries.GET("/:id", r.ledgerHandler.Get)
		}

		// Reference data
		v1.GET("/operators", r.catalogHandler.ListOperators)
		v1.GET("/operators/:name", r.catalogHandler.GetOperator)
		v1.GET("/departments", r.catalogHandler.ListDepartments)
		v1.GET("/machines", r.catalogHandler.ListMachines)
	}

	// Admin interface - imports, sync triggers, reconciliation
	admin := engine.Group("/v1")
	admin.Use(middleware.AuthMiddleware())
	{
		admin.POST("/tasks/sync/:department", r.taskHandler.Sync)
		admin.POST("/qc-entries/import", r.ledgerHandler.Import)
		admin.POST("/qc-entries/:id/task-ref", r.ledgerHandler.BackfillTaskRef)
		admin.POST("/operators/import", r.catalogHandler.ImportOperators)
		admin.POST("/departments", r.catalogHandler.CreateDepartment)
		admin.POST("/reconcile/:department", r.reconcileHandler.Trigger)
		admin.GET("/reconcile/:department/preview", r.reconcileHandler.Preview)
		admin.GET("/queue/status", r.reconcileHandler.QueueStatus)
	}

	// Health check
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
