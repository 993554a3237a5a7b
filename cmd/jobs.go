package main

import (
	"floortrack/internal/jobs"
	"floortrack/pkg/logger"
)

func (app *Application) initJobs() error {
	if app.syncService == nil || app.catalogService == nil {
		logger.WarnCtx(app.ctx, "Service layer not fully initialized yet, skipping background task registration")
		return nil
	}

	manager := jobs.NewManager(app.ctx)

	// Keep the task cache fresh
	manager.Register(jobs.NewTaskSyncJob(app.syncService, app.config.Sync.Interval()))

	// Fan out periodic reconciliation runs through the queue
	if app.config.Reconcile.Enabled {
		manager.Register(jobs.NewReconcileJob(app.queueManager, app.catalogService, app.config.Reconcile.Interval()))
	} else {
		logger.InfoCtx(app.ctx, "Periodic reconciliation disabled by configuration")
	}

	app.jobsManager = manager
	return nil
}
