package jobs

import (
	"context"
	"time"

	"floortrack/internal/model"
)

type taskSyncer interface {
	SyncAll(ctx context.Context) ([]*model.SyncResult, error)
}

// TaskSyncJob periodically refreshes the task cache for every department
// with a linked project.
type TaskSyncJob struct {
	syncer   taskSyncer
	interval time.Duration
}

// NewTaskSyncJob creates the periodic cache refresh job
func NewTaskSyncJob(syncer taskSyncer, interval time.Duration) *TaskSyncJob {
	return &TaskSyncJob{syncer: syncer, interval: interval}
}

func (j *TaskSyncJob) Name() string { return "task-cache-sync" }

func (j *TaskSyncJob) Interval() time.Duration { return j.interval }

func (j *TaskSyncJob) Run(ctx context.Context) error {
	_, err := j.syncer.SyncAll(ctx)
	return err
}
