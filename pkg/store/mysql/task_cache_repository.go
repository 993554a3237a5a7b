package mysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaskCacheRepository handles the external task metadata cache in MySQL
type TaskCacheRepository struct {
	ds *Datastore
}

// NewTaskCacheRepository creates a new task cache repository
func NewTaskCacheRepository(ds *Datastore) *TaskCacheRepository {
	return &TaskCacheRepository{ds: ds}
}

// ReplaceForProject replaces a project's cache rows wholesale in one
// transaction: either every row lands or none do, so a failure mid-sync
// never leaves stale and fresh rows mixed.
func (r *TaskCacheRepository) ReplaceForProject(ctx context.Context, projectGID string, rows []*TaskCache) error {
	return r.ds.ExecTx(ctx, func(txCtx context.Context) error {
		if err := r.ds.DB(txCtx).
			Where("project_gid = ?", projectGID).
			Delete(&TaskCache{}).Error; err != nil {
			return fmt.Errorf("failed to clear project cache: %w", err)
		}

		for _, row := range rows {
			// task_gid is globally unique; a task moved between projects
			// must not leave a duplicate behind
			err := r.ds.DB(txCtx).
				Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "task_gid"}},
					UpdateAll: true,
				}).
				Create(row).Error
			if err != nil {
				return fmt.Errorf("failed to cache task %s: %w", row.TaskGID, err)
			}
		}

		return nil
	})
}

// Get retrieves one cached task by gid, nil when absent
func (r *TaskCacheRepository) Get(ctx context.Context, taskGID string) (*TaskCache, error) {
	var row TaskCache
	err := r.ds.DB(ctx).Where("task_gid = ?", taskGID).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached task: %w", err)
	}
	return &row, nil
}

// ListByProject retrieves a project's cached tasks
func (r *TaskCacheRepository) ListByProject(ctx context.Context, projectGID string) ([]*TaskCache, error) {
	var rows []*TaskCache
	err := r.ds.DB(ctx).
		Where("project_gid = ?", projectGID).
		Order("task_name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cached tasks: %w", err)
	}
	return rows, nil
}
