package service

import (
	"context"
	"fmt"
	"time"

	"floortrack/internal/model"
	"floortrack/pkg/logger"
	"floortrack/pkg/store/mysql"
)

// TaskClient is the narrow surface of the external task service the tracker
// needs. The external service stays authoritative; everything fetched here is
// cached locally and tolerated stale.
type TaskClient interface {
	ListOpenTasks(ctx context.Context, projectGID string) ([]*model.TaskSnapshot, error)
	ListRecentlyCompleted(ctx context.Context, projectGID string, since time.Time) ([]*model.TaskSnapshot, error)
}

type taskCacheStore interface {
	ReplaceForProject(ctx context.Context, projectGID string, rows []*mysql.TaskCache) error
	Get(ctx context.Context, taskGID string) (*mysql.TaskCache, error)
	ListByProject(ctx context.Context, projectGID string) ([]*mysql.TaskCache, error)
}

type departmentStore interface {
	Create(ctx context.Context, department *mysql.Department) error
	GetByName(ctx context.Context, name string) (*mysql.Department, error)
	List(ctx context.Context) ([]*mysql.Department, error)
}

var _ taskCacheStore = (*mysql.TaskCacheRepository)(nil)
var _ departmentStore = (*mysql.DepartmentRepository)(nil)

// SyncService refreshes the local task cache from the external task service.
// Each sync replaces a project's cache rows wholesale.
type SyncService struct {
	client      TaskClient
	cache       taskCacheStore
	departments departmentStore
	now         func() time.Time
}

// NewSyncService creates a sync service
func NewSyncService(client TaskClient, cache taskCacheStore, departments departmentStore) *SyncService {
	return &SyncService{
		client:      client,
		cache:       cache,
		departments: departments,
		now:         time.Now,
	}
}

// SyncProject refreshes one project's cached tasks. An upstream failure
// leaves the existing cache rows in place.
func (s *SyncService) SyncProject(ctx context.Context, projectGID string) (*model.SyncResult, error) {
	if projectGID == "" {
		return nil, fmt.Errorf("%w: project_gid is required", model.ErrValidation)
	}

	tasks, err := s.client.ListOpenTasks(ctx, projectGID)
	if err != nil {
		return nil, fmt.Errorf("%w: list open tasks for project %s: %v",
			model.ErrUpstreamUnavailable, projectGID, err)
	}

	syncedAt := s.now().UTC()
	rows := make([]*mysql.TaskCache, 0, len(tasks))
	for _, task := range tasks {
		rows = append(rows, mysql.FromTaskSnapshot(task, syncedAt))
	}

	if err := s.cache.ReplaceForProject(ctx, projectGID, rows); err != nil {
		return nil, err
	}

	logger.Infof("task cache refreshed: project=%s tasks=%d", projectGID, len(rows))
	return &model.SyncResult{
		ProjectGID: projectGID,
		TaskCount:  len(rows),
		SyncedAt:   syncedAt,
	}, nil
}

// SyncDepartment refreshes the cache for one department's linked project
func (s *SyncService) SyncDepartment(ctx context.Context, departmentName string) (*model.SyncResult, error) {
	dept, err := s.departments.GetByName(ctx, departmentName)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, fmt.Errorf("%w: department %s", model.ErrNotFound, departmentName)
	}
	if dept.AsanaProjectGID == nil || *dept.AsanaProjectGID == "" {
		return nil, fmt.Errorf("%w: department %s has no linked project", model.ErrValidation, departmentName)
	}

	result, err := s.SyncProject(ctx, *dept.AsanaProjectGID)
	if err != nil {
		return nil, err
	}
	result.Department = dept.Name
	return result, nil
}

// SyncAll refreshes every department with a linked project. Departments that
// fail are logged and skipped so one bad project cannot stall the rest.
func (s *SyncService) SyncAll(ctx context.Context) ([]*model.SyncResult, error) {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, err
	}

	var results []*model.SyncResult
	for _, dept := range departments {
		if dept.AsanaProjectGID == nil || *dept.AsanaProjectGID == "" {
			continue
		}
		result, err := s.SyncProject(ctx, *dept.AsanaProjectGID)
		if err != nil {
			logger.Errorf("task sync failed for department %s: %v", dept.Name, err)
			continue
		}
		result.Department = dept.Name
		results = append(results, result)
	}
	return results, nil
}

// ListCachedTasks serves a project's tasks from the local cache, for when
// the external service is unreachable or a round-trip is not worth it.
func (s *SyncService) ListCachedTasks(ctx context.Context, projectGID string) ([]*model.CachedTask, error) {
	rows, err := s.cache.ListByProject(ctx, projectGID)
	if err != nil {
		return nil, err
	}
	tasks := make([]*model.CachedTask, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, mysql.ToCachedTaskDomain(row))
	}
	return tasks, nil
}

// ListDepartmentTasks serves the cached tasks of a department's linked project
func (s *SyncService) ListDepartmentTasks(ctx context.Context, departmentName string) ([]*model.CachedTask, error) {
	dept, err := s.departments.GetByName(ctx, departmentName)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, fmt.Errorf("%w: department %s", model.ErrNotFound, departmentName)
	}
	if dept.AsanaProjectGID == nil || *dept.AsanaProjectGID == "" {
		return nil, fmt.Errorf("%w: department %s has no linked project", model.ErrValidation, departmentName)
	}
	return s.ListCachedTasks(ctx, *dept.AsanaProjectGID)
}

// GetCachedTask retrieves one cached task by its external reference
func (s *SyncService) GetCachedTask(ctx context.Context, taskGID string) (*model.CachedTask, error) {
	row, err := s.cache.Get(ctx, taskGID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("%w: task %s", model.ErrNotFound, taskGID)
	}
	return mysql.ToCachedTaskDomain(row), nil
}
