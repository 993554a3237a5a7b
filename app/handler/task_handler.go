package handler

import (
	"net/http"

	"floortrack/internal/service"
	"floortrack/pkg/logger"

	"github.com/gin-gonic/gin"
)

// TaskHandler serves cached external tasks and sync triggers
type TaskHandler struct {
	syncService *service.SyncService
}

// NewTaskHandler creates task handler
func NewTaskHandler(syncService *service.SyncService) *TaskHandler {
	return &TaskHandler{syncService: syncService}
}

// List serves a department's cached tasks
// @Summary List cached tasks
// @Description Tasks from the local cache; staleness bounded by the sync interval
// @Tags tasks
// @Produce json
// @Param department query string true "Department name"
// @Success 200 {array} model.CachedTask
// @Router /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	department := c.Query("department")
	if department == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "department required"})
		return
	}

	tasks, err := h.syncService.ListDepartmentTasks(c.Request.Context(), department)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to list tasks, department: %s, error: %v", department, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// Get serves one cached task
// @Summary Get a cached task
// @Tags tasks
// @Produce json
// @Param task_gid path string true "Task reference"
// @Success 200 {object} model.CachedTask
// @Router /tasks/{task_gid} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	taskGID := c.Param("task_gid")
	if taskGID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task_gid required"})
		return
	}

	task, err := h.syncService.GetCachedTask(c.Request.Context(), taskGID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// Sync refreshes a department's task cache from the external service
// @Summary Sync a department's task cache
// @Description 503 when the external service is unreachable; the cache keeps its last rows
// @Tags tasks
// @Produce json
// @Param department path string true "Department name"
// @Success 200 {object} model.SyncResult
// @Router /tasks/sync/{department} [post]
func (h *TaskHandler) Sync(c *gin.Context) {
	department := c.Param("department")
	if department == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "department required"})
		return
	}

	result, err := h.syncService.SyncDepartment(c.Request.Context(), department)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to sync tasks, department: %s, error: %v", department, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
