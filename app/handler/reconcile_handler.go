package handler

import (
	"context"
	"net/http"

	"floortrack/internal/service"
	"floortrack/pkg/logger"

	"github.com/gin-gonic/gin"
)

// reconcileQueue enqueues background reconciliation runs and reports how
// many are waiting
type reconcileQueue interface {
	EnqueueReconcile(ctx context.Context, department string) error
	GetPendingTaskCount() (int, error)
}

// ReconcileHandler triggers and previews ledger reconciliation
type ReconcileHandler struct {
	reconcileService *service.ReconcileService
	queue            reconcileQueue
}

// NewReconcileHandler creates reconcile handler. queue may be nil, in which
// case triggers run inline.
func NewReconcileHandler(reconcileService *service.ReconcileService, queue reconcileQueue) *ReconcileHandler {
	return &ReconcileHandler{
		reconcileService: reconcileService,
		queue:            queue,
	}
}

// Trigger queues a reconciliation run for one department
// @Summary Trigger department reconciliation
// @Description Queued by default; pass sync=true to run inline and get the summary back
// @Tags reconcile
// @Produce json
// @Param department path string true "Department name"
// @Param sync query bool false "Run inline"
// @Success 202 {object} map[string]string
// @Success 200 {object} model.ReconcileSummary
// @Router /reconcile/{department} [post]
func (h *ReconcileHandler) Trigger(c *gin.Context) {
	department := c.Param("department")
	if department == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "department required"})
		return
	}

	if h.queue == nil || c.Query("sync") == "true" {
		summary, err := h.reconcileService.ReconcileDepartment(c.Request.Context(), department)
		if err != nil {
			logger.ErrorCtx(c.Request.Context(), "reconciliation failed, department: %s, error: %v", department, err)
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
		return
	}

	if err := h.queue.EnqueueReconcile(c.Request.Context(), department); err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to enqueue reconcile, department: %s, error: %v", department, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued", "department": department})
}

// QueueStatus reports the reconcile queue depth
// @Summary Get reconcile queue status
// @Tags reconcile
// @Produce json
// @Success 200 {object} map[string]int
// @Router /queue/status [get]
func (h *ReconcileHandler) QueueStatus(c *gin.Context) {
	if h.queue == nil {
		c.JSON(http.StatusOK, gin.H{"pending": 0})
		return
	}

	pending, err := h.queue.GetPendingTaskCount()
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to read queue status: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pending": pending})
}

// Preview shows what a reconciliation run would match without writing
// @Summary Preview department reconciliation
// @Tags reconcile
// @Produce json
// @Param department path string true "Department name"
// @Success 200 {array} model.TaskMatch
// @Router /reconcile/{department}/preview [get]
func (h *ReconcileHandler) Preview(c *gin.Context) {
	department := c.Param("department")
	if department == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "department required"})
		return
	}

	matches, err := h.reconcileService.MatchDepartment(c.Request.Context(), department)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "reconcile preview failed, department: %s, error: %v", department, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, matches)
}
