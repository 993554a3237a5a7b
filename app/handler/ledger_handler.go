package handler

import (
	"net/http"
	"strconv"

	"floortrack/internal/model"
	"floortrack/internal/service"
	"floortrack/pkg/logger"

	"github.com/gin-gonic/gin"
)

// LedgerHandler handles QC ledger operations
type LedgerHandler struct {
	ledgerService *service.LedgerService
}

// NewLedgerHandler creates ledger handler
func NewLedgerHandler(ledgerService *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// Append inserts one manually reported QC entry
// @Summary Append a QC entry
// @Tags qc-entries
// @Accept json
// @Produce json
// @Param request body model.QCEntry true "QC entry"
// @Success 201 {object} model.QCEntry
// @Router /qc-entries [post]
func (h *LedgerHandler) Append(c *gin.Context) {
	var entry model.QCEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		logger.ErrorCtx(c.Request.Context(), "invalid request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	created, err := h.ledgerService.Append(c.Request.Context(), &entry)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to append qc entry: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// Get retrieves one QC entry
// @Summary Get a QC entry
// @Tags qc-entries
// @Produce json
// @Param id path int true "Entry id"
// @Success 200 {object} model.QCEntry
// @Router /qc-entries/{id} [get]
func (h *LedgerHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	entry, err := h.ledgerService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// List serves a department's ledger rows
// @Summary List QC entries
// @Tags qc-entries
// @Produce json
// @Param department query string true "Department name"
// @Param unmatched query bool false "Only entries lacking a task reference"
// @Success 200 {array} model.QCEntry
// @Router /qc-entries [get]
func (h *LedgerHandler) List(c *gin.Context) {
	department := c.Query("department")
	if department == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "department required"})
		return
	}

	var (
		entries []*model.QCEntry
		err     error
	)
	if c.Query("unmatched") == "true" {
		entries, err = h.ledgerService.ListUnmatched(c.Request.Context(), department)
	} else {
		entries, err = h.ledgerService.ListByDepartment(c.Request.Context(), department)
	}
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to list qc entries, department: %s, error: %v", department, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// Import bulk-loads ledger rows
// @Summary Import QC entries
// @Description All rows land in one transaction or none do
// @Tags qc-entries
// @Accept json
// @Produce json
// @Param request body model.ImportEntriesRequest true "Import request"
// @Success 201 {object} model.ImportEntriesResponse
// @Router /qc-entries/import [post]
func (h *LedgerHandler) Import(c *gin.Context) {
	var req model.ImportEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.ErrorCtx(c.Request.Context(), "invalid request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	resp, err := h.ledgerService.ImportEntries(c.Request.Context(), &req)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to import qc entries: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// BackfillTaskRef attaches a task reference to a historical entry
// @Summary Backfill a task reference
// @Description Writes only while the reference is unset; otherwise a no-op
// @Tags qc-entries
// @Accept json
// @Produce json
// @Param id path int true "Entry id"
// @Param request body model.BackfillRequest true "Task reference"
// @Success 200 {object} model.QCEntry
// @Router /qc-entries/{id}/task-ref [post]
func (h *LedgerHandler) BackfillTaskRef(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	var req model.BackfillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.ErrorCtx(c.Request.Context(), "invalid request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	entry, err := h.ledgerService.BackfillTaskReference(c.Request.Context(), id, req.TaskGID)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to backfill task ref, entry: %d, error: %v", id, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}
