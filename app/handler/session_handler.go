package handler

import (
	"net/http"

	"floortrack/internal/model"
	"floortrack/internal/service"
	"floortrack/pkg/logger"

	"github.com/gin-gonic/gin"
)

// SessionHandler handles work session operations
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates session handler
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// Status gets an operator's session view for one part
// @Summary Get work session status
// @Description Active session for the operator plus all sessions and the running total for the part
// @Tags work-session
// @Produce json
// @Param operator_name query string true "Operator name"
// @Param part_gid query string true "Part task reference"
// @Success 200 {object} model.SessionStatusResponse
// @Router /work-session [get]
func (h *SessionHandler) Status(c *gin.Context) {
	operatorName := c.Query("operator_name")
	partGID := c.Query("part_gid")

	resp, err := h.sessionService.GetStatus(c.Request.Context(), operatorName, partGID)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to get session status, operator: %s, part: %s, error: %v",
			operatorName, partGID, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Start opens a work session
// @Summary Start a work session
// @Description Opens a session; 409 when the operator already has an active session on the part
// @Tags work-session
// @Accept json
// @Produce json
// @Param request body model.StartSessionRequest true "Session request"
// @Success 201 {object} model.WorkSession
// @Router /work-session [post]
func (h *SessionHandler) Start(c *gin.Context) {
	var req model.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.ErrorCtx(c.Request.Context(), "invalid request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	session, err := h.sessionService.Start(c.Request.Context(), &req)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to start session, operator: %s, part: %s, error: %v",
			req.OperatorName, req.PartGID, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// AccumulateParts adds parts onto an active session
// @Summary Accumulate produced parts
// @Description Adds a count onto the session total; 409 when the session is already closed
// @Tags work-session
// @Accept json
// @Produce json
// @Param request body model.AccumulatePartsRequest true "Parts request"
// @Success 200 {object} model.WorkSession
// @Router /work-session/parts [put]
func (h *SessionHandler) AccumulateParts(c *gin.Context) {
	var req model.AccumulatePartsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.ErrorCtx(c.Request.Context(), "invalid request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	session, err := h.sessionService.AccumulateParts(c.Request.Context(), &req)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to accumulate parts, session: %d, error: %v",
			req.SessionID, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// End closes a session and commits it to the QC ledger
// @Summary End a work session
// @Description Closes the session and appends one QC ledger row; 409 when already ended
// @Tags work-session
// @Accept json
// @Produce json
// @Param request body model.EndSessionRequest true "End request"
// @Success 200 {object} model.EndSessionResponse
// @Router /work-session [delete]
func (h *SessionHandler) End(c *gin.Context) {
	var req model.EndSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.ErrorCtx(c.Request.Context(), "invalid request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	resp, err := h.sessionService.End(c.Request.Context(), &req)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to end session, session: %d, error: %v",
			req.SessionID, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RunningTotal returns a part's running total
// @Summary Get a part's running total
// @Description Committed ledger parts plus parts on active sessions
// @Tags parts
// @Produce json
// @Param part_gid path string true "Part task reference"
// @Success 200 {object} map[string]interface{}
// @Router /parts/{part_gid}/total [get]
func (h *SessionHandler) RunningTotal(c *gin.Context) {
	partGID := c.Param("part_gid")
	if partGID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "part_gid required"})
		return
	}

	total, err := h.sessionService.RunningTotal(c.Request.Context(), partGID)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to get running total, part: %s, error: %v", partGID, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"part_gid": partGID, "running_total": total})
}
