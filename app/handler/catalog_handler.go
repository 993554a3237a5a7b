package handler

import (
	"net/http"
	"strconv"

	"floortrack/internal/model"
	"floortrack/internal/service"
	"floortrack/pkg/logger"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves reference data: operators, departments, machines
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates catalog handler
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListOperators returns the full roster
// @Summary List operators
// @Tags catalog
// @Produce json
// @Success 200 {array} model.Operator
// @Router /operators [get]
func (h *CatalogHandler) ListOperators(c *gin.Context) {
	operators, err := h.catalogService.ListOperators(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, operators)
}

// GetOperator retrieves one operator by name
// @Summary Get an operator
// @Tags catalog
// @Produce json
// @Param name path string true "Operator name"
// @Success 200 {object} model.Operator
// @Router /operators/{name} [get]
func (h *CatalogHandler) GetOperator(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}

	operator, err := h.catalogService.GetOperator(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, operator)
}

// ImportOperators upserts the roster
// @Summary Import operators
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body model.ImportOperatorsRequest true "Roster"
// @Success 200 {object} map[string]int
// @Router /operators/import [post]
func (h *CatalogHandler) ImportOperators(c *gin.Context) {
	var req model.ImportOperatorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.ErrorCtx(c.Request.Context(), "invalid request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	count, err := h.catalogService.ImportOperators(c.Request.Context(), &req)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to import operators: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"imported": count})
}

// CreateDepartment registers a new department
// @Summary Create a department
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body model.Department true "Department"
// @Success 201 {object} model.Department
// @Router /departments [post]
func (h *CatalogHandler) CreateDepartment(c *gin.Context) {
	var department model.Department
	if err := c.ShouldBindJSON(&department); err != nil {
		logger.ErrorCtx(c.Request.Context(), "invalid request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	created, err := h.catalogService.CreateDepartment(c.Request.Context(), &department)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "failed to create department: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListDepartments returns all departments
// @Summary List departments
// @Tags catalog
// @Produce json
// @Success 200 {array} model.Department
// @Router /departments [get]
func (h *CatalogHandler) ListDepartments(c *gin.Context) {
	departments, err := h.catalogService.ListDepartments(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, departments)
}

// ListMachines returns machines, optionally narrowed by department id
// @Summary List machines
// @Tags catalog
// @Produce json
// @Param department_id query int false "Department id"
// @Success 200 {array} model.Machine
// @Router /machines [get]
func (h *CatalogHandler) ListMachines(c *gin.Context) {
	var departmentID *int64
	if raw := c.Query("department_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid department_id"})
			return
		}
		departmentID = &id
	}

	machines, err := h.catalogService.ListMachines(c.Request.Context(), departmentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, machines)
}
