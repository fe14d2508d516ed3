package handler

import (
	appops "github.com/gestock/backend/internal/application/ops"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DistributionHandler handles distribution HTTP endpoints
type DistributionHandler struct {
	BaseHandler
	distributionService *appops.DistributionService
}

// NewDistributionHandler creates a new DistributionHandler
func NewDistributionHandler(distributionService *appops.DistributionService) *DistributionHandler {
	return &DistributionHandler{distributionService: distributionService}
}

// Create handles POST /distributions
func (h *DistributionHandler) Create(c *gin.Context) {
	var req appops.CreateDistributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	dist, err := h.distributionService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dist)
}

// Get handles GET /distributions/:id
func (h *DistributionHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid distribution ID")
		return
	}

	dist, err := h.distributionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dist)
}

// List handles GET /distributions
func (h *DistributionHandler) List(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if articleID := c.Query("article_id"); articleID != "" {
		id, err := uuid.Parse(articleID)
		if err != nil {
			h.BadRequest(c, "Invalid article ID")
			return
		}
		filter.Filters["article_id"] = id
	}
	if dateFrom := c.Query("date_from"); dateFrom != "" {
		filter.Filters["date_from"] = dateFrom
	}
	if dateTo := c.Query("date_to"); dateTo != "" {
		filter.Filters["date_to"] = dateTo
	}

	result, err := h.distributionService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, filter.Page, filter.PageSize)
}

// Delete handles DELETE /distributions/:id
func (h *DistributionHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid distribution ID")
		return
	}

	if err := h.distributionService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
