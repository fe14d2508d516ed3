package handler

import (
	appops "github.com/gestock/backend/internal/application/ops"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReceptionReportHandler handles reception report HTTP endpoints
type ReceptionReportHandler struct {
	BaseHandler
	reportService *appops.ReceptionReportService
}

// NewReceptionReportHandler creates a new ReceptionReportHandler
func NewReceptionReportHandler(reportService *appops.ReceptionReportService) *ReceptionReportHandler {
	return &ReceptionReportHandler{reportService: reportService}
}

// Create handles POST /reception-reports
func (h *ReceptionReportHandler) Create(c *gin.Context) {
	var req appops.CreateReceptionReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	report, err := h.reportService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, report)
}

// Get handles GET /reception-reports/:id
func (h *ReceptionReportHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid reception report ID")
		return
	}

	report, err := h.reportService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// List handles GET /reception-reports
func (h *ReceptionReportHandler) List(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if verdict := c.Query("verdict"); verdict != "" {
		filter.Filters["verdict"] = verdict
	}
	if documentID := c.Query("document_id"); documentID != "" {
		id, err := uuid.Parse(documentID)
		if err != nil {
			h.BadRequest(c, "Invalid document ID")
			return
		}
		filter.Filters["document_id"] = id
	}

	result, err := h.reportService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, filter.Page, filter.PageSize)
}
