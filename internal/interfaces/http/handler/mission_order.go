package handler

import (
	"strings"

	appops "github.com/gestock/backend/internal/application/ops"
	"github.com/gestock/backend/internal/domain/ops"
	"github.com/gin-gonic/gin"
)

// MissionOrderHandler handles mission order HTTP endpoints
type MissionOrderHandler struct {
	BaseHandler
	missionOrderService *appops.MissionOrderService
}

// NewMissionOrderHandler creates a new MissionOrderHandler
func NewMissionOrderHandler(missionOrderService *appops.MissionOrderService) *MissionOrderHandler {
	return &MissionOrderHandler{missionOrderService: missionOrderService}
}

// Create handles POST /mission-orders
func (h *MissionOrderHandler) Create(c *gin.Context) {
	var req appops.CreateMissionOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.missionOrderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// Get handles GET /mission-orders/:id
func (h *MissionOrderHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid mission order ID")
		return
	}

	order, err := h.missionOrderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// List handles GET /mission-orders
func (h *MissionOrderHandler) List(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var status *ops.MissionOrderStatus
	if statusStr := c.Query("status"); statusStr != "" {
		s := ops.MissionOrderStatus(strings.ToUpper(statusStr))
		if !s.IsValid() {
			h.BadRequest(c, "Invalid mission order status")
			return
		}
		status = &s
	}

	result, err := h.missionOrderService.List(c.Request.Context(), status, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, filter.Page, filter.PageSize)
}

// Update handles PUT /mission-orders/:id
func (h *MissionOrderHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid mission order ID")
		return
	}

	var req appops.UpdateMissionOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.missionOrderService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Approve handles POST /mission-orders/:id/approve
func (h *MissionOrderHandler) Approve(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid mission order ID")
		return
	}

	order, err := h.missionOrderService.Approve(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Close handles POST /mission-orders/:id/close
func (h *MissionOrderHandler) Close(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid mission order ID")
		return
	}

	order, err := h.missionOrderService.Close(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}
