package handler

import (
	appfinance "github.com/gestock/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler handles payment HTTP endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *appfinance.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *appfinance.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Create handles POST /payments
func (h *PaymentHandler) Create(c *gin.Context) {
	var req appfinance.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payment, err := h.paymentService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, payment)
}

// Get handles GET /payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.paymentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// List handles GET /payments
func (h *PaymentHandler) List(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if method := c.Query("method"); method != "" {
		filter.Filters["method"] = method
	}
	if documentID := c.Query("document_id"); documentID != "" {
		id, err := uuid.Parse(documentID)
		if err != nil {
			h.BadRequest(c, "Invalid document ID")
			return
		}
		filter.Filters["document_id"] = id
	}

	result, err := h.paymentService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, filter.Page, filter.PageSize)
}

// ListByDocument handles GET /documents/:id/payments
func (h *PaymentHandler) ListByDocument(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	payments, err := h.paymentService.ListByDocument(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payments)
}
