package handler

import (
	"strings"

	appstock "github.com/gestock/backend/internal/application/stock"
	"github.com/gestock/backend/internal/domain/stock"
	"github.com/gestock/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StockDocumentHandler handles receipt and issue document endpoints.
// Line replacement is the only way document lines change; it carries the
// stock reconciliation with it.
type StockDocumentHandler struct {
	BaseHandler
	documentService *appstock.DocumentService
}

// NewStockDocumentHandler creates a new StockDocumentHandler
func NewStockDocumentHandler(documentService *appstock.DocumentService) *StockDocumentHandler {
	return &StockDocumentHandler{documentService: documentService}
}

// Create handles POST /documents
func (h *StockDocumentHandler) Create(c *gin.Context) {
	var req appstock.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if userIDStr := middleware.GetJWTUserID(c); userIDStr != "" {
		if userID, err := uuid.Parse(userIDStr); err == nil {
			req.CreatedBy = &userID
		}
	}

	doc, err := h.documentService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, doc)
}

// Get handles GET /documents/:id
func (h *StockDocumentHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	doc, err := h.documentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}

// List handles GET /documents
func (h *StockDocumentHandler) List(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var direction *stock.Direction
	if dirStr := c.Query("direction"); dirStr != "" {
		dir := stock.Direction(strings.ToUpper(dirStr))
		if !dir.IsValid() {
			h.BadRequest(c, "Direction must be INBOUND or OUTBOUND")
			return
		}
		direction = &dir
	}

	if dateFrom := c.Query("date_from"); dateFrom != "" {
		filter.Filters["date_from"] = dateFrom
	}
	if dateTo := c.Query("date_to"); dateTo != "" {
		filter.Filters["date_to"] = dateTo
	}

	result, err := h.documentService.List(c.Request.Context(), direction, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, filter.Page, filter.PageSize)
}

// UpdateHeader handles PUT /documents/:id
func (h *StockDocumentHandler) UpdateHeader(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	var req appstock.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	doc, err := h.documentService.UpdateHeader(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}

// ReplaceLines handles PUT /documents/:id/lines.
// The full line list is replaced and article balances are reconciled against
// the diff in one transaction. An empty list clears the document.
func (h *StockDocumentHandler) ReplaceLines(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	var req appstock.ReplaceLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.documentService.ReplaceLines(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete handles DELETE /documents/:id
func (h *StockDocumentHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
