package handler

import (
	appcatalog "github.com/gestock/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ArticleHandler handles article HTTP endpoints
type ArticleHandler struct {
	BaseHandler
	articleService *appcatalog.ArticleService
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(articleService *appcatalog.ArticleService) *ArticleHandler {
	return &ArticleHandler{articleService: articleService}
}

// Create handles POST /articles
func (h *ArticleHandler) Create(c *gin.Context) {
	var req appcatalog.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	article, err := h.articleService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, article)
}

// Get handles GET /articles/:id
func (h *ArticleHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid article ID")
		return
	}

	article, err := h.articleService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, article)
}

// List handles GET /articles
func (h *ArticleHandler) List(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if categoryID := c.Query("category_id"); categoryID != "" {
		id, err := uuid.Parse(categoryID)
		if err != nil {
			h.BadRequest(c, "Invalid category ID")
			return
		}
		filter.Filters["category_id"] = id
	}
	if unit := c.Query("unit"); unit != "" {
		filter.Filters["unit"] = unit
	}
	if c.Query("below_minimum") == "true" {
		filter.Filters["below_minimum"] = true
	}

	result, err := h.articleService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, filter.Page, filter.PageSize)
}

// ListBelowMinimum handles GET /articles/below-minimum
func (h *ArticleHandler) ListBelowMinimum(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	articles, err := h.articleService.ListBelowMinimum(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, articles)
}

// Update handles PUT /articles/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid article ID")
		return
	}

	var req appcatalog.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	article, err := h.articleService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, article)
}

// Delete handles DELETE /articles/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid article ID")
		return
	}

	if err := h.articleService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
