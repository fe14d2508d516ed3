package catalog

import (
	"time"

	"github.com/gestock/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateArticleRequest represents a request to create a new article
type CreateArticleRequest struct {
	Code         string           `json:"code" binding:"required,min=1,max=50"`
	Designation  string           `json:"designation" binding:"required,min=1,max=200"`
	Unit         string           `json:"unit" binding:"required,min=1,max=20"`
	UnitPrice    decimal.Decimal  `json:"unit_price"`
	MinimumStock *decimal.Decimal `json:"minimum_stock"`
	CategoryID   *uuid.UUID       `json:"category_id"`
}

// UpdateArticleRequest represents a request to update an article.
// The stock balance is not updatable here; only reconciliation moves it.
type UpdateArticleRequest struct {
	Designation  string           `json:"designation" binding:"required,min=1,max=200"`
	Unit         string           `json:"unit" binding:"required,min=1,max=20"`
	UnitPrice    decimal.Decimal  `json:"unit_price"`
	MinimumStock *decimal.Decimal `json:"minimum_stock"`
	CategoryID   *uuid.UUID       `json:"category_id"`
}

// ArticleResponse represents an article in API responses
type ArticleResponse struct {
	ID           uuid.UUID       `json:"id"`
	Code         string          `json:"code"`
	Designation  string          `json:"designation"`
	Unit         string          `json:"unit"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinimumStock decimal.Decimal `json:"minimum_stock"`
	StockValue   decimal.Decimal `json:"stock_value"`
	BelowMinimum bool            `json:"below_minimum"`
	CategoryID   *uuid.UUID      `json:"category_id"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Code        string `json:"code" binding:"required,min=1,max=50"`
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=2000"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=2000"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toArticleResponse(article *catalog.Article) *ArticleResponse {
	return &ArticleResponse{
		ID:           article.ID,
		Code:         article.Code,
		Designation:  article.Designation,
		Unit:         article.Unit,
		UnitPrice:    article.UnitPrice,
		CurrentStock: article.CurrentStock,
		MinimumStock: article.MinimumStock,
		StockValue:   article.StockValue(),
		BelowMinimum: article.IsBelowMinimum(),
		CategoryID:   article.CategoryID,
		CreatedAt:    article.CreatedAt,
		UpdatedAt:    article.UpdatedAt,
		Version:      article.Version,
	}
}

func toCategoryResponse(category *catalog.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          category.ID,
		Code:        category.Code,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}
