package catalog

import (
	"github.com/gestock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Article event types
const (
	EventTypeArticleCreated       = "catalog.article.created"
	EventTypeArticleUpdated       = "catalog.article.updated"
	EventTypeArticleStockAdjusted = "catalog.article.stock_adjusted"
	EventTypeArticleBelowMinimum  = "catalog.article.below_minimum"
)

// ArticleAggregateType is the aggregate type for article events
const ArticleAggregateType = "Article"

// ArticleCreatedEvent is published when a new article is created
type ArticleCreatedEvent struct {
	shared.BaseDomainEvent
	Code        string `json:"code"`
	Designation string `json:"designation"`
}

// NewArticleCreatedEvent creates a new ArticleCreatedEvent
func NewArticleCreatedEvent(article *Article) *ArticleCreatedEvent {
	return &ArticleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeArticleCreated, ArticleAggregateType, article.ID),
		Code:            article.Code,
		Designation:     article.Designation,
	}
}

// ArticleUpdatedEvent is published when an article's attributes change
type ArticleUpdatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
}

// NewArticleUpdatedEvent creates a new ArticleUpdatedEvent
func NewArticleUpdatedEvent(article *Article) *ArticleUpdatedEvent {
	return &ArticleUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeArticleUpdated, ArticleAggregateType, article.ID),
		Code:            article.Code,
	}
}

// ArticleStockAdjustedEvent is published when reconciliation moves the balance
type ArticleStockAdjustedEvent struct {
	shared.BaseDomainEvent
	Code          string          `json:"code"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Delta         decimal.Decimal `json:"delta"`
}

// NewArticleStockAdjustedEvent creates a new ArticleStockAdjustedEvent
func NewArticleStockAdjustedEvent(article *Article, before, after, delta decimal.Decimal) *ArticleStockAdjustedEvent {
	return &ArticleStockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeArticleStockAdjusted, ArticleAggregateType, article.ID),
		Code:            article.Code,
		BalanceBefore:   before,
		BalanceAfter:    after,
		Delta:           delta,
	}
}

// ArticleBelowMinimumEvent is published when the balance drops under the threshold
type ArticleBelowMinimumEvent struct {
	shared.BaseDomainEvent
	Code         string          `json:"code"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinimumStock decimal.Decimal `json:"minimum_stock"`
}

// NewArticleBelowMinimumEvent creates a new ArticleBelowMinimumEvent
func NewArticleBelowMinimumEvent(article *Article) *ArticleBelowMinimumEvent {
	return &ArticleBelowMinimumEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeArticleBelowMinimum, ArticleAggregateType, article.ID),
		Code:            article.Code,
		CurrentStock:    article.CurrentStock,
		MinimumStock:    article.MinimumStock,
	}
}
