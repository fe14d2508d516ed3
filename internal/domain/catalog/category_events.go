package catalog

import (
	"github.com/gestock/backend/internal/domain/shared"
)

// Category event types
const (
	EventTypeCategoryCreated = "catalog.category.created"
	EventTypeCategoryUpdated = "catalog.category.updated"
)

// CategoryAggregateType is the aggregate type for category events
const CategoryAggregateType = "Category"

// CategoryCreatedEvent is published when a new category is created
type CategoryCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewCategoryCreatedEvent creates a new CategoryCreatedEvent
func NewCategoryCreatedEvent(category *Category) *CategoryCreatedEvent {
	return &CategoryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryCreated, CategoryAggregateType, category.ID),
		Code:            category.Code,
		Name:            category.Name,
	}
}

// CategoryUpdatedEvent is published when a category is updated
type CategoryUpdatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
}

// NewCategoryUpdatedEvent creates a new CategoryUpdatedEvent
func NewCategoryUpdatedEvent(category *Category) *CategoryUpdatedEvent {
	return &CategoryUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryUpdated, CategoryAggregateType, category.ID),
		Code:            category.Code,
	}
}
