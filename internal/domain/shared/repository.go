package shared

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the access pattern every aggregate store follows. Concrete
// repositories add the domain-specific queries on top.
type Repository[T any] interface {
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	FindAll(ctx context.Context, filter Filter) ([]T, error)
	Save(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter Filter) (int64, error)
}

// Filter carries the paging, ordering, and search options list handlers
// pass down to repositories. Filters holds column-specific criteria such
// as a date range or a counterparty.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}

// DefaultFilter returns the paging applied when a request names none:
// first page, twenty rows, newest first.
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
}

// Paginated is one page of results plus the totals a client needs to
// render pagination.
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated assembles a result page, deriving TotalPages from the
// total row count.
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	pages := (total + int64(pageSize) - 1) / int64(pageSize)
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(pages),
	}
}
