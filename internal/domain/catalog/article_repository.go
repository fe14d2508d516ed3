package catalog

import (
	"context"

	"github.com/gestock/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ArticleRepository defines persistence operations for articles
type ArticleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Article, error)
	FindByCode(ctx context.Context, code string) (*Article, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Article, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Article, error)
	FindBelowMinimum(ctx context.Context, filter shared.Filter) ([]Article, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, article *Article) error
	Delete(ctx context.Context, id uuid.UUID) error
}
