package catalog

import (
	"context"
	"errors"

	"github.com/gestock/backend/internal/domain/catalog"
	"github.com/gestock/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ArticleService handles article-related business operations
type ArticleService struct {
	articleRepo  catalog.ArticleRepository
	categoryRepo catalog.CategoryRepository
}

// NewArticleService creates a new ArticleService
func NewArticleService(articleRepo catalog.ArticleRepository, categoryRepo catalog.CategoryRepository) *ArticleService {
	return &ArticleService{
		articleRepo:  articleRepo,
		categoryRepo: categoryRepo,
	}
}

// Create creates a new article
func (s *ArticleService) Create(ctx context.Context, req CreateArticleRequest) (*ArticleResponse, error) {
	exists, err := s.articleRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Article with this code already exists")
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return nil, err
		}
	}

	article, err := catalog.NewArticle(req.Code, req.Designation, req.Unit, req.UnitPrice)
	if err != nil {
		return nil, err
	}

	if req.MinimumStock != nil {
		if err := article.SetMinimumStock(*req.MinimumStock); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		article.SetCategory(*req.CategoryID)
	}

	if err := s.articleRepo.Save(ctx, article); err != nil {
		return nil, err
	}

	return toArticleResponse(article), nil
}

// GetByID returns an article by ID
func (s *ArticleService) GetByID(ctx context.Context, id uuid.UUID) (*ArticleResponse, error) {
	article, err := s.articleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toArticleResponse(article), nil
}

// List returns a page of articles
func (s *ArticleService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[ArticleResponse], error) {
	articles, err := s.articleRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.articleRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ArticleResponse, 0, len(articles))
	for i := range articles {
		items = append(items, *toArticleResponse(&articles[i]))
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListBelowMinimum returns articles whose balance dropped under their threshold
func (s *ArticleService) ListBelowMinimum(ctx context.Context, filter shared.Filter) ([]ArticleResponse, error) {
	articles, err := s.articleRepo.FindBelowMinimum(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ArticleResponse, 0, len(articles))
	for i := range articles {
		items = append(items, *toArticleResponse(&articles[i]))
	}
	return items, nil
}

// Update updates an article's descriptive attributes
func (s *ArticleService) Update(ctx context.Context, id uuid.UUID, req UpdateArticleRequest) (*ArticleResponse, error) {
	article, err := s.articleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return nil, err
		}
	}

	if err := article.Update(req.Designation, req.Unit, req.UnitPrice); err != nil {
		return nil, err
	}
	if req.MinimumStock != nil {
		if err := article.SetMinimumStock(*req.MinimumStock); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		article.SetCategory(*req.CategoryID)
	}

	if err := s.articleRepo.Save(ctx, article); err != nil {
		return nil, err
	}

	return toArticleResponse(article), nil
}

// Delete removes an article. Articles still referenced by document lines
// are protected by the foreign key; the repository surfaces that as a
// domain error.
func (s *ArticleService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.articleRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.articleRepo.Delete(ctx, id)
}
