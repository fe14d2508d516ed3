package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/gestock/backend/internal/domain/catalog"
	"github.com/gestock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormArticleRepository implements ArticleRepository using GORM
type GormArticleRepository struct {
	db            *gorm.DB
	lockForUpdate bool
}

// NewGormArticleRepository creates a new GormArticleRepository
func NewGormArticleRepository(db *gorm.DB) *GormArticleRepository {
	return &GormArticleRepository{db: db}
}

// NewGormArticleRepositoryWithLocking creates a repository whose single-row
// reads take a FOR UPDATE lock. Only meaningful inside a transaction.
func NewGormArticleRepositoryWithLocking(db *gorm.DB) *GormArticleRepository {
	return &GormArticleRepository{db: db, lockForUpdate: true}
}

// FindByID finds an article by its ID
func (r *GormArticleRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Article, error) {
	query := r.db.WithContext(ctx)
	if r.lockForUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var article catalog.Article
	if err := query.First(&article, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &article, nil
}

// FindByCode finds an article by its code
func (r *GormArticleRepository) FindByCode(ctx context.Context, code string) (*catalog.Article, error) {
	var article catalog.Article
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &article, nil
}

// FindByIDs finds multiple articles by their IDs
func (r *GormArticleRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Article, error) {
	if len(ids) == 0 {
		return []catalog.Article{}, nil
	}

	var articles []catalog.Article
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

// FindAll finds all articles matching the filter
func (r *GormArticleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Article, error) {
	var articles []catalog.Article
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Article{}), filter)

	if err := query.Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

// FindBelowMinimum finds articles whose balance is below their minimum threshold
func (r *GormArticleRepository) FindBelowMinimum(ctx context.Context, filter shared.Filter) ([]catalog.Article, error) {
	var articles []catalog.Article
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Article{}).
			Where("minimum_stock > 0 AND current_stock < minimum_stock"),
		filter,
	)

	if err := query.Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

// Count counts articles matching the filter
func (r *GormArticleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.Article{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if an article with the given code exists
func (r *GormArticleRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Article{}).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an article
func (r *GormArticleRepository) Save(ctx context.Context, article *catalog.Article) error {
	return r.db.WithContext(ctx).Save(article).Error
}

// Delete deletes an article
func (r *GormArticleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Article{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormArticleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ArticleSortFields, "code")
	orderDir := ValidateSortOrder(filter.OrderDir)
	if filter.OrderBy == "" {
		orderDir = "ASC"
	}
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormArticleRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR designation ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "category_id":
			if value == nil {
				query = query.Where("category_id IS NULL")
			} else {
				query = query.Where("category_id = ?", value)
			}
		case "unit":
			query = query.Where("unit = ?", value)
		case "below_minimum":
			if value == true {
				query = query.Where("minimum_stock > 0 AND current_stock < minimum_stock")
			}
		}
	}

	return query
}

// Ensure GormArticleRepository implements ArticleRepository
var _ catalog.ArticleRepository = (*GormArticleRepository)(nil)
