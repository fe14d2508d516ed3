package persistence

import (
	"context"
	"errors"

	"github.com/gestock/backend/internal/domain/ops"
	"github.com/gestock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDistributionRepository implements ops.DistributionRepository using GORM
type GormDistributionRepository struct {
	db *gorm.DB
}

// NewGormDistributionRepository creates a new GormDistributionRepository
func NewGormDistributionRepository(db *gorm.DB) *GormDistributionRepository {
	return &GormDistributionRepository{db: db}
}

// FindByID finds a distribution by its ID
func (r *GormDistributionRepository) FindByID(ctx context.Context, id uuid.UUID) (*ops.Distribution, error) {
	var dist ops.Distribution
	if err := r.db.WithContext(ctx).First(&dist, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &dist, nil
}

// FindAll finds all distributions matching the filter
func (r *GormDistributionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ops.Distribution, error) {
	var dists []ops.Distribution
	query := r.applyFilter(r.db.WithContext(ctx).Model(&ops.Distribution{}), filter)

	if err := query.Find(&dists).Error; err != nil {
		return nil, err
	}
	return dists, nil
}

// FindByArticle finds distributions of a specific article
func (r *GormDistributionRepository) FindByArticle(ctx context.Context, articleID uuid.UUID, filter shared.Filter) ([]ops.Distribution, error) {
	var dists []ops.Distribution
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&ops.Distribution{}).Where("article_id = ?", articleID),
		filter,
	)

	if err := query.Find(&dists).Error; err != nil {
		return nil, err
	}
	return dists, nil
}

// Count counts distributions matching the filter
func (r *GormDistributionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&ops.Distribution{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a distribution
func (r *GormDistributionRepository) Save(ctx context.Context, dist *ops.Distribution) error {
	return r.db.WithContext(ctx).Save(dist).Error
}

// Delete deletes a distribution
func (r *GormDistributionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ops.Distribution{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormDistributionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, DistributionSortFields, "distribution_date")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormDistributionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("beneficiary ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "article_id":
			query = query.Where("article_id = ?", value)
		case "document_id":
			query = query.Where("document_id = ?", value)
		case "date_from":
			query = query.Where("distribution_date >= ?", value)
		case "date_to":
			query = query.Where("distribution_date <= ?", value)
		}
	}

	return query
}

// Ensure GormDistributionRepository implements DistributionRepository
var _ ops.DistributionRepository = (*GormDistributionRepository)(nil)
