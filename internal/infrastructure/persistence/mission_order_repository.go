package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gestock/backend/internal/domain/ops"
	"github.com/gestock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMissionOrderRepository implements ops.MissionOrderRepository using GORM
type GormMissionOrderRepository struct {
	db *gorm.DB
}

// NewGormMissionOrderRepository creates a new GormMissionOrderRepository
func NewGormMissionOrderRepository(db *gorm.DB) *GormMissionOrderRepository {
	return &GormMissionOrderRepository{db: db}
}

// FindByID finds a mission order by its ID
func (r *GormMissionOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ops.MissionOrder, error) {
	var order ops.MissionOrder
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByNumber finds a mission order by its number
func (r *GormMissionOrderRepository) FindByNumber(ctx context.Context, number string) (*ops.MissionOrder, error) {
	var order ops.MissionOrder
	if err := r.db.WithContext(ctx).
		Where("number = ?", strings.TrimSpace(number)).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds mission orders matching the filter, optionally restricted to one status
func (r *GormMissionOrderRepository) FindAll(ctx context.Context, status *ops.MissionOrderStatus, filter shared.Filter) ([]ops.MissionOrder, error) {
	var orders []ops.MissionOrder
	query := r.db.WithContext(ctx).Model(&ops.MissionOrder{})
	query = r.applyStatus(query, status)
	query = r.applySearch(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, MissionOrderSortFields, "start_date")
	orderDir := ValidateSortOrder(filter.OrderDir)

	if err := query.Order(orderBy + " " + orderDir).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Count counts mission orders matching the filter
func (r *GormMissionOrderRepository) Count(ctx context.Context, status *ops.MissionOrderStatus, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&ops.MissionOrder{})
	query = r.applyStatus(query, status)
	query = r.applySearch(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateNumber generates the next mission order number.
// Format: OM-YYYY-NNNNN.
func (r *GormMissionOrderRepository) GenerateNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("%s-%d-", ops.MissionOrderNumberPrefix, year)

	var lastOrder ops.MissionOrder
	err := r.db.WithContext(ctx).
		Model(&ops.MissionOrder{}).
		Where("number LIKE ?", prefix+"%").
		Order("number DESC").
		First(&lastOrder).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastOrder.Number != "" {
		parts := strings.Split(lastOrder.Number, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// Save creates or updates a mission order
func (r *GormMissionOrderRepository) Save(ctx context.Context, order *ops.MissionOrder) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// Delete deletes a mission order
func (r *GormMissionOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ops.MissionOrder{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormMissionOrderRepository) applyStatus(query *gorm.DB, status *ops.MissionOrderStatus) *gorm.DB {
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	return query
}

func (r *GormMissionOrderRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR agent ILIKE ? OR destination ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "date_from":
			query = query.Where("start_date >= ?", value)
		case "date_to":
			query = query.Where("end_date <= ?", value)
		case "agent":
			query = query.Where("agent = ?", value)
		}
	}

	return query
}

// Ensure GormMissionOrderRepository implements MissionOrderRepository
var _ ops.MissionOrderRepository = (*GormMissionOrderRepository)(nil)
