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

// GormReceptionReportRepository implements ops.ReceptionReportRepository using GORM
type GormReceptionReportRepository struct {
	db *gorm.DB
}

// NewGormReceptionReportRepository creates a new GormReceptionReportRepository
func NewGormReceptionReportRepository(db *gorm.DB) *GormReceptionReportRepository {
	return &GormReceptionReportRepository{db: db}
}

// FindByID finds a reception report by its ID
func (r *GormReceptionReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*ops.ReceptionReport, error) {
	var report ops.ReceptionReport
	if err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

// FindByDocument finds the reception report attached to a receipt document
func (r *GormReceptionReportRepository) FindByDocument(ctx context.Context, documentID uuid.UUID) (*ops.ReceptionReport, error) {
	var report ops.ReceptionReport
	if err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

// FindAll finds reception reports matching the filter
func (r *GormReceptionReportRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ops.ReceptionReport, error) {
	var reports []ops.ReceptionReport
	query := r.applySearch(r.db.WithContext(ctx).Model(&ops.ReceptionReport{}), filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ReceptionReportSortFields, "report_date")
	orderDir := ValidateSortOrder(filter.OrderDir)

	if err := query.Order(orderBy + " " + orderDir).Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// Count counts reception reports matching the filter
func (r *GormReceptionReportRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&ops.ReceptionReport{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateNumber generates the next reception report number.
// Format: PV-YYYY-NNNNN.
func (r *GormReceptionReportRepository) GenerateNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("%s-%d-", ops.ReceptionReportNumberPrefix, year)

	var lastReport ops.ReceptionReport
	err := r.db.WithContext(ctx).
		Model(&ops.ReceptionReport{}).
		Where("number LIKE ?", prefix+"%").
		Order("number DESC").
		First(&lastReport).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastReport.Number != "" {
		parts := strings.Split(lastReport.Number, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// Save creates or updates a reception report
func (r *GormReceptionReportRepository) Save(ctx context.Context, report *ops.ReceptionReport) error {
	return r.db.WithContext(ctx).Save(report).Error
}

func (r *GormReceptionReportRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("number ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "verdict":
			query = query.Where("verdict = ?", value)
		case "document_id":
			query = query.Where("document_id = ?", value)
		case "date_from":
			query = query.Where("report_date >= ?", value)
		case "date_to":
			query = query.Where("report_date <= ?", value)
		}
	}

	return query
}

// Ensure GormReceptionReportRepository implements ReceptionReportRepository
var _ ops.ReceptionReportRepository = (*GormReceptionReportRepository)(nil)
