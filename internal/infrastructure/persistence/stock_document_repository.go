package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gestock/backend/internal/domain/shared"
	"github.com/gestock/backend/internal/domain/stock"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDocumentRepository implements stock.DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// FindByID finds a stock document with its lines
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.StockDocument, error) {
	var doc stock.StockDocument
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindByNumber finds a stock document by its document number
func (r *GormDocumentRepository) FindByNumber(ctx context.Context, number string) (*stock.StockDocument, error) {
	var doc stock.StockDocument
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("number = ?", strings.TrimSpace(number)).
		First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindAll finds documents matching the filter, optionally restricted to one direction
func (r *GormDocumentRepository) FindAll(ctx context.Context, direction *stock.Direction, filter shared.Filter) ([]stock.StockDocument, error) {
	var docs []stock.StockDocument
	query := r.db.WithContext(ctx).Model(&stock.StockDocument{}).Preload("Lines")
	query = r.applyDirection(query, direction)
	query = r.applySearch(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, DocumentSortFields, "document_date")
	orderDir := ValidateSortOrder(filter.OrderDir)

	if err := query.Order(orderBy + " " + orderDir).Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// Count counts documents matching the filter
func (r *GormDocumentRepository) Count(ctx context.Context, direction *stock.Direction, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&stock.StockDocument{})
	query = r.applyDirection(query, direction)
	query = r.applySearch(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindLines returns all lines of a document
func (r *GormDocumentRepository) FindLines(ctx context.Context, documentID uuid.UUID) ([]stock.DocumentLine, error) {
	var lines []stock.DocumentLine
	if err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("created_at ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// ReplaceLines overwrites the full line set of a document. All existing
// lines are deleted and the given lines inserted with their fresh IDs.
func (r *GormDocumentRepository) ReplaceLines(ctx context.Context, documentID uuid.UUID, lines []stock.DocumentLine) error {
	if err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Delete(&stock.DocumentLine{}).Error; err != nil {
		return err
	}

	if len(lines) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Create(&lines).Error
}

// GenerateNumber generates the next document number for a direction.
// Format: BR-YYYY-NNNNN for receipts, BS-YYYY-NNNNN for issues.
func (r *GormDocumentRepository) GenerateNumber(ctx context.Context, direction stock.Direction) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("%s-%d-", direction.NumberPrefix(), year)

	// The sequence is zero padded to five digits, so a plain lexicographic
	// sort breaks once it passes 99999 and the suffix widens. Ordering by
	// length first keeps the widest, and therefore highest, number on top.
	var lastDoc stock.StockDocument
	err := r.db.WithContext(ctx).
		Model(&stock.StockDocument{}).
		Where("number LIKE ?", prefix+"%").
		Order("length(number) DESC, number DESC").
		First(&lastDoc).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastDoc.Number != "" {
		parts := strings.Split(lastDoc.Number, "-")
		if len(parts) == 3 {
			if num, parseErr := strconv.ParseInt(parts[2], 10, 64); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// Save creates or updates a document header. Lines are managed exclusively
// through ReplaceLines.
func (r *GormDocumentRepository) Save(ctx context.Context, doc *stock.StockDocument) error {
	return r.db.WithContext(ctx).Omit("Lines").Save(doc).Error
}

// Delete deletes a document and its lines
func (r *GormDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("document_id = ?", id).
		Delete(&stock.DocumentLine{}).Error; err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&stock.StockDocument{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormDocumentRepository) applyDirection(query *gorm.DB, direction *stock.Direction) *gorm.DB {
	if direction != nil {
		query = query.Where("direction = ?", *direction)
	}
	return query
}

func (r *GormDocumentRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR counterparty ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "date_from":
			query = query.Where("document_date >= ?", value)
		case "date_to":
			query = query.Where("document_date <= ?", value)
		case "counterparty":
			query = query.Where("counterparty = ?", value)
		}
	}

	return query
}

// Ensure GormDocumentRepository implements DocumentRepository
var _ stock.DocumentRepository = (*GormDocumentRepository)(nil)
