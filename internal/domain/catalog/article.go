package catalog

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gestock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxArticleCodeLength is the maximum length of an article code
const MaxArticleCodeLength = 50

var articleCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Article represents a stock-keeping unit in the catalog.
// It is the aggregate root for article operations; CurrentStock is the
// running balance adjusted exclusively by stock reconciliation.
type Article struct {
	shared.BaseAggregateRoot
	Code         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Designation  string          `gorm:"type:varchar(200);not null"`
	Unit         string          `gorm:"type:varchar(20);not null"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CurrentStock decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinimumStock decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CategoryID   *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Article) TableName() string {
	return "articles"
}

// NewArticle creates a new article with zero stock
func NewArticle(code, designation, unit string, unitPrice decimal.Decimal) (*Article, error) {
	if err := validateArticleCode(code); err != nil {
		return nil, err
	}
	if strings.TrimSpace(designation) == "" {
		return nil, shared.NewDomainError("INVALID_DESIGNATION", "Article designation cannot be empty")
	}
	if strings.TrimSpace(unit) == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit of measure cannot be empty")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	article := &Article{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(strings.TrimSpace(code)),
		Designation:       strings.TrimSpace(designation),
		Unit:              strings.TrimSpace(unit),
		UnitPrice:         unitPrice,
		CurrentStock:      decimal.Zero,
		MinimumStock:      decimal.Zero,
	}

	article.AddDomainEvent(NewArticleCreatedEvent(article))

	return article, nil
}

// Update updates the article's descriptive attributes.
// CurrentStock is deliberately not touched here; only reconciliation moves it.
func (a *Article) Update(designation, unit string, unitPrice decimal.Decimal) error {
	if strings.TrimSpace(designation) == "" {
		return shared.NewDomainError("INVALID_DESIGNATION", "Article designation cannot be empty")
	}
	if strings.TrimSpace(unit) == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit of measure cannot be empty")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	a.Designation = strings.TrimSpace(designation)
	a.Unit = strings.TrimSpace(unit)
	a.UnitPrice = unitPrice
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewArticleUpdatedEvent(a))

	return nil
}

// SetCategory assigns the article to a category
func (a *Article) SetCategory(categoryID uuid.UUID) {
	if categoryID == uuid.Nil {
		a.CategoryID = nil
	} else {
		a.CategoryID = &categoryID
	}
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// SetMinimumStock sets the informational low-stock threshold
func (a *Article) SetMinimumStock(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Minimum stock cannot be negative")
	}
	a.MinimumStock = quantity
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// ApplyStockDelta applies a signed quantity delta to the running balance.
// The balance never goes below zero: a delta larger than the current balance
// clamps to zero and silently absorbs the discrepancy.
func (a *Article) ApplyStockDelta(delta decimal.Decimal) {
	if delta.IsZero() {
		return
	}

	before := a.CurrentStock
	next := before.Add(delta)
	if next.IsNegative() {
		next = decimal.Zero
	}

	a.CurrentStock = next
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewArticleStockAdjustedEvent(a, before, next, delta))

	if a.IsBelowMinimum() {
		a.AddDomainEvent(NewArticleBelowMinimumEvent(a))
	}
}

// CanSatisfy returns true if the current balance covers the requested quantity
func (a *Article) CanSatisfy(quantity decimal.Decimal) bool {
	return a.CurrentStock.GreaterThanOrEqual(quantity)
}

// IsBelowMinimum returns true if the balance is below the configured threshold
func (a *Article) IsBelowMinimum() bool {
	return a.MinimumStock.GreaterThan(decimal.Zero) && a.CurrentStock.LessThan(a.MinimumStock)
}

// StockValue returns the value of the stock on hand (balance * unit price)
func (a *Article) StockValue() decimal.Decimal {
	return a.CurrentStock.Mul(a.UnitPrice)
}

func validateArticleCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Article code cannot be empty")
	}
	if len(code) > MaxArticleCodeLength {
		return shared.NewDomainError("INVALID_CODE", fmt.Sprintf("Article code cannot exceed %d characters", MaxArticleCodeLength))
	}
	if !articleCodePattern.MatchString(code) {
		return shared.NewDomainError("INVALID_CODE", "Article code can only contain letters, digits, underscore and hyphen")
	}
	return nil
}
