package stock

import (
	"strings"
	"time"

	"github.com/gestock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction indicates which way a stock document moves goods
type Direction string

const (
	// DirectionInbound marks a receipt note: stock increases
	DirectionInbound Direction = "INBOUND"
	// DirectionOutbound marks an issue note: stock decreases
	DirectionOutbound Direction = "OUTBOUND"
)

// IsValid checks if the direction is a known value
func (d Direction) IsValid() bool {
	return d == DirectionInbound || d == DirectionOutbound
}

// String returns the string representation of the direction
func (d Direction) String() string {
	return string(d)
}

// NumberPrefix returns the document-number prefix for this direction
func (d Direction) NumberPrefix() string {
	if d == DirectionInbound {
		return "BR"
	}
	return "BS"
}

// StockDocument represents a receipt note (bon de réception) or an issue
// note (bon de sortie). The two variants are structurally identical and
// differ only in the sign convention applied during reconciliation.
// It is the aggregate root owning the document's line items.
type StockDocument struct {
	shared.OwnedAggregateRoot
	Number       string    `gorm:"type:varchar(30);not null;uniqueIndex"`
	Direction    Direction `gorm:"type:varchar(10);not null;index"`
	DocumentDate time.Time `gorm:"not null"`
	// Counterparty is the supplier for receipts and the recipient for issues
	Counterparty string `gorm:"type:varchar(200);not null"`
	Remark       string `gorm:"type:varchar(500)"`

	Lines []DocumentLine `gorm:"foreignKey:DocumentID;references:ID"`
}

// TableName returns the table name for GORM
func (StockDocument) TableName() string {
	return "stock_documents"
}

// NewStockDocument creates a new stock document with no lines.
// The document number is assigned by the repository before first save.
func NewStockDocument(direction Direction, number string, documentDate time.Time, counterparty string, createdBy uuid.UUID) (*StockDocument, error) {
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Document direction must be INBOUND or OUTBOUND")
	}
	if strings.TrimSpace(counterparty) == "" {
		return nil, shared.NewDomainError("INVALID_COUNTERPARTY", "Counterparty cannot be empty")
	}
	if documentDate.IsZero() {
		documentDate = time.Now()
	}

	doc := &StockDocument{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(createdBy),
		Number:             number,
		Direction:          direction,
		DocumentDate:       documentDate,
		Counterparty:       strings.TrimSpace(counterparty),
		Lines:              make([]DocumentLine, 0),
	}

	doc.AddDomainEvent(NewDocumentCreatedEvent(doc))

	return doc, nil
}

// UpdateHeader updates the document's header fields
func (d *StockDocument) UpdateHeader(documentDate time.Time, counterparty, remark string) error {
	if strings.TrimSpace(counterparty) == "" {
		return shared.NewDomainError("INVALID_COUNTERPARTY", "Counterparty cannot be empty")
	}
	if !documentDate.IsZero() {
		d.DocumentDate = documentDate
	}
	d.Counterparty = strings.TrimSpace(counterparty)
	d.Remark = remark
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}

// TotalAmount returns the sum of all line amounts
func (d *StockDocument) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, line := range d.Lines {
		total = total.Add(line.Amount())
	}
	return total
}

// DocumentLine is one article-quantity-price entry within a stock document.
// Lines are created and destroyed in bulk when a document's line set is
// replaced; they are never mutated individually.
type DocumentLine struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	DocumentID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ArticleID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentLine) TableName() string {
	return "document_lines"
}

// NewDocumentLine creates a new document line with a fresh identity
func NewDocumentLine(documentID, articleID uuid.UUID, quantity, unitPrice decimal.Decimal) (*DocumentLine, error) {
	if articleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ARTICLE", "Article ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &DocumentLine{
		ID:         uuid.New(),
		DocumentID: documentID,
		ArticleID:  articleID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		CreatedAt:  time.Now(),
	}, nil
}

// Amount returns the derived line amount (quantity * unit price).
// The amount is never stored as independent truth.
func (l *DocumentLine) Amount() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}
