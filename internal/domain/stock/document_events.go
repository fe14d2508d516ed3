package stock

import (
	"github.com/gestock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stock document event types
const (
	EventTypeDocumentCreated       = "stock.document.created"
	EventTypeDocumentLinesReplaced = "stock.document.lines_replaced"
	EventTypeDocumentDeleted       = "stock.document.deleted"
)

// DocumentAggregateType is the aggregate type for document events
const DocumentAggregateType = "StockDocument"

// DocumentCreatedEvent is published when a new document is created
type DocumentCreatedEvent struct {
	shared.BaseDomainEvent
	Number    string    `json:"number"`
	Direction Direction `json:"direction"`
}

// NewDocumentCreatedEvent creates a new DocumentCreatedEvent
func NewDocumentCreatedEvent(doc *StockDocument) *DocumentCreatedEvent {
	return &DocumentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentCreated, DocumentAggregateType, doc.ID),
		Number:          doc.Number,
		Direction:       doc.Direction,
	}
}

// DocumentLinesReplacedEvent is published after a successful reconciliation
type DocumentLinesReplacedEvent struct {
	shared.BaseDomainEvent
	Number    string          `json:"number"`
	Direction Direction       `json:"direction"`
	LineCount int             `json:"line_count"`
	Deltas    []ArticleDelta  `json:"deltas"`
	Total     decimal.Decimal `json:"total"`
}

// NewDocumentLinesReplacedEvent creates a new DocumentLinesReplacedEvent
func NewDocumentLinesReplacedEvent(doc *StockDocument, deltas []ArticleDelta) *DocumentLinesReplacedEvent {
	return &DocumentLinesReplacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentLinesReplaced, DocumentAggregateType, doc.ID),
		Number:          doc.Number,
		Direction:       doc.Direction,
		LineCount:       len(doc.Lines),
		Deltas:          deltas,
		Total:           doc.TotalAmount(),
	}
}

// DocumentDeletedEvent is published when a document is removed
type DocumentDeletedEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
}

// NewDocumentDeletedEvent creates a new DocumentDeletedEvent
func NewDocumentDeletedEvent(id uuid.UUID, number string) *DocumentDeletedEvent {
	return &DocumentDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentDeleted, DocumentAggregateType, id),
		Number:          number,
	}
}
