package stock

import (
	"time"

	"github.com/gestock/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateDocumentRequest represents a request to create a stock document
type CreateDocumentRequest struct {
	Direction    string    `json:"direction" binding:"required,oneof=INBOUND OUTBOUND"`
	DocumentDate time.Time `json:"document_date"`
	Counterparty string    `json:"counterparty" binding:"required,min=1,max=200"`
	Remark       string    `json:"remark" binding:"max=500"`
	CreatedBy    *uuid.UUID `json:"-"`
}

// UpdateDocumentRequest represents a request to update a document's header
type UpdateDocumentRequest struct {
	DocumentDate time.Time `json:"document_date"`
	Counterparty string    `json:"counterparty" binding:"required,min=1,max=200"`
	Remark       string    `json:"remark" binding:"max=500"`
}

// LineRequest is one line item in a full line replacement
type LineRequest struct {
	ArticleID uuid.UUID       `json:"article_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ReplaceLinesRequest represents a full replacement of a document's lines.
// An empty list is valid and clears the document.
type ReplaceLinesRequest struct {
	Lines []LineRequest `json:"lines" binding:"required"`
}

// LineResponse represents a document line in API responses
type LineResponse struct {
	ID        uuid.UUID       `json:"id"`
	ArticleID uuid.UUID       `json:"article_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// DocumentResponse represents a stock document in API responses
type DocumentResponse struct {
	ID           uuid.UUID       `json:"id"`
	Number       string          `json:"number"`
	Direction    string          `json:"direction"`
	DocumentDate time.Time       `json:"document_date"`
	Counterparty string          `json:"counterparty"`
	Remark       string          `json:"remark"`
	CreatedBy    *uuid.UUID      `json:"created_by"`
	Lines        []LineResponse  `json:"lines"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
}

// DocumentListResponse represents a list item for documents
type DocumentListResponse struct {
	ID           uuid.UUID `json:"id"`
	Number       string    `json:"number"`
	Direction    string    `json:"direction"`
	DocumentDate time.Time `json:"document_date"`
	Counterparty string    `json:"counterparty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ReconcileResponse reports the outcome of a line replacement
type ReconcileResponse struct {
	Document DocumentResponse     `json:"document"`
	Deltas   []stock.ArticleDelta `json:"deltas"`
}

func toLineResponse(line stock.DocumentLine) LineResponse {
	return LineResponse{
		ID:        line.ID,
		ArticleID: line.ArticleID,
		Quantity:  line.Quantity,
		UnitPrice: line.UnitPrice,
		Amount:    line.Amount(),
	}
}

func toDocumentResponse(doc *stock.StockDocument) *DocumentResponse {
	lines := make([]LineResponse, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		lines = append(lines, toLineResponse(line))
	}

	return &DocumentResponse{
		ID:           doc.ID,
		Number:       doc.Number,
		Direction:    doc.Direction.String(),
		DocumentDate: doc.DocumentDate,
		Counterparty: doc.Counterparty,
		Remark:       doc.Remark,
		CreatedBy:    doc.CreatedBy,
		Lines:        lines,
		TotalAmount:  doc.TotalAmount(),
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
		Version:      doc.Version,
	}
}

func toDocumentListResponse(doc *stock.StockDocument) DocumentListResponse {
	return DocumentListResponse{
		ID:           doc.ID,
		Number:       doc.Number,
		Direction:    doc.Direction.String(),
		DocumentDate: doc.DocumentDate,
		Counterparty: doc.Counterparty,
		CreatedAt:    doc.CreatedAt,
	}
}
