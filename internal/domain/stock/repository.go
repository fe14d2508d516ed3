package stock

import (
	"context"

	"github.com/gestock/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DocumentRepository defines persistence operations for stock documents
// and their line items. Line replacement is a full overwrite: all existing
// lines for the document are deleted and the new list is inserted with
// fresh identities.
type DocumentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockDocument, error)
	FindByNumber(ctx context.Context, number string) (*StockDocument, error)
	FindAll(ctx context.Context, direction *Direction, filter shared.Filter) ([]StockDocument, error)
	Count(ctx context.Context, direction *Direction, filter shared.Filter) (int64, error)
	FindLines(ctx context.Context, documentID uuid.UUID) ([]DocumentLine, error)
	ReplaceLines(ctx context.Context, documentID uuid.UUID, lines []DocumentLine) error
	GenerateNumber(ctx context.Context, direction Direction) (string, error)
	Save(ctx context.Context, doc *StockDocument) error
	Delete(ctx context.Context, id uuid.UUID) error
}
