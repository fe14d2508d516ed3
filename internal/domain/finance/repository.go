package finance

import (
	"context"

	"github.com/gestock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRepository defines persistence operations for payments
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Payment, error)
	FindByDocument(ctx context.Context, documentID uuid.UUID) ([]Payment, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	SumByDocument(ctx context.Context, documentID uuid.UUID) (decimal.Decimal, error)
	Save(ctx context.Context, payment *Payment) error
}
