package finance

import (
	"context"
	"errors"

	"github.com/gestock/backend/internal/domain/finance"
	"github.com/gestock/backend/internal/domain/shared"
	"github.com/gestock/backend/internal/domain/stock"
	"github.com/google/uuid"
)

// PaymentService handles supplier payment operations
type PaymentService struct {
	paymentRepo  finance.PaymentRepository
	documentRepo stock.DocumentRepository
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(paymentRepo finance.PaymentRepository, documentRepo stock.DocumentRepository) *PaymentService {
	return &PaymentService{
		paymentRepo:  paymentRepo,
		documentRepo: documentRepo,
	}
}

// Create records a payment against a receipt note. The total paid may not
// exceed the document's total amount.
func (s *PaymentService) Create(ctx context.Context, req CreatePaymentRequest) (*PaymentResponse, error) {
	doc, err := s.documentRepo.FindByID(ctx, req.DocumentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_DOCUMENT", "Document not found")
		}
		return nil, err
	}
	if doc.Direction != stock.DirectionInbound {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Payments can only reference receipt notes")
	}

	alreadyPaid, err := s.paymentRepo.SumByDocument(ctx, req.DocumentID)
	if err != nil {
		return nil, err
	}
	if alreadyPaid.Add(req.Amount).GreaterThan(doc.TotalAmount()) {
		return nil, shared.NewDomainError("OVERPAYMENT", "Payment would exceed the document total")
	}

	createdBy := uuid.Nil
	if req.CreatedBy != nil {
		createdBy = *req.CreatedBy
	}

	payment, err := finance.NewPayment(req.DocumentID, req.Amount, finance.PaymentMethod(req.Method), req.Reference, req.PaymentDate, createdBy)
	if err != nil {
		return nil, err
	}
	payment.Remark = req.Remark

	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}

	return toPaymentResponse(payment), nil
}

// GetByID returns a payment by ID
func (s *PaymentService) GetByID(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPaymentResponse(payment), nil
}

// List returns a page of payments
func (s *PaymentService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[PaymentResponse], error) {
	payments, err := s.paymentRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.paymentRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		items = append(items, *toPaymentResponse(&payments[i]))
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListByDocument returns all payments recorded against a document
func (s *PaymentService) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]PaymentResponse, error) {
	payments, err := s.paymentRepo.FindByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	items := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		items = append(items, *toPaymentResponse(&payments[i]))
	}
	return items, nil
}
