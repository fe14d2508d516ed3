package finance

import (
	"context"
	"testing"
	"time"

	"github.com/gestock/backend/internal/domain/finance"
	"github.com/gestock/backend/internal/domain/shared"
	"github.com/gestock/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPaymentRepository is a mock implementation of finance.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.Payment, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]finance.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByDocument(ctx context.Context, documentID uuid.UUID) ([]finance.Payment, error) {
	args := m.Called(ctx, documentID)
	return args.Get(0).([]finance.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepository) SumByDocument(ctx context.Context, documentID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, documentID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, payment *finance.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

// MockDocumentRepository is a mock implementation of stock.DocumentRepository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.StockDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.StockDocument), args.Error(1)
}

func (m *MockDocumentRepository) FindByNumber(ctx context.Context, number string) (*stock.StockDocument, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.StockDocument), args.Error(1)
}

func (m *MockDocumentRepository) FindAll(ctx context.Context, direction *stock.Direction, filter shared.Filter) ([]stock.StockDocument, error) {
	args := m.Called(ctx, direction, filter)
	return args.Get(0).([]stock.StockDocument), args.Error(1)
}

func (m *MockDocumentRepository) Count(ctx context.Context, direction *stock.Direction, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, direction, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentRepository) FindLines(ctx context.Context, documentID uuid.UUID) ([]stock.DocumentLine, error) {
	args := m.Called(ctx, documentID)
	return args.Get(0).([]stock.DocumentLine), args.Error(1)
}

func (m *MockDocumentRepository) ReplaceLines(ctx context.Context, documentID uuid.UUID, lines []stock.DocumentLine) error {
	args := m.Called(ctx, documentID, lines)
	return args.Error(0)
}

func (m *MockDocumentRepository) GenerateNumber(ctx context.Context, direction stock.Direction) (string, error) {
	args := m.Called(ctx, direction)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentRepository) Save(ctx context.Context, doc *stock.StockDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func receiptWithTotal(t *testing.T, total int64) *stock.StockDocument {
	t.Helper()
	doc, err := stock.NewStockDocument(stock.DirectionInbound, "BR-2026-00001", time.Now(), "Supplier", uuid.New())
	require.NoError(t, err)
	line, err := stock.NewDocumentLine(doc.ID, uuid.New(), decimal.NewFromInt(1), decimal.NewFromInt(total))
	require.NoError(t, err)
	doc.Lines = []stock.DocumentLine{*line}
	return doc
}

func TestPaymentServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("records payment against receipt", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepository)
		documentRepo := new(MockDocumentRepository)
		service := NewPaymentService(paymentRepo, documentRepo)

		doc := receiptWithTotal(t, 10000)
		documentRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
		paymentRepo.On("SumByDocument", mock.Anything, doc.ID).Return(decimal.Zero, nil)
		paymentRepo.On("Save", mock.Anything, mock.AnythingOfType("*finance.Payment")).Return(nil)

		resp, err := service.Create(ctx, CreatePaymentRequest{
			DocumentID: doc.ID,
			Amount:     decimal.NewFromInt(4000),
			Method:     "TRANSFER",
			Reference:  "VIR-554",
		})
		require.NoError(t, err)
		assert.Equal(t, "TRANSFER", resp.Method)
	})

	t.Run("rejects overpayment", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepository)
		documentRepo := new(MockDocumentRepository)
		service := NewPaymentService(paymentRepo, documentRepo)

		doc := receiptWithTotal(t, 10000)
		documentRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
		paymentRepo.On("SumByDocument", mock.Anything, doc.ID).Return(decimal.NewFromInt(8000), nil)

		_, err := service.Create(ctx, CreatePaymentRequest{
			DocumentID: doc.ID,
			Amount:     decimal.NewFromInt(4000),
			Method:     "CASH",
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OVERPAYMENT", domainErr.Code)
		paymentRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects issue notes", func(t *testing.T) {
		paymentRepo := new(MockPaymentRepository)
		documentRepo := new(MockDocumentRepository)
		service := NewPaymentService(paymentRepo, documentRepo)

		doc, err := stock.NewStockDocument(stock.DirectionOutbound, "BS-2026-00001", time.Now(), "Service", uuid.New())
		require.NoError(t, err)
		documentRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)

		_, err = service.Create(ctx, CreatePaymentRequest{
			DocumentID: doc.ID,
			Amount:     decimal.NewFromInt(100),
			Method:     "CASH",
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_DOCUMENT", domainErr.Code)
	})
}
