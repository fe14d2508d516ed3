package stock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gestock/backend/internal/domain/catalog"
	"github.com/gestock/backend/internal/domain/shared"
	"github.com/gestock/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

// MockArticleRepository is a mock implementation of catalog.ArticleRepository
type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Article), args.Error(1)
}

func (m *MockArticleRepository) FindByCode(ctx context.Context, code string) (*catalog.Article, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Article), args.Error(1)
}

func (m *MockArticleRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Article, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Article), args.Error(1)
}

func (m *MockArticleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Article, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Article), args.Error(1)
}

func (m *MockArticleRepository) FindBelowMinimum(ctx context.Context, filter shared.Filter) ([]catalog.Article, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Article), args.Error(1)
}

func (m *MockArticleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockArticleRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockArticleRepository) Save(ctx context.Context, article *catalog.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *MockArticleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type serviceFixture struct {
	documentRepo *MockDocumentRepository
	articleRepo  *MockArticleRepository
	service      *DocumentService
	// savedStocks records the balance of every article passed to Save
	savedStocks map[uuid.UUID]decimal.Decimal
}

func newFixture(cumulativeCheck bool) *serviceFixture {
	documentRepo := new(MockDocumentRepository)
	articleRepo := new(MockArticleRepository)
	scope := NewNoOpTransactionScope(documentRepo, articleRepo)

	f := &serviceFixture{
		documentRepo: documentRepo,
		articleRepo:  articleRepo,
		service:      NewDocumentService(documentRepo, articleRepo, scope, cumulativeCheck),
		savedStocks:  make(map[uuid.UUID]decimal.Decimal),
	}

	articleRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Article")).
		Run(func(args mock.Arguments) {
			a := args.Get(1).(*catalog.Article)
			f.savedStocks[a.ID] = a.CurrentStock
		}).
		Return(nil).Maybe()

	return f
}

func newTestArticle(t *testing.T, code string, currentStock int64) *catalog.Article {
	t.Helper()
	article, err := catalog.NewArticle(code, "Article "+code, "pcs", decimal.NewFromInt(10))
	require.NoError(t, err)
	article.CurrentStock = decimal.NewFromInt(currentStock)
	return article
}

func newTestDocument(t *testing.T, direction stock.Direction, lines ...stock.DocumentLine) *stock.StockDocument {
	t.Helper()
	doc, err := stock.NewStockDocument(direction, direction.NumberPrefix()+"-2026-00001", time.Now(), "Counterparty", uuid.New())
	require.NoError(t, err)
	doc.Lines = lines
	return doc
}

func testLine(t *testing.T, docID, articleID uuid.UUID, quantity int64) stock.DocumentLine {
	t.Helper()
	line, err := stock.NewDocumentLine(docID, articleID, decimal.NewFromInt(quantity), decimal.NewFromInt(10))
	require.NoError(t, err)
	return *line
}

// stubArticles wires FindByIDs (pre-transaction load) and FindByID (inside
// the transaction) for the given articles
func (f *serviceFixture) stubArticles(articles ...*catalog.Article) {
	values := make([]catalog.Article, 0, len(articles))
	for _, a := range articles {
		values = append(values, *a)
		f.articleRepo.On("FindByID", mock.Anything, a.ID).Return(a, nil).Maybe()
	}
	f.articleRepo.On("FindByIDs", mock.Anything, mock.Anything).Return(values, nil).Maybe()
}

func TestReplaceLines_InboundReducedQuantity(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()

	article := newTestArticle(t, "PAPER-A4", 80)
	doc := newTestDocument(t, stock.DirectionInbound)
	doc.Lines = []stock.DocumentLine{testLine(t, doc.ID, article.ID, 50)}

	f.documentRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
	f.documentRepo.On("ReplaceLines", mock.Anything, doc.ID, mock.Anything).Return(nil)
	f.stubArticles(article)

	resp, err := f.service.ReplaceLines(ctx, doc.ID, ReplaceLinesRequest{
		Lines: []LineRequest{{ArticleID: article.ID, Quantity: decimal.NewFromInt(30), UnitPrice: decimal.NewFromInt(10)}},
	})
	require.NoError(t, err)

	// Receipt corrected from 50 down to 30: 20 units leave the balance
	require.Len(t, resp.Deltas, 1)
	assert.True(t, resp.Deltas[0].Delta.Equal(decimal.NewFromInt(-20)))
	assert.True(t, f.savedStocks[article.ID].Equal(decimal.NewFromInt(60)))
}

func TestReplaceLines_OutboundInsufficientStock(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()

	article := newTestArticle(t, "TONER-HP12", 30)
	doc := newTestDocument(t, stock.DirectionOutbound)

	f.documentRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
	f.stubArticles(article)

	_, err := f.service.ReplaceLines(ctx, doc.ID, ReplaceLinesRequest{
		Lines: []LineRequest{{ArticleID: article.ID, Quantity: decimal.NewFromInt(40), UnitPrice: decimal.NewFromInt(10)}},
	})

	var insufficientErr *stock.InsufficientStockError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, article.ID, insufficientErr.ArticleID)
	assert.True(t, insufficientErr.Requested.Equal(decimal.NewFromInt(40)))
	assert.True(t, insufficientErr.Available.Equal(decimal.NewFromInt(30)))

	// Nothing persisted
	f.documentRepo.AssertNotCalled(t, "ReplaceLines", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.savedStocks)
}

func TestReplaceLines_OutboundRepeatedArticlePerLineCheck(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()

	// Two lines of 20 each pass individually against a balance of 30;
	// the summed demand of 40 then floors the balance at zero
	article := newTestArticle(t, "CABLE-RJ45", 30)
	doc := newTestDocument(t, stock.DirectionOutbound)

	f.documentRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
	f.documentRepo.On("ReplaceLines", mock.Anything, doc.ID, mock.Anything).Return(nil)
	f.stubArticles(article)

	resp, err := f.service.ReplaceLines(ctx, doc.ID, ReplaceLinesRequest{
		Lines: []LineRequest{
			{ArticleID: article.ID, Quantity: decimal.NewFromInt(20), UnitPrice: decimal.NewFromInt(10)},
			{ArticleID: article.ID, Quantity: decimal.NewFromInt(20), UnitPrice: decimal.NewFromInt(10)},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Deltas, 1)
	assert.True(t, resp.Deltas[0].Delta.Equal(decimal.NewFromInt(40)))
	assert.True(t, f.savedStocks[article.ID].Equal(decimal.Zero))
}

func TestReplaceLines_OutboundCumulativeCheck(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()

	article := newTestArticle(t, "CABLE-RJ45", 30)
	doc := newTestDocument(t, stock.DirectionOutbound)

	f.documentRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
	f.stubArticles(article)

	_, err := f.service.ReplaceLines(ctx, doc.ID, ReplaceLinesRequest{
		Lines: []LineRequest{
			{ArticleID: article.ID, Quantity: decimal.NewFromInt(20), UnitPrice: decimal.NewFromInt(10)},
			{ArticleID: article.ID, Quantity: decimal.NewFromInt(20), UnitPrice: decimal.NewFromInt(10)},
		},
	})

	var insufficientErr *stock.InsufficientStockError
	require.ErrorAs(t, err, &insufficientErr)
	assert.True(t, insufficientErr.Requested.Equal(decimal.NewFromInt(40)))
}

func TestReplaceLines_EmptySetReturnsStock(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()

	article := newTestArticle(t, "INK-CANON", 5)
	doc := newTestDocument(t, stock.DirectionOutbound)
	doc.Lines = []stock.DocumentLine{testLine(t, doc.ID, article.ID, 10)}

	f.documentRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
	f.documentRepo.On("ReplaceLines", mock.Anything, doc.ID, mock.Anything).Return(nil)
	f.stubArticles(article)

	resp, err := f.service.ReplaceLines(ctx, doc.ID, ReplaceLinesRequest{Lines: []LineRequest{}})
	require.NoError(t, err)

	// The 10 previously issued units come back
	require.Len(t, resp.Deltas, 1)
	assert.True(t, resp.Deltas[0].Delta.Equal(decimal.NewFromInt(-10)))
	assert.True(t, f.savedStocks[article.ID].Equal(decimal.NewFromInt(15)))
	assert.Empty(t, resp.Document.Lines)
}

func TestReplaceLines_IdempotentResubmission(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()

	article := newTestArticle(t, "PAPER-A4", 100)
	doc := newTestDocument(t, stock.DirectionInbound)
	doc.Lines = []stock.DocumentLine{testLine(t, doc.ID, article.ID, 25)}

	f.documentRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
	f.documentRepo.On("ReplaceLines", mock.Anything, doc.ID, mock.Anything).Return(nil)
	f.stubArticles(article)

	resp, err := f.service.ReplaceLines(ctx, doc.ID, ReplaceLinesRequest{
		Lines: []LineRequest{{ArticleID: article.ID, Quantity: decimal.NewFromInt(25), UnitPrice: decimal.NewFromInt(10)}},
	})
	require.NoError(t, err)

	// Identical content: no delta, no balance change
	assert.Empty(t, resp.Deltas)
	assert.Empty(t, f.savedStocks)
}

func TestReplaceLines_UnknownArticle(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()

	doc := newTestDocument(t, stock.DirectionInbound)
	f.documentRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
	f.articleRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]catalog.Article{}, nil)

	_, err := f.service.ReplaceLines(ctx, doc.ID, ReplaceLinesRequest{
		Lines: []LineRequest{{ArticleID: uuid.New(), Quantity: decimal.NewFromInt(5), UnitPrice: decimal.Zero}},
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_ARTICLE", domainErr.Code)
}

func TestReplaceLines_RejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()

	doc := newTestDocument(t, stock.DirectionInbound)
	f.documentRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)

	_, err := f.service.ReplaceLines(ctx, doc.ID, ReplaceLinesRequest{
		Lines: []LineRequest{{ArticleID: uuid.New(), Quantity: decimal.Zero, UnitPrice: decimal.Zero}},
	})
	assert.Error(t, err)
	f.documentRepo.AssertNotCalled(t, "ReplaceLines", mock.Anything, mock.Anything, mock.Anything)
}

func TestReplaceLines_PersistenceFailure(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()

	article := newTestArticle(t, "PAPER-A4", 80)
	doc := newTestDocument(t, stock.DirectionInbound)

	f.documentRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
	f.documentRepo.On("ReplaceLines", mock.Anything, doc.ID, mock.Anything).Return(errors.New("connection reset"))
	f.stubArticles(article)

	_, err := f.service.ReplaceLines(ctx, doc.ID, ReplaceLinesRequest{
		Lines: []LineRequest{{ArticleID: article.ID, Quantity: decimal.NewFromInt(5), UnitPrice: decimal.Zero}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrPersistenceFailure)
}

func TestReplaceLines_DocumentNotFound(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()

	id := uuid.New()
	f.documentRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := f.service.ReplaceLines(ctx, id, ReplaceLinesRequest{})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteDocument_ReversesStock(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()

	article := newTestArticle(t, "PAPER-A4", 60)
	doc := newTestDocument(t, stock.DirectionInbound)
	doc.Lines = []stock.DocumentLine{testLine(t, doc.ID, article.ID, 40)}

	f.documentRepo.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
	f.documentRepo.On("Delete", mock.Anything, doc.ID).Return(nil)
	f.stubArticles(article)

	require.NoError(t, f.service.Delete(ctx, doc.ID))

	// Receipt removed: its 40 received units leave the balance
	assert.True(t, f.savedStocks[article.ID].Equal(decimal.NewFromInt(20)))
	f.documentRepo.AssertCalled(t, "Delete", mock.Anything, doc.ID)
}

func TestCreateDocument(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()

	f.documentRepo.On("GenerateNumber", mock.Anything, stock.DirectionInbound).Return("BR-2026-00042", nil)
	f.documentRepo.On("Save", mock.Anything, mock.AnythingOfType("*stock.StockDocument")).Return(nil)

	resp, err := f.service.Create(ctx, CreateDocumentRequest{
		Direction:    "INBOUND",
		Counterparty: "Papeterie Centrale",
	})
	require.NoError(t, err)
	assert.Equal(t, "BR-2026-00042", resp.Number)
	assert.Equal(t, "INBOUND", resp.Direction)
	assert.Empty(t, resp.Lines)
}
