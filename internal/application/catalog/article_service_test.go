package catalog

import (
	"context"
	"testing"

	"github.com/gestock/backend/internal/domain/catalog"
	"github.com/gestock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

// MockCategoryRepository is a mock implementation of catalog.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByCode(ctx context.Context, code string) (*catalog.Category, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) CountArticles(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestArticleServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates article", func(t *testing.T) {
		articleRepo := new(MockArticleRepository)
		categoryRepo := new(MockCategoryRepository)
		service := NewArticleService(articleRepo, categoryRepo)

		articleRepo.On("ExistsByCode", mock.Anything, "PAPER-A4").Return(false, nil)
		articleRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Article")).Return(nil)

		minStock := decimal.NewFromInt(10)
		resp, err := service.Create(ctx, CreateArticleRequest{
			Code:         "PAPER-A4",
			Designation:  "Papier A4 80g",
			Unit:         "ramette",
			UnitPrice:    decimal.NewFromFloat(350.00),
			MinimumStock: &minStock,
		})
		require.NoError(t, err)
		assert.Equal(t, "PAPER-A4", resp.Code)
		assert.True(t, resp.CurrentStock.IsZero())
		assert.True(t, resp.MinimumStock.Equal(minStock))
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		articleRepo := new(MockArticleRepository)
		categoryRepo := new(MockCategoryRepository)
		service := NewArticleService(articleRepo, categoryRepo)

		articleRepo.On("ExistsByCode", mock.Anything, "PAPER-A4").Return(true, nil)

		_, err := service.Create(ctx, CreateArticleRequest{
			Code: "PAPER-A4", Designation: "Papier", Unit: "ramette",
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		articleRepo := new(MockArticleRepository)
		categoryRepo := new(MockCategoryRepository)
		service := NewArticleService(articleRepo, categoryRepo)

		categoryID := uuid.New()
		articleRepo.On("ExistsByCode", mock.Anything, "PAPER-A4").Return(false, nil)
		categoryRepo.On("FindByID", mock.Anything, categoryID).Return(nil, shared.ErrNotFound)

		_, err := service.Create(ctx, CreateArticleRequest{
			Code: "PAPER-A4", Designation: "Papier", Unit: "ramette", CategoryID: &categoryID,
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CATEGORY", domainErr.Code)
	})
}

func TestArticleServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("update keeps the stock balance", func(t *testing.T) {
		articleRepo := new(MockArticleRepository)
		categoryRepo := new(MockCategoryRepository)
		service := NewArticleService(articleRepo, categoryRepo)

		article, err := catalog.NewArticle("PAPER-A4", "Papier A4", "ramette", decimal.NewFromInt(300))
		require.NoError(t, err)
		article.CurrentStock = decimal.NewFromInt(42)

		articleRepo.On("FindByID", mock.Anything, article.ID).Return(article, nil)
		articleRepo.On("Save", mock.Anything, article).Return(nil)

		resp, err := service.Update(ctx, article.ID, UpdateArticleRequest{
			Designation: "Papier A4 80g",
			Unit:        "ramette",
			UnitPrice:   decimal.NewFromInt(380),
		})
		require.NoError(t, err)
		assert.Equal(t, "Papier A4 80g", resp.Designation)
		assert.True(t, resp.CurrentStock.Equal(decimal.NewFromInt(42)))
	})

	t.Run("not found propagates", func(t *testing.T) {
		articleRepo := new(MockArticleRepository)
		categoryRepo := new(MockCategoryRepository)
		service := NewArticleService(articleRepo, categoryRepo)

		id := uuid.New()
		articleRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := service.Update(ctx, id, UpdateArticleRequest{Designation: "x", Unit: "u"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCategoryServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("refuses delete while articles assigned", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		service := NewCategoryService(categoryRepo)

		category, err := catalog.NewCategory("CONSUMABLE", "Consommables")
		require.NoError(t, err)

		categoryRepo.On("FindByID", mock.Anything, category.ID).Return(category, nil)
		categoryRepo.On("CountArticles", mock.Anything, category.ID).Return(int64(3), nil)

		err = service.Delete(ctx, category.ID)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CATEGORY_IN_USE", domainErr.Code)
		categoryRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("deletes empty category", func(t *testing.T) {
		categoryRepo := new(MockCategoryRepository)
		service := NewCategoryService(categoryRepo)

		category, err := catalog.NewCategory("CONSUMABLE", "Consommables")
		require.NoError(t, err)

		categoryRepo.On("FindByID", mock.Anything, category.ID).Return(category, nil)
		categoryRepo.On("CountArticles", mock.Anything, category.ID).Return(int64(0), nil)
		categoryRepo.On("Delete", mock.Anything, category.ID).Return(nil)

		require.NoError(t, service.Delete(ctx, category.ID))
	})
}
