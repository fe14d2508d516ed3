package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gestock/backend/internal/domain/catalog"
	"github.com/gestock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockArticleRepository creates a GormArticleRepository with a mocked SQL connection
func newMockArticleRepository(t *testing.T) (*GormArticleRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormArticleRepository(gormDB), mock, mockDB
}

func articleRows(id uuid.UUID, code, designation string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "code", "designation", "unit", "unit_price", "current_stock", "minimum_stock", "category_id"}).
		AddRow(id, code, designation, "pcs", decimal.NewFromInt(10), decimal.NewFromInt(50), decimal.NewFromInt(5), nil)
}

func TestGormArticleRepository_FindByID(t *testing.T) {
	t.Run("finds existing article", func(t *testing.T) {
		repo, mock, mockDB := newMockArticleRepository(t)
		defer mockDB.Close()

		articleID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "articles" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(articleID, 1).
			WillReturnRows(articleRows(articleID, "ART001", "Printer paper A4"))

		article, err := repo.FindByID(context.Background(), articleID)

		assert.NoError(t, err)
		assert.NotNil(t, article)
		assert.Equal(t, articleID, article.ID)
		assert.Equal(t, "ART001", article.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent article", func(t *testing.T) {
		repo, mock, mockDB := newMockArticleRepository(t)
		defer mockDB.Close()

		articleID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "articles" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(articleID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		article, err := repo.FindByID(context.Background(), articleID)

		assert.Error(t, err)
		assert.Nil(t, article)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormArticleRepository_FindByCode(t *testing.T) {
	t.Run("finds article and uppercases the code", func(t *testing.T) {
		repo, mock, mockDB := newMockArticleRepository(t)
		defer mockDB.Close()

		articleID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "articles" WHERE code = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("ART001", 1).
			WillReturnRows(articleRows(articleID, "ART001", "Printer paper A4"))

		article, err := repo.FindByCode(context.Background(), "art001")

		assert.NoError(t, err)
		assert.NotNil(t, article)
		assert.Equal(t, "ART001", article.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormArticleRepository_FindByIDs(t *testing.T) {
	t.Run("finds multiple articles by IDs", func(t *testing.T) {
		repo, mock, mockDB := newMockArticleRepository(t)
		defer mockDB.Close()

		id1 := uuid.New()
		id2 := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "code", "designation", "unit", "unit_price", "current_stock", "minimum_stock", "category_id"}).
			AddRow(id1, "ART001", "Printer paper A4", "pcs", decimal.NewFromInt(10), decimal.NewFromInt(50), decimal.NewFromInt(5), nil).
			AddRow(id2, "ART002", "Toner cartridge", "pcs", decimal.NewFromInt(80), decimal.NewFromInt(12), decimal.NewFromInt(2), nil)

		mock.ExpectQuery(`SELECT \* FROM "articles" WHERE id IN \(\$1,\$2\)`).
			WithArgs(id1, id2).
			WillReturnRows(rows)

		articles, err := repo.FindByIDs(context.Background(), []uuid.UUID{id1, id2})

		assert.NoError(t, err)
		assert.Len(t, articles, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns empty slice for empty IDs", func(t *testing.T) {
		repo, _, mockDB := newMockArticleRepository(t)
		defer mockDB.Close()

		articles, err := repo.FindByIDs(context.Background(), []uuid.UUID{})

		assert.NoError(t, err)
		assert.Empty(t, articles)
	})
}

func TestGormArticleRepository_FindBelowMinimum(t *testing.T) {
	t.Run("finds articles below their minimum threshold", func(t *testing.T) {
		repo, mock, mockDB := newMockArticleRepository(t)
		defer mockDB.Close()

		articleID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "code", "designation", "unit", "unit_price", "current_stock", "minimum_stock", "category_id"}).
			AddRow(articleID, "ART003", "Staples", "box", decimal.NewFromInt(2), decimal.NewFromInt(1), decimal.NewFromInt(10), nil)

		mock.ExpectQuery(`SELECT \* FROM "articles" WHERE minimum_stock > 0 AND current_stock < minimum_stock`).
			WillReturnRows(rows)

		articles, err := repo.FindBelowMinimum(context.Background(), shared.Filter{})

		assert.NoError(t, err)
		assert.Len(t, articles, 1)
		assert.Equal(t, "ART003", articles[0].Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormArticleRepository_Count(t *testing.T) {
	t.Run("counts articles", func(t *testing.T) {
		repo, mock, mockDB := newMockArticleRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "articles"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

		count, err := repo.Count(context.Background(), shared.Filter{})

		assert.NoError(t, err)
		assert.Equal(t, int64(42), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormArticleRepository_ExistsByCode(t *testing.T) {
	t.Run("returns true when article exists", func(t *testing.T) {
		repo, mock, mockDB := newMockArticleRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "articles" WHERE code = \$1`).
			WithArgs("ART001").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByCode(context.Background(), "art001")

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns false when article does not exist", func(t *testing.T) {
		repo, mock, mockDB := newMockArticleRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "articles" WHERE code = \$1`).
			WithArgs("NONEXISTENT").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsByCode(context.Background(), "nonexistent")

		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormArticleRepository_Delete(t *testing.T) {
	t.Run("deletes existing article", func(t *testing.T) {
		repo, mock, mockDB := newMockArticleRepository(t)
		defer mockDB.Close()

		articleID := uuid.New()

		mock.ExpectExec(`DELETE FROM "articles" WHERE id = \$1`).
			WithArgs(articleID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), articleID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent article", func(t *testing.T) {
		repo, mock, mockDB := newMockArticleRepository(t)
		defer mockDB.Close()

		articleID := uuid.New()

		mock.ExpectExec(`DELETE FROM "articles" WHERE id = \$1`).
			WithArgs(articleID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), articleID)

		assert.Error(t, err)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormArticleRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements ArticleRepository interface", func(t *testing.T) {
		repo, _, mockDB := newMockArticleRepository(t)
		defer mockDB.Close()

		var _ catalog.ArticleRepository = repo
	})
}
