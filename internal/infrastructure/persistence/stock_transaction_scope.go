package persistence

import (
	"context"

	appstock "github.com/gestock/backend/internal/application/stock"
	"github.com/gestock/backend/internal/domain/catalog"
	"github.com/gestock/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db         *gorm.DB
	rowLocking bool
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// NewGormTransactionScopeWithLocking creates a scope whose article reads
// take row locks for the duration of the transaction.
func NewGormTransactionScopeWithLocking(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db, rowLocking: true}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appstock.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx, rowLocking: s.rowLocking}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx         *gorm.DB
	rowLocking bool
}

// DocumentRepo returns the stock document repository scoped to the current transaction.
func (r *gormTransactionalRepositories) DocumentRepo() stock.DocumentRepository {
	return NewGormDocumentRepository(r.tx)
}

// ArticleRepo returns the article repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ArticleRepo() catalog.ArticleRepository {
	if r.rowLocking {
		return NewGormArticleRepositoryWithLocking(r.tx)
	}
	return NewGormArticleRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appstock.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appstock.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
