package stock

import (
	"context"

	"github.com/gestock/backend/internal/domain/catalog"
	"github.com/gestock/backend/internal/domain/stock"
)

// TransactionScope provides transactional access to the repositories the
// reconciliation needs. Everything executed within a scope commits or rolls
// back atomically: line replacement and stock adjustments are never observed
// half-applied.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories bound to the current
// transaction. Both repositories share the same underlying transaction.
type TransactionalRepositories interface {
	// DocumentRepo returns the stock document repository scoped to the transaction
	DocumentRepo() stock.DocumentRepository
	// ArticleRepo returns the article repository scoped to the transaction
	ArticleRepo() catalog.ArticleRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Used in tests where the repositories are mocks.
type NoOpTransactionScope struct {
	documentRepo stock.DocumentRepository
	articleRepo  catalog.ArticleRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(documentRepo stock.DocumentRepository, articleRepo catalog.ArticleRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		documentRepo: documentRepo,
		articleRepo:  articleRepo,
	}
}

// Execute runs the function without transactional guarantees.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// DocumentRepo returns the stock document repository.
func (s *NoOpTransactionScope) DocumentRepo() stock.DocumentRepository {
	return s.documentRepo
}

// ArticleRepo returns the article repository.
func (s *NoOpTransactionScope) ArticleRepo() catalog.ArticleRepository {
	return s.articleRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
