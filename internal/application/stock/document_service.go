package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/gestock/backend/internal/domain/catalog"
	"github.com/gestock/backend/internal/domain/shared"
	"github.com/gestock/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentService handles stock document operations, including the line
// replacement that reconciles article balances.
type DocumentService struct {
	documentRepo stock.DocumentRepository
	articleRepo  catalog.ArticleRepository
	txScope      TransactionScope
	// cumulativeCheck switches outbound availability validation from per-line
	// to per-article summed demand. Off by default: a document listing the
	// same article on several lines is checked line by line against the same
	// balance snapshot.
	cumulativeCheck bool
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	documentRepo stock.DocumentRepository,
	articleRepo catalog.ArticleRepository,
	txScope TransactionScope,
	cumulativeCheck bool,
) *DocumentService {
	return &DocumentService{
		documentRepo:    documentRepo,
		articleRepo:     articleRepo,
		txScope:         txScope,
		cumulativeCheck: cumulativeCheck,
	}
}

// Create creates a new stock document with a generated number and no lines
func (s *DocumentService) Create(ctx context.Context, req CreateDocumentRequest) (*DocumentResponse, error) {
	direction := stock.Direction(req.Direction)
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Document direction must be INBOUND or OUTBOUND")
	}

	number, err := s.documentRepo.GenerateNumber(ctx, direction)
	if err != nil {
		return nil, wrapPersistence(err)
	}

	createdBy := uuid.Nil
	if req.CreatedBy != nil {
		createdBy = *req.CreatedBy
	}

	doc, err := stock.NewStockDocument(direction, number, req.DocumentDate, req.Counterparty, createdBy)
	if err != nil {
		return nil, err
	}
	doc.Remark = req.Remark

	if err := s.documentRepo.Save(ctx, doc); err != nil {
		return nil, wrapPersistence(err)
	}

	return toDocumentResponse(doc), nil
}

// GetByID returns a document with its lines
func (s *DocumentService) GetByID(ctx context.Context, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.documentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(doc), nil
}

// List returns a page of documents, optionally filtered by direction
func (s *DocumentService) List(ctx context.Context, direction *stock.Direction, filter shared.Filter) (*shared.Paginated[DocumentListResponse], error) {
	docs, err := s.documentRepo.FindAll(ctx, direction, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.documentRepo.Count(ctx, direction, filter)
	if err != nil {
		return nil, err
	}

	items := make([]DocumentListResponse, 0, len(docs))
	for i := range docs {
		items = append(items, toDocumentListResponse(&docs[i]))
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateHeader updates a document's header fields without touching lines or stock
func (s *DocumentService) UpdateHeader(ctx context.Context, id uuid.UUID, req UpdateDocumentRequest) (*DocumentResponse, error) {
	doc, err := s.documentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := doc.UpdateHeader(req.DocumentDate, req.Counterparty, req.Remark); err != nil {
		return nil, err
	}

	if err := s.documentRepo.Save(ctx, doc); err != nil {
		return nil, wrapPersistence(err)
	}

	return toDocumentResponse(doc), nil
}

// ReplaceLines fully replaces a document's line items and reconciles article
// balances against the diff between the old and new line sets.
//
// The flow mirrors the save path of a document edit screen: the client
// resubmits the complete line list, never individual line edits.
//
//  1. The new lines are validated (existing articles, positive quantities).
//  2. Outbound only: each line's quantity is checked against the article's
//     current balance as read before the transaction. Lines repeating an
//     article each see the same snapshot.
//  3. Atomically: old lines are deleted, new lines inserted with fresh IDs,
//     and each article's balance is adjusted by the per-article net delta,
//     floored at zero.
//
// An insufficient balance aborts the whole operation with
// *stock.InsufficientStockError and nothing is persisted.
func (s *DocumentService) ReplaceLines(ctx context.Context, documentID uuid.UUID, req ReplaceLinesRequest) (*ReconcileResponse, error) {
	doc, err := s.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	newLines := make([]stock.DocumentLine, 0, len(req.Lines))
	for _, lr := range req.Lines {
		line, err := stock.NewDocumentLine(doc.ID, lr.ArticleID, lr.Quantity, lr.UnitPrice)
		if err != nil {
			return nil, err
		}
		newLines = append(newLines, *line)
	}

	beforeTotals := stock.SumByArticle(doc.Lines)
	afterTotals := stock.SumByArticle(newLines)

	articles, err := s.loadArticles(ctx, beforeTotals, afterTotals)
	if err != nil {
		return nil, err
	}

	// Every referenced article must exist
	for articleID := range afterTotals {
		if _, ok := articles[articleID]; !ok {
			return nil, shared.NewDomainError("INVALID_ARTICLE", fmt.Sprintf("Article %s not found", articleID))
		}
	}

	if doc.Direction == stock.DirectionOutbound {
		if err := s.checkAvailability(articles, newLines, afterTotals); err != nil {
			return nil, err
		}
	}

	deltas := stock.ComputeDeltas(beforeTotals, afterTotals)

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.DocumentRepo().ReplaceLines(ctx, doc.ID, newLines); err != nil {
			return wrapPersistence(err)
		}

		for _, d := range deltas {
			article, err := repos.ArticleRepo().FindByID(ctx, d.ArticleID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					// Article referenced only by removed lines may be gone;
					// its stock no longer exists to adjust
					continue
				}
				return wrapPersistence(err)
			}

			article.ApplyStockDelta(stock.SignedDelta(doc.Direction, d.Delta))
			if err := repos.ArticleRepo().Save(ctx, article); err != nil {
				return wrapPersistence(err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	doc.Lines = newLines
	doc.AddDomainEvent(stock.NewDocumentLinesReplacedEvent(doc, deltas))

	return &ReconcileResponse{
		Document: *toDocumentResponse(doc),
		Deltas:   deltas,
	}, nil
}

// Delete removes a document and returns its stock effect. The reversal runs
// in the same transaction as the deletion, as if the document had first been
// replaced with an empty line set.
func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.documentRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	beforeTotals := stock.SumByArticle(doc.Lines)
	deltas := stock.ComputeDeltas(beforeTotals, map[uuid.UUID]decimal.Decimal{})

	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, d := range deltas {
			article, err := repos.ArticleRepo().FindByID(ctx, d.ArticleID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					continue
				}
				return wrapPersistence(err)
			}

			article.ApplyStockDelta(stock.SignedDelta(doc.Direction, d.Delta))
			if err := repos.ArticleRepo().Save(ctx, article); err != nil {
				return wrapPersistence(err)
			}
		}

		if err := repos.DocumentRepo().Delete(ctx, doc.ID); err != nil {
			return wrapPersistence(err)
		}

		return nil
	})
}

// loadArticles fetches every article referenced by the old or new line sets
func (s *DocumentService) loadArticles(ctx context.Context, beforeTotals, afterTotals map[uuid.UUID]decimal.Decimal) (map[uuid.UUID]*catalog.Article, error) {
	idSet := make(map[uuid.UUID]struct{}, len(beforeTotals)+len(afterTotals))
	for id := range beforeTotals {
		idSet[id] = struct{}{}
	}
	for id := range afterTotals {
		idSet[id] = struct{}{}
	}

	ids := make([]uuid.UUID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	found, err := s.articleRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, wrapPersistence(err)
	}

	articles := make(map[uuid.UUID]*catalog.Article, len(found))
	for i := range found {
		articles[found[i].ID] = &found[i]
	}
	return articles, nil
}

// checkAvailability validates outbound demand against pre-transaction balances
func (s *DocumentService) checkAvailability(articles map[uuid.UUID]*catalog.Article, newLines []stock.DocumentLine, afterTotals map[uuid.UUID]decimal.Decimal) error {
	if s.cumulativeCheck {
		for articleID, demand := range afterTotals {
			article := articles[articleID]
			if !article.CanSatisfy(demand) {
				return &stock.InsufficientStockError{
					ArticleID:   article.ID,
					ArticleCode: article.Code,
					Requested:   demand,
					Available:   article.CurrentStock,
				}
			}
		}
		return nil
	}

	// Per-line check against the same balance snapshot. A document listing
	// an article on several lines can pass here even when the summed demand
	// exceeds the balance; the adjustment then floors at zero.
	for _, line := range newLines {
		article := articles[line.ArticleID]
		if !article.CanSatisfy(line.Quantity) {
			return &stock.InsufficientStockError{
				ArticleID:   article.ID,
				ArticleCode: article.Code,
				Requested:   line.Quantity,
				Available:   article.CurrentStock,
			}
		}
	}
	return nil
}

func wrapPersistence(err error) error {
	if err == nil {
		return nil
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	return fmt.Errorf("%w: %v", shared.ErrPersistenceFailure, err)
}
