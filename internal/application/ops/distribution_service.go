package ops

import (
	"context"
	"errors"

	"github.com/gestock/backend/internal/domain/catalog"
	"github.com/gestock/backend/internal/domain/ops"
	"github.com/gestock/backend/internal/domain/shared"
	"github.com/gestock/backend/internal/domain/stock"
	"github.com/google/uuid"
)

// DistributionService handles distribution records
type DistributionService struct {
	distributionRepo ops.DistributionRepository
	articleRepo      catalog.ArticleRepository
	documentRepo     stock.DocumentRepository
}

// NewDistributionService creates a new DistributionService
func NewDistributionService(
	distributionRepo ops.DistributionRepository,
	articleRepo catalog.ArticleRepository,
	documentRepo stock.DocumentRepository,
) *DistributionService {
	return &DistributionService{
		distributionRepo: distributionRepo,
		articleRepo:      articleRepo,
		documentRepo:     documentRepo,
	}
}

// Create records a new distribution
func (s *DistributionService) Create(ctx context.Context, req CreateDistributionRequest) (*DistributionResponse, error) {
	if _, err := s.articleRepo.FindByID(ctx, req.ArticleID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_ARTICLE", "Article not found")
		}
		return nil, err
	}

	if req.DocumentID != nil {
		doc, err := s.documentRepo.FindByID(ctx, *req.DocumentID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_DOCUMENT", "Linked document not found")
			}
			return nil, err
		}
		if doc.Direction != stock.DirectionOutbound {
			return nil, shared.NewDomainError("INVALID_DOCUMENT", "Distributions can only reference issue notes")
		}
	}

	createdBy := uuid.Nil
	if req.CreatedBy != nil {
		createdBy = *req.CreatedBy
	}

	dist, err := ops.NewDistribution(req.ArticleID, req.Quantity, req.Beneficiary, req.DocumentID, req.DistributionDate, createdBy)
	if err != nil {
		return nil, err
	}
	dist.Remark = req.Remark

	if err := s.distributionRepo.Save(ctx, dist); err != nil {
		return nil, err
	}

	return toDistributionResponse(dist), nil
}

// GetByID returns a distribution by ID
func (s *DistributionService) GetByID(ctx context.Context, id uuid.UUID) (*DistributionResponse, error) {
	dist, err := s.distributionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDistributionResponse(dist), nil
}

// List returns a page of distributions
func (s *DistributionService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[DistributionResponse], error) {
	dists, err := s.distributionRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.distributionRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]DistributionResponse, 0, len(dists))
	for i := range dists {
		items = append(items, *toDistributionResponse(&dists[i]))
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Delete removes a distribution record
func (s *DistributionService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.distributionRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.distributionRepo.Delete(ctx, id)
}
