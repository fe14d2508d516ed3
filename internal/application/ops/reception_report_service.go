package ops

import (
	"context"
	"errors"

	"github.com/gestock/backend/internal/domain/ops"
	"github.com/gestock/backend/internal/domain/shared"
	"github.com/gestock/backend/internal/domain/stock"
	"github.com/google/uuid"
)

// ReceptionReportService handles reception report operations
type ReceptionReportService struct {
	reportRepo   ops.ReceptionReportRepository
	documentRepo stock.DocumentRepository
}

// NewReceptionReportService creates a new ReceptionReportService
func NewReceptionReportService(reportRepo ops.ReceptionReportRepository, documentRepo stock.DocumentRepository) *ReceptionReportService {
	return &ReceptionReportService{
		reportRepo:   reportRepo,
		documentRepo: documentRepo,
	}
}

// Create draws up reception minutes for a receipt note.
// A receipt note carries at most one report.
func (s *ReceptionReportService) Create(ctx context.Context, req CreateReceptionReportRequest) (*ReceptionReportResponse, error) {
	doc, err := s.documentRepo.FindByID(ctx, req.DocumentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_DOCUMENT", "Document not found")
		}
		return nil, err
	}
	if doc.Direction != stock.DirectionInbound {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Reception reports can only reference receipt notes")
	}

	if _, err := s.reportRepo.FindByDocument(ctx, req.DocumentID); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Document already has a reception report")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	number, err := s.reportRepo.GenerateNumber(ctx)
	if err != nil {
		return nil, err
	}

	createdBy := uuid.Nil
	if req.CreatedBy != nil {
		createdBy = *req.CreatedBy
	}

	report, err := ops.NewReceptionReport(number, req.DocumentID, req.ReportDate, req.Committee, ops.ReceptionVerdict(req.Verdict), req.Remarks, createdBy)
	if err != nil {
		return nil, err
	}

	if err := s.reportRepo.Save(ctx, report); err != nil {
		return nil, err
	}

	return toReceptionReportResponse(report), nil
}

// GetByID returns a reception report by ID
func (s *ReceptionReportService) GetByID(ctx context.Context, id uuid.UUID) (*ReceptionReportResponse, error) {
	report, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toReceptionReportResponse(report), nil
}

// List returns a page of reception reports
func (s *ReceptionReportService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[ReceptionReportResponse], error) {
	reports, err := s.reportRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.reportRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ReceptionReportResponse, 0, len(reports))
	for i := range reports {
		items = append(items, *toReceptionReportResponse(&reports[i]))
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}
