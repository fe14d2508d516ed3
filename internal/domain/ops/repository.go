package ops

import (
	"context"

	"github.com/gestock/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DistributionRepository defines persistence operations for distributions
type DistributionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Distribution, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Distribution, error)
	FindByArticle(ctx context.Context, articleID uuid.UUID, filter shared.Filter) ([]Distribution, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, dist *Distribution) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MissionOrderRepository defines persistence operations for mission orders
type MissionOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*MissionOrder, error)
	FindByNumber(ctx context.Context, number string) (*MissionOrder, error)
	FindAll(ctx context.Context, status *MissionOrderStatus, filter shared.Filter) ([]MissionOrder, error)
	Count(ctx context.Context, status *MissionOrderStatus, filter shared.Filter) (int64, error)
	GenerateNumber(ctx context.Context) (string, error)
	Save(ctx context.Context, order *MissionOrder) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReceptionReportRepository defines persistence operations for reception reports
type ReceptionReportRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReceptionReport, error)
	FindByDocument(ctx context.Context, documentID uuid.UUID) (*ReceptionReport, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ReceptionReport, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	GenerateNumber(ctx context.Context) (string, error)
	Save(ctx context.Context, report *ReceptionReport) error
}
