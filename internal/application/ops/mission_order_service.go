package ops

import (
	"context"

	"github.com/gestock/backend/internal/domain/ops"
	"github.com/gestock/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MissionOrderService handles mission order operations
type MissionOrderService struct {
	orderRepo ops.MissionOrderRepository
}

// NewMissionOrderService creates a new MissionOrderService
func NewMissionOrderService(orderRepo ops.MissionOrderRepository) *MissionOrderService {
	return &MissionOrderService{orderRepo: orderRepo}
}

// Create drafts a new mission order with a generated number
func (s *MissionOrderService) Create(ctx context.Context, req CreateMissionOrderRequest) (*MissionOrderResponse, error) {
	number, err := s.orderRepo.GenerateNumber(ctx)
	if err != nil {
		return nil, err
	}

	createdBy := uuid.Nil
	if req.CreatedBy != nil {
		createdBy = *req.CreatedBy
	}

	order, err := ops.NewMissionOrder(number, req.Agent, req.Destination, req.Purpose, req.StartDate, req.EndDate, createdBy)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	return toMissionOrderResponse(order), nil
}

// GetByID returns a mission order by ID
func (s *MissionOrderService) GetByID(ctx context.Context, id uuid.UUID) (*MissionOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toMissionOrderResponse(order), nil
}

// List returns a page of mission orders, optionally filtered by status
func (s *MissionOrderService) List(ctx context.Context, status *ops.MissionOrderStatus, filter shared.Filter) (*shared.Paginated[MissionOrderResponse], error) {
	orders, err := s.orderRepo.FindAll(ctx, status, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.orderRepo.Count(ctx, status, filter)
	if err != nil {
		return nil, err
	}

	items := make([]MissionOrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, *toMissionOrderResponse(&orders[i]))
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update edits a draft mission order
func (s *MissionOrderService) Update(ctx context.Context, id uuid.UUID, req UpdateMissionOrderRequest) (*MissionOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := order.Update(req.Agent, req.Destination, req.Purpose, req.StartDate, req.EndDate); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	return toMissionOrderResponse(order), nil
}

// Approve transitions a draft order to approved
func (s *MissionOrderService) Approve(ctx context.Context, id uuid.UUID) (*MissionOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := order.Approve(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	return toMissionOrderResponse(order), nil
}

// Close transitions an approved order to closed
func (s *MissionOrderService) Close(ctx context.Context, id uuid.UUID) (*MissionOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := order.Close(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	return toMissionOrderResponse(order), nil
}
