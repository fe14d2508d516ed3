package ops

import (
	"context"
	"testing"
	"time"

	"github.com/gestock/backend/internal/domain/ops"
	"github.com/gestock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMissionOrderRepository is a mock implementation of ops.MissionOrderRepository
type MockMissionOrderRepository struct {
	mock.Mock
}

func (m *MockMissionOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ops.MissionOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ops.MissionOrder), args.Error(1)
}

func (m *MockMissionOrderRepository) FindByNumber(ctx context.Context, number string) (*ops.MissionOrder, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ops.MissionOrder), args.Error(1)
}

func (m *MockMissionOrderRepository) FindAll(ctx context.Context, status *ops.MissionOrderStatus, filter shared.Filter) ([]ops.MissionOrder, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]ops.MissionOrder), args.Error(1)
}

func (m *MockMissionOrderRepository) Count(ctx context.Context, status *ops.MissionOrderStatus, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMissionOrderRepository) GenerateNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockMissionOrderRepository) Save(ctx context.Context, order *ops.MissionOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockMissionOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestMissionOrderServiceCreate(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMissionOrderRepository)
	service := NewMissionOrderService(repo)

	repo.On("GenerateNumber", mock.Anything).Return("OM-2026-00007", nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*ops.MissionOrder")).Return(nil)

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	resp, err := service.Create(ctx, CreateMissionOrderRequest{
		Agent:       "A. Benali",
		Destination: "Constantine",
		Purpose:     "Annual inventory",
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, "OM-2026-00007", resp.Number)
	assert.Equal(t, "DRAFT", resp.Status)
}

func TestMissionOrderServiceApproveAndClose(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMissionOrderRepository)
	service := NewMissionOrderService(repo)

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	order, err := ops.NewMissionOrder("OM-2026-00008", "A. Benali", "Oran", "Audit", start, start.AddDate(0, 0, 1), uuid.New())
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	repo.On("Save", mock.Anything, order).Return(nil)

	resp, err := service.Approve(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", resp.Status)

	resp, err = service.Close(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "CLOSED", resp.Status)

	// A closed order cannot be approved again
	_, err = service.Approve(ctx, order.ID)
	assert.Error(t, err)
}

func TestMissionOrderServiceUpdateNonDraft(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMissionOrderRepository)
	service := NewMissionOrderService(repo)

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	order, err := ops.NewMissionOrder("OM-2026-00009", "A. Benali", "Oran", "Audit", start, start.AddDate(0, 0, 1), uuid.New())
	require.NoError(t, err)
	require.NoError(t, order.Approve())

	repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

	_, err = service.Update(ctx, order.ID, UpdateMissionOrderRequest{
		Agent: "B. Cherif", Destination: "Alger", Purpose: "Changed",
		StartDate: start, EndDate: start.AddDate(0, 0, 1),
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
