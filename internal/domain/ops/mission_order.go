package ops

import (
	"strings"
	"time"

	"github.com/gestock/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MissionOrderStatus represents the lifecycle state of a mission order
type MissionOrderStatus string

const (
	// MissionOrderStatusDraft is the initial editable state
	MissionOrderStatusDraft MissionOrderStatus = "DRAFT"
	// MissionOrderStatusApproved means the order has been signed off
	MissionOrderStatusApproved MissionOrderStatus = "APPROVED"
	// MissionOrderStatusClosed means the mission has been completed
	MissionOrderStatusClosed MissionOrderStatus = "CLOSED"
)

// IsValid checks if the status is a known value
func (s MissionOrderStatus) IsValid() bool {
	switch s {
	case MissionOrderStatusDraft, MissionOrderStatusApproved, MissionOrderStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s MissionOrderStatus) String() string {
	return string(s)
}

// MissionOrderNumberPrefix is the document-number prefix for mission orders
const MissionOrderNumberPrefix = "OM"

// MissionOrder is a travel authorization (ordre de mission) for an agent.
// It moves draft -> approved -> closed and is only editable while draft.
type MissionOrder struct {
	shared.OwnedAggregateRoot
	Number      string             `gorm:"type:varchar(30);not null;uniqueIndex"`
	Agent       string             `gorm:"type:varchar(200);not null"`
	Destination string             `gorm:"type:varchar(200);not null"`
	Purpose     string             `gorm:"type:varchar(500);not null"`
	StartDate   time.Time          `gorm:"not null"`
	EndDate     time.Time          `gorm:"not null"`
	Status      MissionOrderStatus `gorm:"type:varchar(20);not null;index"`
	ApprovedAt  *time.Time
	ClosedAt    *time.Time
}

// TableName returns the table name for GORM
func (MissionOrder) TableName() string {
	return "mission_orders"
}

// NewMissionOrder creates a new mission order in draft status
func NewMissionOrder(number, agent, destination, purpose string, startDate, endDate time.Time, createdBy uuid.UUID) (*MissionOrder, error) {
	if strings.TrimSpace(agent) == "" {
		return nil, shared.NewDomainError("INVALID_AGENT", "Agent cannot be empty")
	}
	if strings.TrimSpace(destination) == "" {
		return nil, shared.NewDomainError("INVALID_DESTINATION", "Destination cannot be empty")
	}
	if strings.TrimSpace(purpose) == "" {
		return nil, shared.NewDomainError("INVALID_PURPOSE", "Purpose cannot be empty")
	}
	if startDate.IsZero() || endDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATES", "Start and end dates are required")
	}
	if endDate.Before(startDate) {
		return nil, shared.NewDomainError("INVALID_DATES", "End date cannot be before start date")
	}

	order := &MissionOrder{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(createdBy),
		Number:             number,
		Agent:              strings.TrimSpace(agent),
		Destination:        strings.TrimSpace(destination),
		Purpose:            strings.TrimSpace(purpose),
		StartDate:          startDate,
		EndDate:            endDate,
		Status:             MissionOrderStatusDraft,
	}

	order.AddDomainEvent(NewMissionOrderCreatedEvent(order))

	return order, nil
}

// Update modifies the order's details. Only draft orders can be edited.
func (m *MissionOrder) Update(agent, destination, purpose string, startDate, endDate time.Time) error {
	if m.Status != MissionOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft mission orders can be edited")
	}
	if strings.TrimSpace(agent) == "" {
		return shared.NewDomainError("INVALID_AGENT", "Agent cannot be empty")
	}
	if strings.TrimSpace(destination) == "" {
		return shared.NewDomainError("INVALID_DESTINATION", "Destination cannot be empty")
	}
	if endDate.Before(startDate) {
		return shared.NewDomainError("INVALID_DATES", "End date cannot be before start date")
	}

	m.Agent = strings.TrimSpace(agent)
	m.Destination = strings.TrimSpace(destination)
	m.Purpose = strings.TrimSpace(purpose)
	m.StartDate = startDate
	m.EndDate = endDate
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	return nil
}

// Approve transitions the order from draft to approved
func (m *MissionOrder) Approve() error {
	if m.Status != MissionOrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft mission orders can be approved")
	}

	now := time.Now()
	m.Status = MissionOrderStatusApproved
	m.ApprovedAt = &now
	m.UpdatedAt = now
	m.IncrementVersion()

	m.AddDomainEvent(NewMissionOrderApprovedEvent(m))
	return nil
}

// Close transitions the order from approved to closed
func (m *MissionOrder) Close() error {
	if m.Status != MissionOrderStatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Only approved mission orders can be closed")
	}

	now := time.Now()
	m.Status = MissionOrderStatusClosed
	m.ClosedAt = &now
	m.UpdatedAt = now
	m.IncrementVersion()

	m.AddDomainEvent(NewMissionOrderClosedEvent(m))
	return nil
}
