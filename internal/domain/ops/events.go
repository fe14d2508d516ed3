package ops

import (
	"github.com/gestock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Operations event types
const (
	EventTypeDistributionCreated    = "ops.distribution.created"
	EventTypeMissionOrderCreated    = "ops.mission_order.created"
	EventTypeMissionOrderApproved   = "ops.mission_order.approved"
	EventTypeMissionOrderClosed     = "ops.mission_order.closed"
	EventTypeReceptionReportCreated = "ops.reception_report.created"
)

// Aggregate types for operations events
const (
	DistributionAggregateType    = "Distribution"
	MissionOrderAggregateType    = "MissionOrder"
	ReceptionReportAggregateType = "ReceptionReport"
)

// DistributionCreatedEvent is published when a hand-out is recorded
type DistributionCreatedEvent struct {
	shared.BaseDomainEvent
	Beneficiary string          `json:"beneficiary"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// NewDistributionCreatedEvent creates a new DistributionCreatedEvent
func NewDistributionCreatedEvent(dist *Distribution) *DistributionCreatedEvent {
	return &DistributionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDistributionCreated, DistributionAggregateType, dist.ID),
		Beneficiary:     dist.Beneficiary,
		Quantity:        dist.Quantity,
	}
}

// MissionOrderCreatedEvent is published when a mission order is drafted
type MissionOrderCreatedEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
	Agent  string `json:"agent"`
}

// NewMissionOrderCreatedEvent creates a new MissionOrderCreatedEvent
func NewMissionOrderCreatedEvent(order *MissionOrder) *MissionOrderCreatedEvent {
	return &MissionOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMissionOrderCreated, MissionOrderAggregateType, order.ID),
		Number:          order.Number,
		Agent:           order.Agent,
	}
}

// MissionOrderApprovedEvent is published when a mission order is approved
type MissionOrderApprovedEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
}

// NewMissionOrderApprovedEvent creates a new MissionOrderApprovedEvent
func NewMissionOrderApprovedEvent(order *MissionOrder) *MissionOrderApprovedEvent {
	return &MissionOrderApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMissionOrderApproved, MissionOrderAggregateType, order.ID),
		Number:          order.Number,
	}
}

// MissionOrderClosedEvent is published when a mission order is closed
type MissionOrderClosedEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
}

// NewMissionOrderClosedEvent creates a new MissionOrderClosedEvent
func NewMissionOrderClosedEvent(order *MissionOrder) *MissionOrderClosedEvent {
	return &MissionOrderClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMissionOrderClosed, MissionOrderAggregateType, order.ID),
		Number:          order.Number,
	}
}

// ReceptionReportCreatedEvent is published when reception minutes are drawn up
type ReceptionReportCreatedEvent struct {
	shared.BaseDomainEvent
	Number  string           `json:"number"`
	Verdict ReceptionVerdict `json:"verdict"`
}

// NewReceptionReportCreatedEvent creates a new ReceptionReportCreatedEvent
func NewReceptionReportCreatedEvent(report *ReceptionReport) *ReceptionReportCreatedEvent {
	return &ReceptionReportCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceptionReportCreated, ReceptionReportAggregateType, report.ID),
		Number:          report.Number,
		Verdict:         report.Verdict,
	}
}
