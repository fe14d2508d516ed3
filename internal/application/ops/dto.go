package ops

import (
	"time"

	"github.com/gestock/backend/internal/domain/ops"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateDistributionRequest represents a request to record a hand-out
type CreateDistributionRequest struct {
	ArticleID        uuid.UUID       `json:"article_id" binding:"required"`
	Quantity         decimal.Decimal `json:"quantity" binding:"required"`
	Beneficiary      string          `json:"beneficiary" binding:"required,min=1,max=200"`
	DocumentID       *uuid.UUID      `json:"document_id"`
	DistributionDate time.Time       `json:"distribution_date"`
	Remark           string          `json:"remark" binding:"max=500"`
	CreatedBy        *uuid.UUID      `json:"-"`
}

// DistributionResponse represents a distribution in API responses
type DistributionResponse struct {
	ID               uuid.UUID       `json:"id"`
	ArticleID        uuid.UUID       `json:"article_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	Beneficiary      string          `json:"beneficiary"`
	DocumentID       *uuid.UUID      `json:"document_id"`
	DistributionDate time.Time       `json:"distribution_date"`
	Remark           string          `json:"remark"`
	CreatedAt        time.Time       `json:"created_at"`
}

// CreateMissionOrderRequest represents a request to draft a mission order
type CreateMissionOrderRequest struct {
	Agent       string     `json:"agent" binding:"required,min=1,max=200"`
	Destination string     `json:"destination" binding:"required,min=1,max=200"`
	Purpose     string     `json:"purpose" binding:"required,min=1,max=500"`
	StartDate   time.Time  `json:"start_date" binding:"required"`
	EndDate     time.Time  `json:"end_date" binding:"required"`
	CreatedBy   *uuid.UUID `json:"-"`
}

// UpdateMissionOrderRequest represents a request to edit a draft mission order
type UpdateMissionOrderRequest struct {
	Agent       string    `json:"agent" binding:"required,min=1,max=200"`
	Destination string    `json:"destination" binding:"required,min=1,max=200"`
	Purpose     string    `json:"purpose" binding:"required,min=1,max=500"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
}

// MissionOrderResponse represents a mission order in API responses
type MissionOrderResponse struct {
	ID          uuid.UUID  `json:"id"`
	Number      string     `json:"number"`
	Agent       string     `json:"agent"`
	Destination string     `json:"destination"`
	Purpose     string     `json:"purpose"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     time.Time  `json:"end_date"`
	Status      string     `json:"status"`
	ApprovedAt  *time.Time `json:"approved_at"`
	ClosedAt    *time.Time `json:"closed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	Version     int        `json:"version"`
}

// CreateReceptionReportRequest represents a request to draw up reception minutes
type CreateReceptionReportRequest struct {
	DocumentID uuid.UUID  `json:"document_id" binding:"required"`
	ReportDate time.Time  `json:"report_date"`
	Committee  string     `json:"committee" binding:"required"`
	Verdict    string     `json:"verdict" binding:"required,oneof=ACCEPTED RESERVED REJECTED"`
	Remarks    string     `json:"remarks" binding:"max=1000"`
	CreatedBy  *uuid.UUID `json:"-"`
}

// ReceptionReportResponse represents a reception report in API responses
type ReceptionReportResponse struct {
	ID         uuid.UUID `json:"id"`
	Number     string    `json:"number"`
	DocumentID uuid.UUID `json:"document_id"`
	ReportDate time.Time `json:"report_date"`
	Committee  string    `json:"committee"`
	Verdict    string    `json:"verdict"`
	Remarks    string    `json:"remarks"`
	CreatedAt  time.Time `json:"created_at"`
}

func toDistributionResponse(dist *ops.Distribution) *DistributionResponse {
	return &DistributionResponse{
		ID:               dist.ID,
		ArticleID:        dist.ArticleID,
		Quantity:         dist.Quantity,
		Beneficiary:      dist.Beneficiary,
		DocumentID:       dist.DocumentID,
		DistributionDate: dist.DistributionDate,
		Remark:           dist.Remark,
		CreatedAt:        dist.CreatedAt,
	}
}

func toMissionOrderResponse(order *ops.MissionOrder) *MissionOrderResponse {
	return &MissionOrderResponse{
		ID:          order.ID,
		Number:      order.Number,
		Agent:       order.Agent,
		Destination: order.Destination,
		Purpose:     order.Purpose,
		StartDate:   order.StartDate,
		EndDate:     order.EndDate,
		Status:      order.Status.String(),
		ApprovedAt:  order.ApprovedAt,
		ClosedAt:    order.ClosedAt,
		CreatedAt:   order.CreatedAt,
		Version:     order.Version,
	}
}

func toReceptionReportResponse(report *ops.ReceptionReport) *ReceptionReportResponse {
	return &ReceptionReportResponse{
		ID:         report.ID,
		Number:     report.Number,
		DocumentID: report.DocumentID,
		ReportDate: report.ReportDate,
		Committee:  report.Committee,
		Verdict:    report.Verdict.String(),
		Remarks:    report.Remarks,
		CreatedAt:  report.CreatedAt,
	}
}
