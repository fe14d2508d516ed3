package finance

import (
	"time"

	"github.com/gestock/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest represents a request to record a supplier payment
type CreatePaymentRequest struct {
	DocumentID  uuid.UUID       `json:"document_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Method      string          `json:"method" binding:"required,oneof=CASH CHECK TRANSFER"`
	Reference   string          `json:"reference" binding:"max=100"`
	PaymentDate time.Time       `json:"payment_date"`
	Remark      string          `json:"remark" binding:"max=500"`
	CreatedBy   *uuid.UUID      `json:"-"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID          uuid.UUID       `json:"id"`
	DocumentID  uuid.UUID       `json:"document_id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	Reference   string          `json:"reference"`
	PaymentDate time.Time       `json:"payment_date"`
	Remark      string          `json:"remark"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toPaymentResponse(payment *finance.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:          payment.ID,
		DocumentID:  payment.DocumentID,
		Amount:      payment.Amount,
		Method:      payment.Method.String(),
		Reference:   payment.Reference,
		PaymentDate: payment.PaymentDate,
		Remark:      payment.Remark,
		CreatedAt:   payment.CreatedAt,
	}
}
