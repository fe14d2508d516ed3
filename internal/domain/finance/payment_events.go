package finance

import (
	"github.com/gestock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Payment event types
const (
	EventTypePaymentRecorded = "finance.payment.recorded"
)

// PaymentAggregateType is the aggregate type for payment events
const PaymentAggregateType = "Payment"

// PaymentRecordedEvent is published when a supplier payment is recorded
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	Amount decimal.Decimal `json:"amount"`
	Method PaymentMethod   `json:"method"`
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(payment *Payment) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, PaymentAggregateType, payment.ID),
		Amount:          payment.Amount,
		Method:          payment.Method,
	}
}
