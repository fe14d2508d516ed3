package finance

import (
	"strings"
	"time"

	"github.com/gestock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is the settlement channel used to pay a supplier
type PaymentMethod string

const (
	// PaymentMethodCash is a cash settlement
	PaymentMethodCash PaymentMethod = "CASH"
	// PaymentMethodCheck is a check settlement
	PaymentMethodCheck PaymentMethod = "CHECK"
	// PaymentMethodTransfer is a bank transfer
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
)

// IsValid checks if the payment method is a known value
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCheck, PaymentMethodTransfer:
		return true
	}
	return false
}

// String returns the string representation of the method
func (m PaymentMethod) String() string {
	return string(m)
}

// Payment records a supplier payment made against a receipt note.
type Payment struct {
	shared.OwnedAggregateRoot
	DocumentID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Method      PaymentMethod   `gorm:"type:varchar(20);not null"`
	Reference   string          `gorm:"type:varchar(100)"`
	PaymentDate time.Time       `gorm:"not null"`
	Remark      string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a new payment record
func NewPayment(documentID uuid.UUID, amount decimal.Decimal, method PaymentMethod, reference string, paymentDate time.Time, createdBy uuid.UUID) (*Payment, error) {
	if documentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Document ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payment method must be CASH, CHECK or TRANSFER")
	}
	// Checks and transfers need a traceable reference
	if method != PaymentMethodCash && strings.TrimSpace(reference) == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference is required for check and transfer payments")
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	payment := &Payment{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(createdBy),
		DocumentID:         documentID,
		Amount:             amount,
		Method:             method,
		Reference:          strings.TrimSpace(reference),
		PaymentDate:        paymentDate,
	}

	payment.AddDomainEvent(NewPaymentRecordedEvent(payment))

	return payment, nil
}
