package ops

import (
	"strings"
	"time"

	"github.com/gestock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Distribution records the hand-out of an article quantity to a named
// beneficiary (a person or a department). It may reference the issue note
// that moved the stock, but the stock adjustment itself always goes through
// a stock document; a distribution is a traceability record only.
type Distribution struct {
	shared.OwnedAggregateRoot
	ArticleID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Beneficiary string          `gorm:"type:varchar(200);not null"`
	// DocumentID links the issue note backing this hand-out, when one exists
	DocumentID       *uuid.UUID `gorm:"type:uuid;index"`
	DistributionDate time.Time  `gorm:"not null"`
	Remark           string     `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Distribution) TableName() string {
	return "distributions"
}

// NewDistribution creates a new distribution record
func NewDistribution(articleID uuid.UUID, quantity decimal.Decimal, beneficiary string, documentID *uuid.UUID, distributionDate time.Time, createdBy uuid.UUID) (*Distribution, error) {
	if articleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ARTICLE", "Article ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Distribution quantity must be positive")
	}
	if strings.TrimSpace(beneficiary) == "" {
		return nil, shared.NewDomainError("INVALID_BENEFICIARY", "Beneficiary cannot be empty")
	}
	if distributionDate.IsZero() {
		distributionDate = time.Now()
	}

	dist := &Distribution{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(createdBy),
		ArticleID:          articleID,
		Quantity:           quantity,
		Beneficiary:        strings.TrimSpace(beneficiary),
		DocumentID:         documentID,
		DistributionDate:   distributionDate,
	}

	dist.AddDomainEvent(NewDistributionCreatedEvent(dist))

	return dist, nil
}
