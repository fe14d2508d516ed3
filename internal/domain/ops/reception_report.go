package ops

import (
	"strings"
	"time"

	"github.com/gestock/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReceptionVerdict is the outcome recorded by the reception committee
type ReceptionVerdict string

const (
	// VerdictAccepted means the delivery conformed and was accepted
	VerdictAccepted ReceptionVerdict = "ACCEPTED"
	// VerdictReserved means the delivery was accepted with reservations
	VerdictReserved ReceptionVerdict = "RESERVED"
	// VerdictRejected means the delivery was refused
	VerdictRejected ReceptionVerdict = "REJECTED"
)

// IsValid checks if the verdict is a known value
func (v ReceptionVerdict) IsValid() bool {
	switch v {
	case VerdictAccepted, VerdictReserved, VerdictRejected:
		return true
	}
	return false
}

// String returns the string representation of the verdict
func (v ReceptionVerdict) String() string {
	return string(v)
}

// ReceptionReportNumberPrefix is the document-number prefix for reception reports
const ReceptionReportNumberPrefix = "PV"

// ReceptionReport is the formal minutes (procès-verbal) drawn up when a
// delivery is inspected. It references the receipt note it documents.
type ReceptionReport struct {
	shared.OwnedAggregateRoot
	Number     string    `gorm:"type:varchar(30);not null;uniqueIndex"`
	DocumentID uuid.UUID `gorm:"type:uuid;not null;index"`
	ReportDate time.Time `gorm:"not null"`
	// Committee holds the member names, one per line
	Committee string           `gorm:"type:text;not null"`
	Verdict   ReceptionVerdict `gorm:"type:varchar(20);not null"`
	Remarks   string           `gorm:"type:varchar(1000)"`
}

// TableName returns the table name for GORM
func (ReceptionReport) TableName() string {
	return "reception_reports"
}

// NewReceptionReport creates a new reception report
func NewReceptionReport(number string, documentID uuid.UUID, reportDate time.Time, committee string, verdict ReceptionVerdict, remarks string, createdBy uuid.UUID) (*ReceptionReport, error) {
	if documentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Document ID cannot be empty")
	}
	if strings.TrimSpace(committee) == "" {
		return nil, shared.NewDomainError("INVALID_COMMITTEE", "Committee members are required")
	}
	if !verdict.IsValid() {
		return nil, shared.NewDomainError("INVALID_VERDICT", "Verdict must be ACCEPTED, RESERVED or REJECTED")
	}
	if reportDate.IsZero() {
		reportDate = time.Now()
	}

	report := &ReceptionReport{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(createdBy),
		Number:             number,
		DocumentID:         documentID,
		ReportDate:         reportDate,
		Committee:          strings.TrimSpace(committee),
		Verdict:            verdict,
		Remarks:            remarks,
	}

	report.AddDomainEvent(NewReceptionReportCreatedEvent(report))

	return report, nil
}
