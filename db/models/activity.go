package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ActivityKind is the sub-type of a transaction record. It determines which
// optional fields are meaningful and which transitions are legal.
type ActivityKind string

const (
	InquiryActivity     ActivityKind = "INQUIRY"
	VisitActivity       ActivityKind = "VISIT"
	ReservationActivity ActivityKind = "RESERVATION"
)

type ActivityStatus string

const (
	DraftActivity           ActivityStatus = "DRAFT"
	PendingActivity         ActivityStatus = "PENDING"
	AcceptedActivity        ActivityStatus = "ACCEPTED"
	RefusedActivity         ActivityStatus = "REFUSED"
	PaymentRequiredActivity ActivityStatus = "PAYMENT_REQUIRED"
	PaidActivity            ActivityStatus = "PAID"
	CompletedActivity       ActivityStatus = "COMPLETED"
	CancelledActivity       ActivityStatus = "CANCELLED"
	ExpiredActivity         ActivityStatus = "EXPIRED"
)

// IsTerminal reports whether no further transition can leave this status.
func (s ActivityStatus) IsTerminal() bool {
	switch s {
	case CompletedActivity, RefusedActivity, CancelledActivity, ExpiredActivity:
		return true
	}
	return false
}

type VisitType string

const (
	PhysicalVisit   VisitType = "physical"
	VirtualVisit    VisitType = "virtual"
	SelfGuidedVisit VisitType = "self_guided"
)

type AdminVerificationStatus string

const (
	VerificationNone     AdminVerificationStatus = "NONE"
	VerificationPending  AdminVerificationStatus = "PENDING"
	VerificationApproved AdminVerificationStatus = "APPROVED"
	VerificationRejected AdminVerificationStatus = "REJECTED"
)

type TitleDeedStatus string

const (
	TitleDeedNone      TitleDeedStatus = "NONE"
	TitleDeedRequested TitleDeedStatus = "REQUESTED"
	TitleDeedDelivered TitleDeedStatus = "DELIVERED"
)

// Activity is the canonical transaction record between one client and one
// property. The owner is resolved through the property, never stored here.
// Rows are never hard-deleted; terminal statuses are final facts in the
// audit trail.
type Activity struct {
	ID         uuid.UUID    `gorm:"type:uuid;primary_key;" json:"id"`
	PropertyID uuid.UUID    `gorm:"type:uuid;not null;index:idx_activity_pair" json:"property_id"`
	ClientID   uuid.UUID    `gorm:"type:uuid;not null;index:idx_activity_pair" json:"client_id"`
	Kind       ActivityKind `gorm:"type:varchar(20);not null;index" json:"kind"`

	Status ActivityStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`

	// Visit-specific fields
	VisitDate        *time.Time `json:"visit_date"`
	VisitTime        *string    `gorm:"type:varchar(5)" json:"visit_time"`
	VisitType        *VisitType `gorm:"type:varchar(20)" json:"visit_type"`
	NumberOfVisitors *int       `json:"number_of_visitors"`

	// Reservation-specific fields (rent)
	StartDate         *time.Time       `json:"start_date"`
	EndDate           *time.Time       `json:"end_date"`
	NumberOfOccupants *int             `json:"number_of_occupants"`
	HasGuarantor      *bool            `json:"has_guarantor"`
	MonthlyIncome     *decimal.Decimal `gorm:"type:decimal(15,2)" json:"monthly_income"`

	// Reservation-specific fields (sale)
	Budget        *decimal.Decimal `gorm:"type:decimal(15,2)" json:"budget"`
	FinancingType *string          `gorm:"type:varchar(50)" json:"financing_type"`
	Timeframe     *string          `gorm:"type:varchar(50)" json:"timeframe"`

	// Document gate
	DocumentsSubmitted bool               `gorm:"default:false" json:"documents_submitted"`
	DocumentsApproved  bool               `gorm:"default:false" json:"documents_approved"`
	UploadedFiles      []ActivityDocument `gorm:"foreignKey:ActivityID" json:"uploaded_files,omitempty"`

	// Payment gate
	IsPayment   bool             `gorm:"default:false" json:"is_payment"`
	Amount      *decimal.Decimal `gorm:"type:decimal(15,2)" json:"amount"`
	PaymentDate *time.Time       `json:"payment_date"`

	// Sale-only administrative gates
	AdminVerificationStatus AdminVerificationStatus `gorm:"type:varchar(20);default:'NONE'" json:"admin_verification_status"`
	TitleDeedStatus         TitleDeedStatus         `gorm:"type:varchar(20);default:'NONE'" json:"title_deed_status"`

	// Narrative
	Message *string `gorm:"type:text" json:"message"`
	Reason  *string `gorm:"type:text" json:"reason"`

	// Status timestamps
	AcceptedDate *time.Time `json:"accepted_date"`
	RefusDate    *time.Time `json:"refus_date"`

	// Relationships
	Property Property  `gorm:"foreignKey:PropertyID" json:"property"`
	Client   User      `gorm:"foreignKey:ClientID" json:"client"`
	Contract *Contract `gorm:"foreignKey:ActivityID" json:"contract,omitempty"`

	// Audit fields
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// ActivityDocument is one file uploaded by the client toward the document
// approval gate of a reservation.
type ActivityDocument struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	ActivityID uuid.UUID `gorm:"type:uuid;not null;index" json:"activity_id"`
	FileName   string    `gorm:"not null" json:"file_name"`
	FileURL    string    `gorm:"not null" json:"file_url"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (d *ActivityDocument) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
