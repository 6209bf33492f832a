package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationType string

const (
	VisitRequestedNotification       NotificationType = "VISIT_REQUESTED"
	VisitAcceptedNotification        NotificationType = "VISIT_ACCEPTED"
	VisitRefusedNotification         NotificationType = "VISIT_REFUSED"
	ReservationRequestedNotification NotificationType = "RESERVATION_REQUESTED"
	ReservationAcceptedNotification  NotificationType = "RESERVATION_ACCEPTED"
	ReservationRefusedNotification   NotificationType = "RESERVATION_REFUSED"
	DocumentsSubmittedNotification   NotificationType = "DOCUMENTS_SUBMITTED"
	DocumentsReviewedNotification    NotificationType = "DOCUMENTS_REVIEWED"
	PaymentReceivedNotification      NotificationType = "PAYMENT_RECEIVED"
	ContractReadyNotification        NotificationType = "CONTRACT_READY"
	VerificationReviewedNotification NotificationType = "VERIFICATION_REVIEWED"
	TitleDeedNotification            NotificationType = "TITLE_DEED"
	RequestExpiredNotification       NotificationType = "REQUEST_EXPIRED"
	RequestCancelledNotification     NotificationType = "REQUEST_CANCELLED"
)

type NotificationPriority string

const (
	LowPriority    NotificationPriority = "low"
	NormalPriority NotificationPriority = "normal"
	HighPriority   NotificationPriority = "high"
)

type Notification struct {
	ID     uuid.UUID        `gorm:"type:uuid;primary_key;" json:"id"`
	UserID uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	Type   NotificationType `gorm:"type:varchar(40);not null" json:"type"`

	Title    string               `gorm:"not null" json:"title"`
	Message  string               `gorm:"type:text;not null" json:"message"`
	Priority NotificationPriority `gorm:"type:varchar(10);not null;default:'normal'" json:"priority"`

	// Structured payload (activity id, property id, ...) for deep links
	Data datatypes.JSON `json:"data,omitempty"`

	IsRead bool `gorm:"default:false;index" json:"is_read"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user"`

	// Audit fields
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
