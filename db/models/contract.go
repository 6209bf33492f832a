package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContractStatus string

const (
	DraftContract  ContractStatus = "draft"
	FinalContract  ContractStatus = "final"
	SignedContract ContractStatus = "signed"
)

// Contract is the generated legal artifact for a paid transaction. At most
// one row exists per activity; generation is deduplicated on ActivityID.
type Contract struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	ActivityID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"activity_id"`

	ContractURL    string         `gorm:"not null" json:"contract_url"`
	ContractPdfURL string         `json:"contract_pdf_url"`
	Status         ContractStatus `gorm:"type:varchar(10);not null;default:'draft'" json:"status"`

	// Signing is handled by an external service; the flags are mirrored here.
	ClientSigned bool `gorm:"default:false" json:"client_signed"`
	OwnerSigned  bool `gorm:"default:false" json:"owner_signed"`

	// Audit fields
	CreatedBy string         `gorm:"not null" json:"created_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Contract) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
