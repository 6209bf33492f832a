package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PropertyActionType distinguishes rental listings from sale listings.
// The transaction workflow branches on this in several places (payment,
// admin verification, contract template).
type PropertyActionType string

const (
	RentActionType PropertyActionType = "rent"
	SaleActionType PropertyActionType = "sale"
)

type Property struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	Address     *string   `json:"address"`
	City        *string   `json:"city"`

	ActionType PropertyActionType `gorm:"type:varchar(10);not null;index" json:"action_type"`

	// Financials. MonthlyRent applies to rentals, SalePrice to sales;
	// Price mirrors whichever is relevant for listing display.
	Price         decimal.Decimal  `gorm:"type:decimal(15,2);not null" json:"price"`
	MonthlyRent   *decimal.Decimal `gorm:"type:decimal(15,2)" json:"monthly_rent"`
	SalePrice     *decimal.Decimal `gorm:"type:decimal(15,2)" json:"sale_price"`
	DepositAmount *decimal.Decimal `gorm:"type:decimal(15,2)" json:"deposit_amount"`

	// Flipped to false when a rental payment completes.
	IsAvailable bool `gorm:"default:true;index" json:"is_available"`

	// Relationships
	Owner User `gorm:"foreignKey:OwnerID" json:"owner"`

	// Audit fields
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Property) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
