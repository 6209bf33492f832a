package repositories

import (
	"time"

	"property-marketplace-backend/db/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BookingView is a read-optimized projection of a RESERVATION activity plus
// property and owner metadata. Derived, never authoritative; the Activity row
// is the record of truth.
type BookingView struct {
	ActivityID    uuid.UUID             `json:"activity_id"`
	PropertyID    uuid.UUID             `json:"property_id"`
	PropertyTitle string                `json:"property_title"`
	OwnerID       uuid.UUID             `json:"owner_id"`
	Status        models.ActivityStatus `json:"status"`

	ActionType    models.PropertyActionType `json:"action_type"`
	MonthlyRent   *decimal.Decimal          `json:"monthly_rent"`
	SalePrice     *decimal.Decimal          `json:"sale_price"`
	DepositAmount *decimal.Decimal          `json:"deposit_amount"`

	StartDate          *time.Time       `json:"start_date"`
	EndDate            *time.Time       `json:"end_date"`
	Budget             *decimal.Decimal `json:"budget"`
	DocumentsSubmitted bool             `json:"documents_submitted"`
	DocumentsApproved  bool             `json:"documents_approved"`
	IsPayment          bool             `json:"is_payment"`
	Amount             *decimal.Decimal `json:"amount"`
	CreatedAt          time.Time        `json:"created_at"`
}

type BookingViewRepository interface {
	GetClientBookings(clientID uuid.UUID) ([]BookingView, error)
	GetOwnerBookings(ownerID uuid.UUID) ([]BookingView, error)
}

type bookingViewRepository struct {
	db *gorm.DB
}

func NewBookingViewRepository(db *gorm.DB) BookingViewRepository {
	return &bookingViewRepository{db: db}
}

func (r *bookingViewRepository) GetClientBookings(clientID uuid.UUID) ([]BookingView, error) {
	var activities []models.Activity
	err := r.db.
		Preload("Property").
		Where("client_id = ? AND kind IN ?", clientID, []models.ActivityKind{models.ReservationActivity, models.InquiryActivity}).
		Order("created_at DESC").
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return projectBookings(activities), nil
}

func (r *bookingViewRepository) GetOwnerBookings(ownerID uuid.UUID) ([]BookingView, error) {
	var activities []models.Activity
	err := r.db.
		Preload("Property").
		Joins("JOIN properties ON properties.id = activities.property_id").
		Where("properties.owner_id = ? AND activities.kind IN ?", ownerID, []models.ActivityKind{models.ReservationActivity, models.InquiryActivity}).
		Order("activities.created_at DESC").
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return projectBookings(activities), nil
}

func projectBookings(activities []models.Activity) []BookingView {
	views := make([]BookingView, 0, len(activities))
	for _, a := range activities {
		views = append(views, BookingView{
			ActivityID:         a.ID,
			PropertyID:         a.PropertyID,
			PropertyTitle:      a.Property.Title,
			OwnerID:            a.Property.OwnerID,
			Status:             a.Status,
			ActionType:         a.Property.ActionType,
			MonthlyRent:        a.Property.MonthlyRent,
			SalePrice:          a.Property.SalePrice,
			DepositAmount:      a.Property.DepositAmount,
			StartDate:          a.StartDate,
			EndDate:            a.EndDate,
			Budget:             a.Budget,
			DocumentsSubmitted: a.DocumentsSubmitted,
			DocumentsApproved:  a.DocumentsApproved,
			IsPayment:          a.IsPayment,
			Amount:             a.Amount,
			CreatedAt:          a.CreatedAt,
		})
	}
	return views
}
