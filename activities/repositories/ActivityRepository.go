package repositories

import (
	"errors"
	"time"

	"property-marketplace-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityRepository is the authoritative record store for transaction
// activities. Callers treat the returned rows as the sole source of truth;
// optimistic local state is never written back without going through here.
type ActivityRepository interface {
	CreateActivity(tx *gorm.DB, activity *models.Activity) error
	GetActivityByID(id uuid.UUID) (*models.Activity, error)
	GetActivityTx(tx *gorm.DB, id uuid.UUID) (*models.Activity, error)
	GetActiveActivity(propertyID, clientID uuid.UUID, kind models.ActivityKind) (*models.Activity, error)
	GetLatestActivity(propertyID, clientID uuid.UUID, kind models.ActivityKind) (*models.Activity, error)
	GetVisitsOnDate(propertyID uuid.UUID, date time.Time) ([]models.Activity, error)
	SaveActivity(tx *gorm.DB, activity *models.Activity) error
	GetFilteredActivities(filter ActivityFilter) ([]models.Activity, error)
	GetStalePendingActivities(olderThan time.Time) ([]models.Activity, error)
}

type ActivityFilter struct {
	PropertyID *uuid.UUID
	ClientID   *uuid.UUID
	OwnerID    *uuid.UUID
	Kind       *models.ActivityKind
	Status     *models.ActivityStatus
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) CreateActivity(tx *gorm.DB, activity *models.Activity) error {
	return tx.Create(activity).Error
}

func (r *activityRepository) GetActivityByID(id uuid.UUID) (*models.Activity, error) {
	var activity models.Activity
	err := r.db.
		Preload("Property").
		Preload("Property.Owner").
		Preload("Client").
		Preload("UploadedFiles").
		Preload("Contract").
		First(&activity, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &activity, nil
}

// GetActivityTx loads the row inside the caller's transaction so the store,
// not the engine, arbitrates two devices acting on the same record.
func (r *activityRepository) GetActivityTx(tx *gorm.DB, id uuid.UUID) (*models.Activity, error) {
	var activity models.Activity
	err := tx.
		Preload("Property").
		Preload("Property.Owner").
		Preload("Client").
		First(&activity, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &activity, nil
}

// GetActiveActivity returns the non-terminal activity of the given kind for
// the pair, or nil when none exists.
func (r *activityRepository) GetActiveActivity(propertyID, clientID uuid.UUID, kind models.ActivityKind) (*models.Activity, error) {
	var activity models.Activity
	err := r.db.
		Where("property_id = ? AND client_id = ? AND kind = ?", propertyID, clientID, kind).
		Where("status IN ?", []models.ActivityStatus{
			models.PendingActivity,
			models.AcceptedActivity,
			models.PaymentRequiredActivity,
			models.PaidActivity,
		}).
		Order("created_at DESC").
		First(&activity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &activity, nil
}

// GetLatestActivity returns the most recent activity of the given kind for
// the pair regardless of status, or nil. The progress projection reads
// through this.
func (r *activityRepository) GetLatestActivity(propertyID, clientID uuid.UUID, kind models.ActivityKind) (*models.Activity, error) {
	var activity models.Activity
	err := r.db.
		Where("property_id = ? AND client_id = ? AND kind = ?", propertyID, clientID, kind).
		Order("created_at DESC").
		First(&activity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &activity, nil
}

// GetVisitsOnDate returns non-terminal visit activities for the property on
// the given calendar date. Conflict granularity is the date, not date+time.
func (r *activityRepository) GetVisitsOnDate(propertyID uuid.UUID, date time.Time) ([]models.Activity, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var visits []models.Activity
	err := r.db.
		Where("property_id = ? AND kind = ?", propertyID, models.VisitActivity).
		Where("visit_date >= ? AND visit_date < ?", dayStart, dayEnd).
		Where("status IN ?", []models.ActivityStatus{models.PendingActivity, models.AcceptedActivity}).
		Find(&visits).Error
	if err != nil {
		return nil, err
	}
	return visits, nil
}

func (r *activityRepository) SaveActivity(tx *gorm.DB, activity *models.Activity) error {
	return tx.Save(activity).Error
}

func (r *activityRepository) GetFilteredActivities(filter ActivityFilter) ([]models.Activity, error) {
	query := r.db.Model(&models.Activity{}).
		Preload("Property").
		Preload("Client").
		Order("created_at DESC")

	if filter.PropertyID != nil {
		query = query.Where("activities.property_id = ?", *filter.PropertyID)
	}
	if filter.ClientID != nil {
		query = query.Where("activities.client_id = ?", *filter.ClientID)
	}
	if filter.OwnerID != nil {
		query = query.
			Joins("JOIN properties ON properties.id = activities.property_id").
			Where("properties.owner_id = ?", *filter.OwnerID)
	}
	if filter.Kind != nil {
		query = query.Where("activities.kind = ?", *filter.Kind)
	}
	if filter.Status != nil {
		query = query.Where("activities.status = ?", *filter.Status)
	}

	var activities []models.Activity
	if err := query.Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// GetStalePendingActivities feeds the expiry sweep: PENDING visits whose date
// has passed, and PENDING reservations/inquiries created before the cutoff.
func (r *activityRepository) GetStalePendingActivities(olderThan time.Time) ([]models.Activity, error) {
	var stale []models.Activity
	err := r.db.
		Where("status = ?", models.PendingActivity).
		Where(
			r.db.Where("kind = ? AND visit_date < ?", models.VisitActivity, olderThan).
				Or("kind IN ? AND created_at < ?", []models.ActivityKind{models.ReservationActivity, models.InquiryActivity}, olderThan),
		).
		Find(&stale).Error
	if err != nil {
		return nil, err
	}
	return stale, nil
}
