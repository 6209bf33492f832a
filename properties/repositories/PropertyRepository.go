package repositories

import (
	"errors"

	activity_services "property-marketplace-backend/activities/services"
	"property-marketplace-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PropertyRepository is the property directory: owner resolution, listing
// metadata for notifications, and the availability flip after a rental
// payment. Listing CRUD itself lives in another service.
type PropertyRepository interface {
	GetPropertyDetails(id uuid.UUID) (*models.Property, error)
	MarkUnavailable(tx *gorm.DB, id uuid.UUID) error
	GetOwnerProperties(ownerID uuid.UUID) ([]models.Property, error)
}

type propertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) GetPropertyDetails(id uuid.UUID) (*models.Property, error) {
	var property models.Property
	err := r.db.Preload("Owner").First(&property, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, activity_services.ErrPropertyNotFound
		}
		return nil, activity_services.ErrRemoteUnavailable
	}
	return &property, nil
}

// MarkUnavailable flips the listing off the market. Called inside the
// payment transaction for rentals.
func (r *propertyRepository) MarkUnavailable(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&models.Property{}).
		Where("id = ?", id).
		Update("is_available", false).Error
}

func (r *propertyRepository) GetOwnerProperties(ownerID uuid.UUID) ([]models.Property, error) {
	var properties []models.Property
	err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}
