package repositories

import (
	"errors"

	"property-marketplace-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContractRepository interface {
	CreateContract(contract *models.Contract) error
	GetContractByID(id uuid.UUID) (*models.Contract, error)
	GetContractByActivityID(activityID uuid.UUID) (*models.Contract, error)
	SaveContract(contract *models.Contract) error
}

type contractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) CreateContract(contract *models.Contract) error {
	return r.db.Create(contract).Error
}

func (r *contractRepository) GetContractByID(id uuid.UUID) (*models.Contract, error) {
	var contract models.Contract
	if err := r.db.First(&contract, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

// GetContractByActivityID returns nil without error when no contract exists
// for the activity yet.
func (r *contractRepository) GetContractByActivityID(activityID uuid.UUID) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.First(&contract, "activity_id = ?", activityID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) SaveContract(contract *models.Contract) error {
	return r.db.Save(contract).Error
}
