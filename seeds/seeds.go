package seeds

import (
	"errors"
	"fmt"

	"property-marketplace-backend/config"
	"property-marketplace-backend/db/models"
	"property-marketplace-backend/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type seedUser struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      models.UserRole
	City      *string
}

// SeedDemoUsers creates the demo accounts used in development: one admin, two
// owners and two clients. Existing accounts are left untouched.
func SeedDemoUsers(db *gorm.DB) error {
	config.Logger.Info("Starting demo user seeding...")

	users := []seedUser{
		{FirstName: "Platform", LastName: "Admin", Email: "admin@marketplace.local", Password: "admin1234", Role: models.AdminRole},
		{FirstName: "Olivia", LastName: "Moyo", Email: "olivia.owner@marketplace.local", Password: "owner1234", Role: models.OwnerRole, City: utils.StringPtr("Harare")},
		{FirstName: "Oscar", LastName: "Ncube", Email: "oscar.owner@marketplace.local", Password: "owner1234", Role: models.OwnerRole, City: utils.StringPtr("Bulawayo")},
		{FirstName: "Chipo", LastName: "Dube", Email: "chipo.client@marketplace.local", Password: "client1234", Role: models.ClientRole, City: utils.StringPtr("Harare")},
		{FirstName: "Tendai", LastName: "Banda", Email: "tendai.client@marketplace.local", Password: "client1234", Role: models.ClientRole, City: utils.StringPtr("Harare")},
	}

	createdCount := 0
	for _, u := range users {
		var existing models.User
		result := db.Where("email = ?", u.Email).First(&existing)
		if result.Error == nil {
			continue
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check for existing user %s: %w", u.Email, result.Error)
		}

		user := models.User{
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			Role:      u.Role,
			City:      u.City,
			IsActive:  true,
		}
		if err := user.SetPassword(u.Password); err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", u.Email, err)
		}
		if err := db.Create(&user).Error; err != nil {
			config.Logger.Error("Failed to create demo user",
				zap.String("email", u.Email),
				zap.Error(err))
			return fmt.Errorf("failed to create user %s: %w", u.Email, err)
		}
		createdCount++
		config.Logger.Info("Created demo user", zap.String("email", u.Email), zap.String("role", string(u.Role)))
	}

	config.Logger.Info("Demo user seeding complete", zap.Int("created", createdCount))
	return nil
}

// SeedDemoProperties attaches a few listings to the seeded owner accounts.
func SeedDemoProperties(db *gorm.DB) error {
	config.Logger.Info("Starting demo property seeding...")

	var owner models.User
	if err := db.Where("email = ?", "olivia.owner@marketplace.local").First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			config.Logger.Warn("Demo owner not found, skipping property seeding")
			return nil
		}
		return fmt.Errorf("failed to load demo owner: %w", err)
	}

	rent := decimal.NewFromInt(850)
	deposit := decimal.NewFromInt(850)
	salePrice := decimal.NewFromInt(120000)

	properties := []models.Property{
		{
			OwnerID:     owner.ID,
			Title:       "Two-bedroom apartment in Avondale",
			Description: utils.StringPtr("Bright two-bedroom apartment close to shops and transport."),
			Address:     utils.StringPtr("12 King George Road"),
			City:        utils.StringPtr("Harare"),
			ActionType:  models.RentActionType,
			Price:       rent,
			MonthlyRent: &rent,
			DepositAmount: &deposit,
			IsAvailable: true,
		},
		{
			OwnerID:     owner.ID,
			Title:       "Family home in Borrowdale",
			Description: utils.StringPtr("Four-bedroom house on half an acre, borehole and solar."),
			Address:     utils.StringPtr("48 Crowhill Road"),
			City:        utils.StringPtr("Harare"),
			ActionType:  models.SaleActionType,
			Price:       salePrice,
			SalePrice:   &salePrice,
			IsAvailable: true,
		},
	}

	createdCount := 0
	for _, p := range properties {
		var existing models.Property
		result := db.Where("owner_id = ? AND title = ?", p.OwnerID, p.Title).First(&existing)
		if result.Error == nil {
			continue
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check for existing property %q: %w", p.Title, result.Error)
		}
		if err := db.Create(&p).Error; err != nil {
			config.Logger.Error("Failed to create demo property",
				zap.String("title", p.Title),
				zap.Error(err))
			return fmt.Errorf("failed to create property %q: %w", p.Title, err)
		}
		createdCount++
	}

	config.Logger.Info("Demo property seeding complete", zap.Int("created", createdCount))
	return nil
}

