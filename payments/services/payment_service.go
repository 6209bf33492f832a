package services

import (
	"context"
	"time"

	activity_services "property-marketplace-backend/activities/services"
	"property-marketplace-backend/activities/repositories"
	"property-marketplace-backend/config"
	contract_services "property-marketplace-backend/contracts/services"
	"property-marketplace-backend/db/models"
	property_repositories "property-marketplace-backend/properties/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentService runs the payment gate: validates eligibility, records the
// payment, flips rental availability and triggers contract generation. A
// failed payment leaves the record untouched; nothing is marked paid before
// the store confirms.
type PaymentService struct {
	db           *gorm.DB
	activityRepo repositories.ActivityRepository
	propertyRepo property_repositories.PropertyRepository
	contracts    *contract_services.ContractService
	notifier     activity_services.Notifier
	progress     *activity_services.ProgressService
}

func NewPaymentService(
	db *gorm.DB,
	activityRepo repositories.ActivityRepository,
	propertyRepo property_repositories.PropertyRepository,
	contracts *contract_services.ContractService,
	notifier activity_services.Notifier,
	progress *activity_services.ProgressService,
) *PaymentService {
	return &PaymentService{
		db:           db,
		activityRepo: activityRepo,
		propertyRepo: propertyRepo,
		contracts:    contracts,
		notifier:     notifier,
		progress:     progress,
	}
}

// ProcessPayment is client-only and requires the activity to be in
// PAYMENT_REQUIRED. On success the record is PAID; rentals additionally take
// the property off the market and complete once the contract exists. Sales
// stay PAID awaiting administrative verification. A retried call against a
// record that already carries its payment is an idempotent success with no
// duplicated notification or contract generation.
func (s *PaymentService) ProcessPayment(ctx context.Context, actorID, activityID uuid.UUID, amount decimal.Decimal) (*models.Activity, error) {
	if !amount.IsPositive() {
		return nil, &activity_services.ValidationError{Field: "amount", Message: "a positive amount is required"}
	}

	var paid *models.Activity
	var alreadyPaid bool

	err := s.db.Transaction(func(tx *gorm.DB) error {
		activity, err := s.activityRepo.GetActivityTx(tx, activityID)
		if err != nil {
			return activity_services.ErrRemoteUnavailable
		}
		if activity == nil {
			return activity_services.ErrActivityNotFound
		}
		if activity.ClientID != actorID {
			return activity_services.ErrUnauthorizedTransition
		}
		if activity.IsPayment {
			paid = activity
			alreadyPaid = true
			return nil
		}
		if err := activity_services.CheckTransition(activity.Kind, activity.Status, models.PaidActivity); err != nil {
			return err
		}

		now := time.Now()
		activity.Status = models.PaidActivity
		activity.IsPayment = true
		activity.Amount = &amount
		activity.PaymentDate = &now

		if err := s.activityRepo.SaveActivity(tx, activity); err != nil {
			return activity_services.ErrRemoteUnavailable
		}

		// Rentals leave the market as soon as the payment commits.
		if activity.Property.ActionType == models.RentActionType {
			if err := s.propertyRepo.MarkUnavailable(tx, activity.PropertyID); err != nil {
				return activity_services.ErrRemoteUnavailable
			}
		}

		paid = activity
		return nil
	})
	if err != nil {
		return nil, err
	}
	if alreadyPaid {
		return paid, nil
	}

	s.notifier.Notify(ctx, paid.Property.OwnerID, activity_services.NotificationInput{
		Type:     models.PaymentReceivedNotification,
		Title:    "Payment received",
		Message:  paid.Client.FullName() + " paid " + amount.StringFixed(2) + " for " + paid.Property.Title,
		Priority: models.HighPriority,
		Data: map[string]interface{}{
			"activity_id": activityID.String(),
			"property_id": paid.PropertyID.String(),
			"amount":      amount.String(),
		},
	})

	// Contract generation follows the committed payment. A generation
	// failure never unwinds the payment; the contract can be regenerated.
	contract, err := s.contracts.GenerateForActivity(ctx, paid)
	if err != nil {
		config.Logger.Error("Contract generation failed after payment",
			zap.String("activityID", activityID.String()),
			zap.Error(err),
		)
		s.progress.InvalidateProgress(ctx, paid.PropertyID, paid.ClientID)
		return paid, nil
	}

	s.notifier.Notify(ctx, paid.ClientID, activity_services.NotificationInput{
		Type:     models.ContractReadyNotification,
		Title:    "Contract ready",
		Message:  "Your contract for " + paid.Property.Title + " is ready.",
		Priority: models.HighPriority,
		Data: map[string]interface{}{
			"activity_id": activityID.String(),
			"contract_id": contract.ID.String(),
		},
	})

	// Rentals complete once the contract exists; sales wait for the
	// verification and title-deed gates.
	if paid.Property.ActionType == models.RentActionType {
		if err := s.completeRental(paid); err != nil {
			config.Logger.Error("Failed to complete rental after contract generation",
				zap.String("activityID", activityID.String()),
				zap.Error(err),
			)
		}
	}

	s.progress.InvalidateProgress(ctx, paid.PropertyID, paid.ClientID)
	return paid, nil
}

func (s *PaymentService) completeRental(activity *models.Activity) error {
	if err := activity_services.CheckTransition(activity.Kind, activity.Status, models.CompletedActivity); err != nil {
		return err
	}
	activity.Status = models.CompletedActivity
	return s.activityRepo.SaveActivity(s.db, activity)
}
