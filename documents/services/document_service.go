package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	activity_services "property-marketplace-backend/activities/services"
	"property-marketplace-backend/activities/repositories"
	"property-marketplace-backend/config"
	"property-marketplace-backend/db/models"
	"property-marketplace-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DocumentService handles the document gate of a reservation: the client
// uploads supporting files, the owner approves or rejects them. Approval is
// the prerequisite that unlocks payment; upload never auto-approves.
type DocumentService struct {
	db           *gorm.DB
	activityRepo repositories.ActivityRepository
	storage      utils.FileStorage
	notifier     activity_services.Notifier
	progress     *activity_services.ProgressService
}

func NewDocumentService(
	db *gorm.DB,
	activityRepo repositories.ActivityRepository,
	storage utils.FileStorage,
	notifier activity_services.Notifier,
	progress *activity_services.ProgressService,
) *DocumentService {
	return &DocumentService{
		db:           db,
		activityRepo: activityRepo,
		storage:      storage,
		notifier:     notifier,
		progress:     progress,
	}
}

// UploadActivityDocument stores the file, appends it to the activity's
// uploaded files and marks documents as submitted. Client-only, and only
// meaningful once the reservation was accepted.
func (s *DocumentService) UploadActivityDocument(ctx context.Context, actorID, activityID uuid.UUID, file multipart.File, fileName string) (*models.ActivityDocument, error) {
	var doc *models.ActivityDocument

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
		if activity.Kind == models.VisitActivity {
			return &activity_services.ValidationError{Field: "activity_id", Message: "documents apply to reservations only"}
		}
		if activity.Status != models.AcceptedActivity && activity.Status != models.PaymentRequiredActivity {
			return &activity_services.ValidationError{Field: "activity_id", Message: "documents can only be submitted after the request is accepted"}
		}

		storedName := fmt.Sprintf("%s_%d%s", activityID, time.Now().UnixNano(), filepath.Ext(fileName))
		fileURL, err := s.storage.UploadFile(file, storedName)
		if err != nil {
			return fmt.Errorf("failed to store document: %w", err)
		}

		doc = &models.ActivityDocument{
			ActivityID: activityID,
			FileName:   fileName,
			FileURL:    fileURL,
		}
		if err := tx.Create(doc).Error; err != nil {
			return activity_services.ErrRemoteUnavailable
		}

		// A resubmission after rejection resets the approval flag.
		activity.DocumentsSubmitted = true
		activity.DocumentsApproved = false
		if err := s.activityRepo.SaveActivity(tx, activity); err != nil {
			return activity_services.ErrRemoteUnavailable
		}

		config.Logger.Info("Activity document uploaded",
			zap.String("activityID", activityID.String()),
			zap.String("fileName", fileName),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	activity, lookupErr := s.activityRepo.GetActivityByID(activityID)
	if lookupErr == nil && activity != nil {
		s.notifier.Notify(ctx, activity.Property.OwnerID, activity_services.NotificationInput{
			Type:     models.DocumentsSubmittedNotification,
			Title:    "Documents submitted",
			Message:  activity.Client.FullName() + " submitted documents for " + activity.Property.Title,
			Priority: models.NormalPriority,
			Data: map[string]interface{}{
				"activity_id": activityID.String(),
				"property_id": activity.PropertyID.String(),
			},
		})
	}

	return doc, nil
}

// ReviewDocuments records the owner's decision. Approval moves the
// reservation to PAYMENT_REQUIRED; rejection keeps it ACCEPTED with the
// reason surfaced verbatim so the client can resubmit. Reviewing does not
// move money.
func (s *DocumentService) ReviewDocuments(ctx context.Context, actorID, activityID uuid.UUID, approved bool, reason *string) (*models.Activity, error) {
	var reviewed *models.Activity

	err := s.db.Transaction(func(tx *gorm.DB) error {
		activity, err := s.activityRepo.GetActivityTx(tx, activityID)
		if err != nil {
			return activity_services.ErrRemoteUnavailable
		}
		if activity == nil {
			return activity_services.ErrActivityNotFound
		}
		if activity.Property.OwnerID != actorID {
			return activity_services.ErrUnauthorizedTransition
		}
		if !activity.DocumentsSubmitted {
			return &activity_services.ValidationError{Field: "activity_id", Message: "no documents have been submitted"}
		}

		if approved {
			if activity.Status == models.PaymentRequiredActivity && activity.DocumentsApproved {
				reviewed = activity
				return nil
			}
			if err := activity_services.CheckTransition(activity.Kind, activity.Status, models.PaymentRequiredActivity); err != nil {
				return err
			}
			activity.DocumentsApproved = true
			activity.Status = models.PaymentRequiredActivity
		} else {
			activity.DocumentsApproved = false
			activity.DocumentsSubmitted = false
			activity.Reason = reason
		}

		if err := s.activityRepo.SaveActivity(tx, activity); err != nil {
			return activity_services.ErrRemoteUnavailable
		}
		reviewed = activity
		return nil
	})
	if err != nil {
		return nil, err
	}

	body := "Your documents for " + reviewed.Property.Title + " were approved. You can proceed to payment."
	if !approved {
		body = "Your documents for " + reviewed.Property.Title + " were rejected. Please resubmit."
		if reason != nil && *reason != "" {
			body += " Reason: " + *reason
		}
	}
	s.notifier.Notify(ctx, reviewed.ClientID, activity_services.NotificationInput{
		Type:     models.DocumentsReviewedNotification,
		Title:    "Documents reviewed",
		Message:  body,
		Priority: models.HighPriority,
		Data: map[string]interface{}{
			"activity_id": activityID.String(),
			"property_id": reviewed.PropertyID.String(),
			"approved":    approved,
		},
	})
	s.progress.InvalidateProgress(ctx, reviewed.PropertyID, reviewed.ClientID)

	return reviewed, nil
}
