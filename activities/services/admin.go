package services

import (
	"context"

	"property-marketplace-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sale-only administrative gates. After payment, a sale transaction needs
// platform verification before the title deed can be requested and
// delivered. A rejected verification is a soft stop: the record stays PAID
// for a human to follow up, with no automatic CANCELLED transition.

// SubmitForAdminVerification is invoked by the paying client once the sale
// payment is through.
func (s *TransitionService) SubmitForAdminVerification(ctx context.Context, actorID, activityID uuid.UUID) (*TransitionResult, error) {
	var result *TransitionResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		activity, err := s.loadSaleActivity(tx, activityID)
		if err != nil {
			return err
		}
		if activity.ClientID != actorID {
			return ErrUnauthorizedTransition
		}
		if activity.Status != models.PaidActivity {
			return &InvalidTransitionError{Kind: activity.Kind, Current: activity.Status, Action: "submit for verification"}
		}

		if activity.AdminVerificationStatus == models.VerificationPending {
			result = &TransitionResult{Activity: activity, AlreadyApplied: true}
			return nil
		}

		activity.AdminVerificationStatus = models.VerificationPending
		if err := s.activityRepo.SaveActivity(tx, activity); err != nil {
			return ErrRemoteUnavailable
		}
		result = &TransitionResult{Activity: activity}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyApplied {
		s.progress.InvalidateProgress(ctx, result.Activity.PropertyID, result.Activity.ClientID)
	}
	return result, nil
}

// AdminApproveVerification records the platform's decision. Admin-only.
// Approval unlocks the title-deed path; rejection keeps the record PAID and
// tells the client to contact support.
func (s *TransitionService) AdminApproveVerification(ctx context.Context, actorRole models.UserRole, activityID uuid.UUID, approved bool, reason *string) (*TransitionResult, error) {
	if actorRole != models.AdminRole {
		return nil, ErrUnauthorizedTransition
	}

	var result *TransitionResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		activity, err := s.loadSaleActivity(tx, activityID)
		if err != nil {
			return err
		}
		if activity.AdminVerificationStatus != models.VerificationPending {
			if activity.AdminVerificationStatus == models.VerificationApproved && approved {
				result = &TransitionResult{Activity: activity, AlreadyApplied: true}
				return nil
			}
			return &ValidationError{Field: "activity_id", Message: "activity is not awaiting verification"}
		}

		if approved {
			activity.AdminVerificationStatus = models.VerificationApproved
		} else {
			activity.AdminVerificationStatus = models.VerificationRejected
			activity.Reason = reason
		}
		if err := s.activityRepo.SaveActivity(tx, activity); err != nil {
			return ErrRemoteUnavailable
		}
		result = &TransitionResult{Activity: activity}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyApplied {
		activity := result.Activity
		body := "Your purchase of " + activity.Property.Title + " passed verification. You can now request the title deed."
		if !approved {
			body = "Your purchase of " + activity.Property.Title + " did not pass verification. Please contact support."
			if reason != nil && *reason != "" {
				body += " Reason: " + *reason
			}
		}
		s.notifier.Notify(ctx, activity.ClientID, NotificationInput{
			Type:     models.VerificationReviewedNotification,
			Title:    "Verification reviewed",
			Message:  body,
			Priority: models.HighPriority,
			Data:     activityData(activity),
		})
		s.progress.InvalidateProgress(ctx, activity.PropertyID, activity.ClientID)
	}
	return result, nil
}

// RequestTitleDeed is invoked by the client after verification approval.
func (s *TransitionService) RequestTitleDeed(ctx context.Context, actorID, activityID uuid.UUID) (*TransitionResult, error) {
	var result *TransitionResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		activity, err := s.loadSaleActivity(tx, activityID)
		if err != nil {
			return err
		}
		if activity.ClientID != actorID {
			return ErrUnauthorizedTransition
		}
		if activity.AdminVerificationStatus != models.VerificationApproved {
			return &ValidationError{Field: "activity_id", Message: "verification must be approved before requesting the title deed"}
		}

		if activity.TitleDeedStatus != models.TitleDeedNone {
			result = &TransitionResult{Activity: activity, AlreadyApplied: true}
			return nil
		}

		activity.TitleDeedStatus = models.TitleDeedRequested
		if err := s.activityRepo.SaveActivity(tx, activity); err != nil {
			return ErrRemoteUnavailable
		}
		result = &TransitionResult{Activity: activity}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyApplied {
		activity := result.Activity
		s.notifier.Notify(ctx, activity.Property.OwnerID, NotificationInput{
			Type:     models.TitleDeedNotification,
			Title:    "Title deed requested",
			Message:  activity.Client.FullName() + " requested the title deed for " + activity.Property.Title,
			Priority: models.HighPriority,
			Data:     activityData(activity),
		})
	}
	return result, nil
}

// DeliverTitleDeed is the final admin step of a sale; it completes the
// transaction.
func (s *TransitionService) DeliverTitleDeed(ctx context.Context, actorRole models.UserRole, activityID uuid.UUID) (*TransitionResult, error) {
	if actorRole != models.AdminRole {
		return nil, ErrUnauthorizedTransition
	}

	var result *TransitionResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		activity, err := s.loadSaleActivity(tx, activityID)
		if err != nil {
			return err
		}
		if activity.TitleDeedStatus == models.TitleDeedDelivered {
			result = &TransitionResult{Activity: activity, AlreadyApplied: true}
			return nil
		}
		if activity.TitleDeedStatus != models.TitleDeedRequested {
			return &ValidationError{Field: "activity_id", Message: "title deed has not been requested"}
		}
		if err := CheckTransition(activity.Kind, activity.Status, models.CompletedActivity); err != nil {
			return err
		}

		activity.TitleDeedStatus = models.TitleDeedDelivered
		activity.Status = models.CompletedActivity
		if err := s.activityRepo.SaveActivity(tx, activity); err != nil {
			return ErrRemoteUnavailable
		}
		result = &TransitionResult{Activity: activity}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyApplied {
		activity := result.Activity
		s.notifier.Notify(ctx, activity.ClientID, NotificationInput{
			Type:     models.TitleDeedNotification,
			Title:    "Title deed delivered",
			Message:  "The title deed for " + activity.Property.Title + " has been delivered. The transaction is complete.",
			Priority: models.HighPriority,
			Data:     activityData(activity),
		})
		s.progress.InvalidateProgress(ctx, activity.PropertyID, activity.ClientID)
	}
	return result, nil
}

func (s *TransitionService) loadSaleActivity(tx *gorm.DB, activityID uuid.UUID) (*models.Activity, error) {
	activity, err := s.activityRepo.GetActivityTx(tx, activityID)
	if err != nil {
		return nil, ErrRemoteUnavailable
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}
	if activity.Property.ActionType != models.SaleActionType {
		return nil, &ValidationError{Field: "activity_id", Message: "administrative verification applies to sale transactions only"}
	}
	return activity, nil
}
