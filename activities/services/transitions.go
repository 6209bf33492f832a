package services

import (
	"context"
	"time"

	"property-marketplace-backend/activities/repositories"
	"property-marketplace-backend/config"
	"property-marketplace-backend/db/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NotificationInput is the payload handed to the dispatcher. Delivery is
// best-effort from the engine's perspective.
type NotificationInput struct {
	Type     models.NotificationType
	Title    string
	Message  string
	Priority models.NotificationPriority
	Data     map[string]interface{}
}

// Notifier delivers a notification to a user. Implementations log failures
// and never propagate them to the transition.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, input NotificationInput)
}

// Messenger posts into the conversation thread for a (property, client)
// pair, creating the conversation when needed.
type Messenger interface {
	PostSystemMessage(ctx context.Context, propertyID, clientID, senderID uuid.UUID, content string) error
}

// PropertyDirectory resolves property metadata, in particular the registered
// owner against whom transition permissions are checked.
type PropertyDirectory interface {
	GetPropertyDetails(id uuid.UUID) (*models.Property, error)
}

// TransitionResult reports the record after a transition. AlreadyApplied is
// set when the request was an idempotent re-invocation; no side effects were
// scheduled in that case.
type TransitionResult struct {
	Activity       *models.Activity `json:"activity"`
	AlreadyApplied bool             `json:"already_applied"`
}

// TransitionService is the transaction state machine. Every mutation runs as
// (1) commit the store transition, (2) compose and dispatch the narrative and
// notification, (3) invalidate the progress cache. A step-2 failure never
// rolls back step 1.
type TransitionService struct {
	db           *gorm.DB
	activityRepo repositories.ActivityRepository
	guard        *GuardService
	progress     *ProgressService
	directory    PropertyDirectory
	notifier     Notifier
	messenger    Messenger
}

func NewTransitionService(
	db *gorm.DB,
	activityRepo repositories.ActivityRepository,
	guard *GuardService,
	progress *ProgressService,
	directory PropertyDirectory,
	notifier Notifier,
	messenger Messenger,
) *TransitionService {
	return &TransitionService{
		db:           db,
		activityRepo: activityRepo,
		guard:        guard,
		progress:     progress,
		directory:    directory,
		notifier:     notifier,
		messenger:    messenger,
	}
}

type CreateVisitInput struct {
	PropertyID       uuid.UUID        `json:"property_id"`
	VisitDate        time.Time        `json:"visit_date"`
	VisitTime        string           `json:"visit_time"`
	VisitType        models.VisitType `json:"visit_type"`
	NumberOfVisitors int              `json:"number_of_visitors"`
}

// CreateVisitRequest creates a PENDING visit activity after the duplicate and
// slot-conflict guards pass, then notifies the owner and opens the
// conversation with the composed narrative.
func (s *TransitionService) CreateVisitRequest(ctx context.Context, clientID uuid.UUID, input CreateVisitInput) (*models.Activity, error) {
	if err := validateVisitInput(input); err != nil {
		return nil, err
	}

	property, client, err := s.resolveParties(input.PropertyID, clientID)
	if err != nil {
		return nil, err
	}

	if existing, err := s.guard.HasExistingActiveRequest(input.PropertyID, clientID, models.VisitActivity); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrDuplicateRequest
	}

	conflict, err := s.guard.CheckTimeSlotConflict(input.PropertyID, input.VisitDate)
	if err != nil {
		return nil, err
	}
	if conflict.HasConflict {
		return nil, &ValidationError{Field: "visit_date", Message: "another visit is already scheduled on this date"}
	}

	narrative := ComposeVisitRequestMessage(VisitRequestInput{
		Date:             input.VisitDate,
		Time:             input.VisitTime,
		VisitType:        input.VisitType,
		NumberOfVisitors: input.NumberOfVisitors,
	}, property.Title, client.FullName())

	activity := &models.Activity{
		PropertyID:       input.PropertyID,
		ClientID:         clientID,
		Kind:             models.VisitActivity,
		Status:           models.PendingActivity,
		VisitDate:        &input.VisitDate,
		VisitTime:        &input.VisitTime,
		VisitType:        &input.VisitType,
		NumberOfVisitors: &input.NumberOfVisitors,
		Message:          &narrative,
	}

	if err := s.activityRepo.CreateActivity(s.db, activity); err != nil {
		return nil, ErrRemoteUnavailable
	}

	s.afterCreation(ctx, activity, property, client, narrative, NotificationInput{
		Type:     models.VisitRequestedNotification,
		Title:    "New visit request",
		Message:  client.FullName() + " requested a visit of " + property.Title,
		Priority: models.NormalPriority,
		Data:     activityData(activity),
	})

	return activity, nil
}

type CreateReservationInput struct {
	PropertyID        uuid.UUID `json:"property_id"`
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
	NumberOfOccupants int       `json:"number_of_occupants"`
	HasGuarantor      bool      `json:"has_guarantor"`
	MonthlyIncome     *decimal.Decimal `json:"monthly_income"`
}

// CreateReservationRequest creates a PENDING rental reservation.
func (s *TransitionService) CreateReservationRequest(ctx context.Context, clientID uuid.UUID, input CreateReservationInput) (*models.Activity, error) {
	if err := validateReservationInput(input); err != nil {
		return nil, err
	}

	property, client, err := s.resolveParties(input.PropertyID, clientID)
	if err != nil {
		return nil, err
	}
	if property.ActionType != models.RentActionType {
		return nil, &ValidationError{Field: "property_id", Message: "property is not listed for rent"}
	}

	if existing, err := s.guard.HasExistingActiveRequest(input.PropertyID, clientID, models.ReservationActivity); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrDuplicateRequest
	}

	narrative := ComposeRentalRequestMessage(RentalRequestInput{
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
		NumberOfOccupants: input.NumberOfOccupants,
		MonthlyIncome:     input.MonthlyIncome,
		HasGuarantor:      input.HasGuarantor,
	}, property.Title, client.FullName())

	activity := &models.Activity{
		PropertyID:        input.PropertyID,
		ClientID:          clientID,
		Kind:              models.ReservationActivity,
		Status:            models.PendingActivity,
		StartDate:         &input.StartDate,
		EndDate:           &input.EndDate,
		NumberOfOccupants: &input.NumberOfOccupants,
		HasGuarantor:      &input.HasGuarantor,
		MonthlyIncome:     input.MonthlyIncome,
		Message:           &narrative,
	}

	if err := s.activityRepo.CreateActivity(s.db, activity); err != nil {
		return nil, ErrRemoteUnavailable
	}

	s.afterCreation(ctx, activity, property, client, narrative, NotificationInput{
		Type:     models.ReservationRequestedNotification,
		Title:    "New reservation request",
		Message:  client.FullName() + " wants to reserve " + property.Title,
		Priority: models.HighPriority,
		Data:     activityData(activity),
	})

	return activity, nil
}

type CreateInterestInput struct {
	PropertyID    uuid.UUID `json:"property_id"`
	Budget        *decimal.Decimal `json:"budget"`
	FinancingType string    `json:"financing_type"`
	Timeframe     string    `json:"timeframe"`
}

// CreateInterestRequest creates a PENDING purchase-interest activity for a
// sale listing. Stored as INQUIRY kind; the downstream document, payment and
// verification gates run it through the same machine as a reservation.
func (s *TransitionService) CreateInterestRequest(ctx context.Context, clientID uuid.UUID, input CreateInterestInput) (*models.Activity, error) {
	if err := validateInterestInput(input); err != nil {
		return nil, err
	}

	property, client, err := s.resolveParties(input.PropertyID, clientID)
	if err != nil {
		return nil, err
	}
	if property.ActionType != models.SaleActionType {
		return nil, &ValidationError{Field: "property_id", Message: "property is not listed for sale"}
	}

	if existing, err := s.guard.HasExistingActiveRequest(input.PropertyID, clientID, models.InquiryActivity); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrDuplicateRequest
	}

	narrative := ComposeSaleInterestMessage(SaleInterestInput{
		Budget:        *input.Budget,
		FinancingType: input.FinancingType,
		Timeframe:     input.Timeframe,
	}, property.Title, client.FullName())

	activity := &models.Activity{
		PropertyID:    input.PropertyID,
		ClientID:      clientID,
		Kind:          models.InquiryActivity,
		Status:        models.PendingActivity,
		Budget:        input.Budget,
		FinancingType: &input.FinancingType,
		Timeframe:     &input.Timeframe,
		Message:       &narrative,
	}

	if err := s.activityRepo.CreateActivity(s.db, activity); err != nil {
		return nil, ErrRemoteUnavailable
	}

	s.afterCreation(ctx, activity, property, client, narrative, NotificationInput{
		Type:     models.ReservationRequestedNotification,
		Title:    "New purchase interest",
		Message:  client.FullName() + " is interested in buying " + property.Title,
		Priority: models.HighPriority,
		Data:     activityData(activity),
	})

	return activity, nil
}

// AcceptActivity moves a PENDING record to ACCEPTED. Owner-only. Re-accepting
// an already-accepted record is an idempotent success with no side effects:
// retried network calls are expected and must not duplicate notifications.
func (s *TransitionService) AcceptActivity(ctx context.Context, actorID, activityID uuid.UUID) (*TransitionResult, error) {
	var result *TransitionResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		activity, err := s.activityRepo.GetActivityTx(tx, activityID)
		if err != nil {
			return ErrRemoteUnavailable
		}
		if activity == nil {
			return ErrActivityNotFound
		}
		if activity.Property.OwnerID != actorID {
			return ErrUnauthorizedTransition
		}

		if activity.Status == models.AcceptedActivity {
			result = &TransitionResult{Activity: activity, AlreadyApplied: true}
			return nil
		}
		if err := CheckTransition(activity.Kind, activity.Status, models.AcceptedActivity); err != nil {
			return err
		}

		now := time.Now()
		activity.Status = models.AcceptedActivity
		activity.AcceptedDate = &now
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
		notifType := models.VisitAcceptedNotification
		title := "Visit accepted"
		body := "Your visit of " + activity.Property.Title + " was accepted."
		if activity.Kind != models.VisitActivity {
			notifType = models.ReservationAcceptedNotification
			title = "Request accepted"
			body = "Your request for " + activity.Property.Title + " was accepted. You can now submit your documents."
		}
		s.notifier.Notify(ctx, activity.ClientID, NotificationInput{
			Type:     notifType,
			Title:    title,
			Message:  body,
			Priority: models.HighPriority,
			Data:     activityData(activity),
		})
		s.postThreadUpdate(ctx, activity, actorID, body)
		s.progress.InvalidateProgress(ctx, activity.PropertyID, activity.ClientID)
	}

	return result, nil
}

// RefuseActivity moves a PENDING record to REFUSED with an optional reason,
// surfaced verbatim to the client. The record is kept, never deleted.
func (s *TransitionService) RefuseActivity(ctx context.Context, actorID, activityID uuid.UUID, reason *string) (*TransitionResult, error) {
	var result *TransitionResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		activity, err := s.activityRepo.GetActivityTx(tx, activityID)
		if err != nil {
			return ErrRemoteUnavailable
		}
		if activity == nil {
			return ErrActivityNotFound
		}
		if activity.Property.OwnerID != actorID {
			return ErrUnauthorizedTransition
		}

		if activity.Status == models.RefusedActivity {
			result = &TransitionResult{Activity: activity, AlreadyApplied: true}
			return nil
		}
		if err := CheckTransition(activity.Kind, activity.Status, models.RefusedActivity); err != nil {
			return err
		}

		now := time.Now()
		activity.Status = models.RefusedActivity
		activity.RefusDate = &now
		activity.Reason = reason
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
		notifType := models.VisitRefusedNotification
		body := "Your visit of " + activity.Property.Title + " was declined."
		if activity.Kind != models.VisitActivity {
			notifType = models.ReservationRefusedNotification
			body = "Your request for " + activity.Property.Title + " was declined."
		}
		if reason != nil && *reason != "" {
			body += " Reason: " + *reason
		}
		s.notifier.Notify(ctx, activity.ClientID, NotificationInput{
			Type:     notifType,
			Title:    "Request declined",
			Message:  body,
			Priority: models.NormalPriority,
			Data:     activityData(activity),
		})
		s.postThreadUpdate(ctx, activity, actorID, body)
		s.progress.InvalidateProgress(ctx, activity.PropertyID, activity.ClientID)
	}

	return result, nil
}

// CancelActivity lets the requesting client withdraw a PENDING request.
func (s *TransitionService) CancelActivity(ctx context.Context, actorID, activityID uuid.UUID) (*TransitionResult, error) {
	var result *TransitionResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		activity, err := s.activityRepo.GetActivityTx(tx, activityID)
		if err != nil {
			return ErrRemoteUnavailable
		}
		if activity == nil {
			return ErrActivityNotFound
		}
		if activity.ClientID != actorID {
			return ErrUnauthorizedTransition
		}

		if activity.Status == models.CancelledActivity {
			result = &TransitionResult{Activity: activity, AlreadyApplied: true}
			return nil
		}
		if err := CheckTransition(activity.Kind, activity.Status, models.CancelledActivity); err != nil {
			return err
		}

		activity.Status = models.CancelledActivity
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
			Type:     models.RequestCancelledNotification,
			Title:    "Request withdrawn",
			Message:  activity.Client.FullName() + " withdrew their request for " + activity.Property.Title,
			Priority: models.LowPriority,
			Data:     activityData(activity),
		})
		s.progress.InvalidateProgress(ctx, activity.PropertyID, activity.ClientID)
	}

	return result, nil
}

// resolveParties loads the property (with owner) and the requesting client.
func (s *TransitionService) resolveParties(propertyID, clientID uuid.UUID) (*models.Property, *models.User, error) {
	property, err := s.directory.GetPropertyDetails(propertyID)
	if err != nil {
		return nil, nil, err
	}
	if property.OwnerID == clientID {
		return nil, nil, &ValidationError{Field: "property_id", Message: "owners cannot request their own property"}
	}

	var client models.User
	if err := s.db.First(&client, "id = ?", clientID).Error; err != nil {
		return nil, nil, ErrRemoteUnavailable
	}
	return property, &client, nil
}

// afterCreation runs the post-commit side effects for a freshly created
// request: owner notification, conversation bootstrap with the narrative as
// first message, progress invalidation. All best-effort.
func (s *TransitionService) afterCreation(ctx context.Context, activity *models.Activity, property *models.Property, client *models.User, narrative string, notif NotificationInput) {
	s.notifier.Notify(ctx, property.OwnerID, notif)

	if err := s.messenger.PostSystemMessage(ctx, property.ID, client.ID, client.ID, narrative); err != nil {
		config.Logger.Warn("Failed to post request narrative to conversation",
			zap.String("activityID", activity.ID.String()),
			zap.Error(err),
		)
	}

	s.progress.InvalidateProgress(ctx, property.ID, client.ID)
}

// postThreadUpdate appends a status-change note to the pair's conversation.
func (s *TransitionService) postThreadUpdate(ctx context.Context, activity *models.Activity, senderID uuid.UUID, content string) {
	if err := s.messenger.PostSystemMessage(ctx, activity.PropertyID, activity.ClientID, senderID, content); err != nil {
		config.Logger.Warn("Failed to post status update to conversation",
			zap.String("activityID", activity.ID.String()),
			zap.Error(err),
		)
	}
}

func activityData(activity *models.Activity) map[string]interface{} {
	return map[string]interface{}{
		"activity_id": activity.ID.String(),
		"property_id": activity.PropertyID.String(),
		"kind":        string(activity.Kind),
		"status":      string(activity.Status),
	}
}
