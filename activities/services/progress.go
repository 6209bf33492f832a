package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"property-marketplace-backend/activities/repositories"
	"property-marketplace-backend/config"
	"property-marketplace-backend/db/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Step statuses as the UI consumes them.
type StepStatus string

const (
	StepNone      StepStatus = "none"
	StepPending   StepStatus = "pending"
	StepAccepted  StepStatus = "accepted"
	StepRejected  StepStatus = "rejected"
	StepCompleted StepStatus = "completed"
)

type ProgressStep string

const (
	VisitStep       ProgressStep = "visit"
	ReservationStep ProgressStep = "reservation"
	PaymentStep     ProgressStep = "payment"
	CompletedStep   ProgressStep = "completed"
)

// ActivityProgress is the cached snapshot of a user's furthest step for a
// property. Never the source of truth; re-derivable identically from a cold
// cache.
type ActivityProgress struct {
	PropertyID        uuid.UUID    `json:"property_id"`
	UserID            uuid.UUID    `json:"user_id"`
	VisitStatus       StepStatus   `json:"visit_status"`
	ReservationStatus StepStatus   `json:"reservation_status"`
	PaymentStatus     StepStatus   `json:"payment_status"`
	CurrentStep       ProgressStep `json:"current_step"`
	ComputedAt        time.Time    `json:"computed_at"`
}

// ComputeCurrentStep is the single place that encodes step precedence. Pure
// function of the three statuses; every caller goes through here.
func ComputeCurrentStep(visit, reservation, payment StepStatus) ProgressStep {
	if visit != StepAccepted {
		return VisitStep
	}
	if reservation != StepAccepted {
		return ReservationStep
	}
	if payment != StepCompleted {
		return PaymentStep
	}
	return CompletedStep
}

const progressCacheResource = "activity_progress"
const progressCacheTTL = 10 * time.Minute

// ProgressService derives ActivityProgress from the latest per-kind
// activities and caches it in Redis under an explicit invalidation hook.
type ProgressService struct {
	activityRepo repositories.ActivityRepository
	redisClient  *redis.Client
}

func NewProgressService(activityRepo repositories.ActivityRepository, redisClient *redis.Client) *ProgressService {
	return &ProgressService{activityRepo: activityRepo, redisClient: redisClient}
}

func progressCacheKey(propertyID, userID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s", progressCacheResource, propertyID, userID)
}

// GetActivityProgress returns the cached snapshot when present, otherwise
// recomputes from the store and caches the result. Cache failures degrade to
// a recompute, never to an error.
func (s *ProgressService) GetActivityProgress(ctx context.Context, propertyID, userID uuid.UUID) (*ActivityProgress, error) {
	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, progressCacheKey(propertyID, userID)).Result()
		if err == nil {
			var progress ActivityProgress
			if jsonErr := json.Unmarshal([]byte(cached), &progress); jsonErr == nil {
				return &progress, nil
			}
		} else if err != redis.Nil {
			config.Logger.Warn("Progress cache read failed, recomputing",
				zap.String("propertyID", propertyID.String()),
				zap.Error(err),
			)
		}
	}

	progress, err := s.computeProgress(propertyID, userID)
	if err != nil {
		return nil, err
	}

	if s.redisClient != nil {
		payload, _ := json.Marshal(progress)
		if err := s.redisClient.Set(ctx, progressCacheKey(propertyID, userID), payload, progressCacheTTL).Err(); err != nil {
			config.Logger.Warn("Progress cache write failed", zap.Error(err))
		}
	}

	return progress, nil
}

// InvalidateProgress drops the cached snapshot for the pair. Called after
// every successful state transition, as the last step of the side-effect
// ordering.
func (s *ProgressService) InvalidateProgress(ctx context.Context, propertyID, userID uuid.UUID) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.Del(ctx, progressCacheKey(propertyID, userID)).Err(); err != nil {
		config.Logger.Warn("Progress cache invalidation failed",
			zap.String("propertyID", propertyID.String()),
			zap.String("userID", userID.String()),
			zap.Error(err),
		)
	}
}

func (s *ProgressService) computeProgress(propertyID, userID uuid.UUID) (*ActivityProgress, error) {
	visit, err := s.activityRepo.GetLatestActivity(propertyID, userID, models.VisitActivity)
	if err != nil {
		return nil, ErrRemoteUnavailable
	}

	reservation, err := s.activityRepo.GetLatestActivity(propertyID, userID, models.ReservationActivity)
	if err != nil {
		return nil, ErrRemoteUnavailable
	}
	if reservation == nil {
		// Sale interests start as INQUIRY and count toward the same step.
		reservation, err = s.activityRepo.GetLatestActivity(propertyID, userID, models.InquiryActivity)
		if err != nil {
			return nil, ErrRemoteUnavailable
		}
	}

	visitStatus := stepStatusFromActivity(visit)
	reservationStatus := stepStatusFromActivity(reservation)
	paymentStatus := paymentStatusFromActivity(reservation)

	progress := &ActivityProgress{
		PropertyID:        propertyID,
		UserID:            userID,
		VisitStatus:       visitStatus,
		ReservationStatus: reservationStatus,
		PaymentStatus:     paymentStatus,
		CurrentStep:       ComputeCurrentStep(visitStatus, reservationStatus, paymentStatus),
		ComputedAt:        time.Now().UTC(),
	}
	return progress, nil
}

func stepStatusFromActivity(a *models.Activity) StepStatus {
	if a == nil {
		return StepNone
	}
	switch a.Status {
	case models.PendingActivity:
		return StepPending
	case models.AcceptedActivity, models.PaymentRequiredActivity, models.PaidActivity, models.CompletedActivity:
		return StepAccepted
	case models.RefusedActivity:
		return StepRejected
	default:
		return StepNone
	}
}

func paymentStatusFromActivity(reservation *models.Activity) StepStatus {
	if reservation == nil {
		return StepNone
	}
	if reservation.IsPayment {
		return StepCompleted
	}
	if reservation.Status == models.PaymentRequiredActivity {
		return StepPending
	}
	return StepNone
}
