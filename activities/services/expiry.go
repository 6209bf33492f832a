package services

import (
	"context"
	"time"

	"property-marketplace-backend/config"
	"property-marketplace-backend/db/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// pendingRequestTTL is how long a reservation request may sit unanswered
// before the sweep expires it. Visits expire once their date has passed.
const pendingRequestTTL = 14 * 24 * time.Hour

// StartExpirySweep schedules the nightly job that marks stale PENDING
// activities EXPIRED. Returns the cron so the caller owns its lifetime.
func (s *TransitionService) StartExpirySweep() *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc("15 2 * * *", func() {
		if err := s.ExpireStaleActivities(context.Background()); err != nil {
			config.Logger.Error("Expiry sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		config.Logger.Error("Failed to schedule expiry sweep", zap.Error(err))
		return c
	}
	c.Start()
	config.Logger.Info("Expiry sweep scheduled")
	return c
}

// ExpireStaleActivities expires PENDING visits whose date has passed and
// PENDING reservations older than the TTL. Each expiry notifies the client.
func (s *TransitionService) ExpireStaleActivities(ctx context.Context) error {
	now := time.Now()
	cutoff := now.Add(-pendingRequestTTL)

	stale, err := s.activityRepo.GetStalePendingActivities(cutoffFor(now, cutoff))
	if err != nil {
		return ErrRemoteUnavailable
	}

	for i := range stale {
		activity := &stale[i]

		// Reservations get the TTL, visits only need their date passed; the
		// query uses one cutoff, so re-check per kind here.
		if activity.Kind == models.VisitActivity {
			if activity.VisitDate == nil || activity.VisitDate.After(now) {
				continue
			}
		} else if activity.CreatedAt.After(cutoff) {
			continue
		}

		if err := CheckTransition(activity.Kind, activity.Status, models.ExpiredActivity); err != nil {
			continue
		}

		activity.Status = models.ExpiredActivity
		if err := s.activityRepo.SaveActivity(s.db, activity); err != nil {
			config.Logger.Error("Failed to expire activity",
				zap.String("activityID", activity.ID.String()),
				zap.Error(err),
			)
			continue
		}

		s.notifier.Notify(ctx, activity.ClientID, NotificationInput{
			Type:     models.RequestExpiredNotification,
			Title:    "Request expired",
			Message:  "Your request went unanswered and has expired. You can submit a new one.",
			Priority: models.LowPriority,
			Data:     activityData(activity),
		})
		s.progress.InvalidateProgress(ctx, activity.PropertyID, activity.ClientID)
	}

	return nil
}

// cutoffFor widens the sweep query to catch both visit and reservation
// staleness; per-record filtering happens in ExpireStaleActivities.
func cutoffFor(now, reservationCutoff time.Time) time.Time {
	if now.After(reservationCutoff) {
		return now
	}
	return reservationCutoff
}
