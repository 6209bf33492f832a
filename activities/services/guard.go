package services

import (
	"time"

	"property-marketplace-backend/activities/repositories"
	"property-marketplace-backend/config"
	"property-marketplace-backend/db/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConflictCheckPolicy names what a read-only guard does when the store query
// fails. The optimistic policy assumes no conflict so a transient outage
// never blocks users; the remote mutation remains the final arbiter either
// way. Mutating transitions never fail open.
type ConflictCheckPolicy string

const (
	ConflictPolicyOptimistic ConflictCheckPolicy = "OPTIMISTIC"
	ConflictPolicyStrict     ConflictCheckPolicy = "STRICT"
)

// StandardVisitHours is the fallback slot list returned when the store
// cannot be queried.
var StandardVisitHours = []string{
	"09:00", "10:00", "11:00", "14:00", "15:00", "16:00", "17:00", "18:00",
}

type SlotConflict struct {
	HasConflict bool `json:"has_conflict"`
}

// GuardService runs the pre-creation duplicate and slot-conflict checks.
// Both checks are best-effort, not a hard guarantee: another device can win
// the race between check and create, and the store's own rejection is the
// authoritative outcome.
type GuardService struct {
	activityRepo repositories.ActivityRepository
	policy       ConflictCheckPolicy
}

func NewGuardService(activityRepo repositories.ActivityRepository, policy ConflictCheckPolicy) *GuardService {
	return &GuardService{activityRepo: activityRepo, policy: policy}
}

// HasExistingActiveRequest returns the existing non-terminal activity of the
// given kind for the pair, or nil. Duplicate checks guard a mutation, so
// query failures propagate instead of failing open.
func (g *GuardService) HasExistingActiveRequest(propertyID, clientID uuid.UUID, kind models.ActivityKind) (*models.Activity, error) {
	existing, err := g.activityRepo.GetActiveActivity(propertyID, clientID, kind)
	if err != nil {
		config.Logger.Error("Duplicate check query failed",
			zap.String("propertyID", propertyID.String()),
			zap.String("clientID", clientID.String()),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return nil, ErrRemoteUnavailable
	}
	return existing, nil
}

// CheckTimeSlotConflict reports whether another visit already occupies the
// property on that calendar date. Under the optimistic policy a failed query
// yields no conflict; the choice is deliberate and visible here rather than
// buried in a catch block.
func (g *GuardService) CheckTimeSlotConflict(propertyID uuid.UUID, date time.Time) (SlotConflict, error) {
	visits, err := g.activityRepo.GetVisitsOnDate(propertyID, date)
	if err != nil {
		if g.policy == ConflictPolicyOptimistic {
			config.Logger.Warn("Slot conflict query failed, failing open",
				zap.String("propertyID", propertyID.String()),
				zap.Time("date", date),
				zap.Error(err),
			)
			return SlotConflict{HasConflict: false}, nil
		}
		return SlotConflict{}, ErrRemoteUnavailable
	}
	return SlotConflict{HasConflict: len(visits) > 0}, nil
}

// ListAvailableSlots returns the standard hours not yet taken by a visit on
// that date. On query failure the full fallback list is returned.
func (g *GuardService) ListAvailableSlots(propertyID uuid.UUID, date time.Time) []string {
	visits, err := g.activityRepo.GetVisitsOnDate(propertyID, date)
	if err != nil {
		config.Logger.Warn("Slot listing query failed, returning standard hours",
			zap.String("propertyID", propertyID.String()),
			zap.Error(err),
		)
		return StandardVisitHours
	}

	taken := make(map[string]bool, len(visits))
	for _, v := range visits {
		if v.VisitTime != nil {
			taken[*v.VisitTime] = true
		}
	}

	available := make([]string, 0, len(StandardVisitHours))
	for _, hour := range StandardVisitHours {
		if !taken[hour] {
			available = append(available, hour)
		}
	}
	return available
}
