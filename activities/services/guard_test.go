package services

import (
	"errors"
	"testing"
	"time"

	"property-marketplace-backend/activities/repositories"
	"property-marketplace-backend/db/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasExistingActiveRequest(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewActivityRepository(db)
	guard := NewGuardService(repo, ConflictPolicyOptimistic)

	owner := createUser(t, db, "Olivia", models.OwnerRole)
	client := createUser(t, db, "Noah", models.ClientRole)
	property := createProperty(t, db, owner, models.RentActionType)

	t.Run("no history", func(t *testing.T) {
		existing, err := guard.HasExistingActiveRequest(property.ID, client.ID, models.VisitActivity)
		require.NoError(t, err)
		assert.Nil(t, existing)
	})

	visit := &models.Activity{
		PropertyID: property.ID,
		ClientID:   client.ID,
		Kind:       models.VisitActivity,
		Status:     models.PendingActivity,
	}
	require.NoError(t, db.Create(visit).Error)

	t.Run("pending request is active", func(t *testing.T) {
		existing, err := guard.HasExistingActiveRequest(property.ID, client.ID, models.VisitActivity)
		require.NoError(t, err)
		require.NotNil(t, existing)
		assert.Equal(t, visit.ID, existing.ID)
	})

	t.Run("other kinds are not blocked", func(t *testing.T) {
		existing, err := guard.HasExistingActiveRequest(property.ID, client.ID, models.ReservationActivity)
		require.NoError(t, err)
		assert.Nil(t, existing)
	})

	require.NoError(t, db.Model(visit).Update("status", models.RefusedActivity).Error)

	t.Run("terminal request no longer counts", func(t *testing.T) {
		existing, err := guard.HasExistingActiveRequest(property.ID, client.ID, models.VisitActivity)
		require.NoError(t, err)
		assert.Nil(t, existing)
	})
}

func TestHasExistingActiveRequest_StoreFailure(t *testing.T) {
	guard := NewGuardService(&failingActivityRepo{err: errors.New("connection refused")}, ConflictPolicyOptimistic)

	_, err := guard.HasExistingActiveRequest(newUUID(t), newUUID(t), models.VisitActivity)
	// Duplicate checks guard a mutation: never fail open, regardless of policy.
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
}

func TestCheckTimeSlotConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewActivityRepository(db)
	guard := NewGuardService(repo, ConflictPolicyOptimistic)

	owner := createUser(t, db, "Olivia", models.OwnerRole)
	client := createUser(t, db, "Noah", models.ClientRole)
	property := createProperty(t, db, owner, models.RentActionType)

	visitDate := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)

	t.Run("free date", func(t *testing.T) {
		conflict, err := guard.CheckTimeSlotConflict(property.ID, visitDate)
		require.NoError(t, err)
		assert.False(t, conflict.HasConflict)
	})

	visitTime := "10:00"
	visit := &models.Activity{
		PropertyID: property.ID,
		ClientID:   client.ID,
		Kind:       models.VisitActivity,
		Status:     models.PendingActivity,
		VisitDate:  &visitDate,
		VisitTime:  &visitTime,
	}
	require.NoError(t, db.Create(visit).Error)

	t.Run("pending visit occupies the date", func(t *testing.T) {
		conflict, err := guard.CheckTimeSlotConflict(property.ID, visitDate)
		require.NoError(t, err)
		assert.True(t, conflict.HasConflict)

		// Granularity is the calendar date, not date+time.
		conflict, err = guard.CheckTimeSlotConflict(property.ID, visitDate.Add(5*time.Hour))
		require.NoError(t, err)
		assert.True(t, conflict.HasConflict)
	})

	t.Run("other dates stay free", func(t *testing.T) {
		conflict, err := guard.CheckTimeSlotConflict(property.ID, visitDate.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.False(t, conflict.HasConflict)
	})

	require.NoError(t, db.Model(visit).Update("status", models.RefusedActivity).Error)

	t.Run("terminal visit frees the date", func(t *testing.T) {
		conflict, err := guard.CheckTimeSlotConflict(property.ID, visitDate)
		require.NoError(t, err)
		assert.False(t, conflict.HasConflict)
	})
}

func TestCheckTimeSlotConflict_StoreFailure(t *testing.T) {
	storeErr := errors.New("connection refused")

	t.Run("optimistic fails open", func(t *testing.T) {
		guard := NewGuardService(&failingActivityRepo{err: storeErr}, ConflictPolicyOptimistic)

		conflict, err := guard.CheckTimeSlotConflict(newUUID(t), time.Now())
		require.NoError(t, err)
		assert.False(t, conflict.HasConflict)
	})

	t.Run("strict propagates", func(t *testing.T) {
		guard := NewGuardService(&failingActivityRepo{err: storeErr}, ConflictPolicyStrict)

		_, err := guard.CheckTimeSlotConflict(newUUID(t), time.Now())
		assert.ErrorIs(t, err, ErrRemoteUnavailable)
	})
}

func TestListAvailableSlots(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewActivityRepository(db)
	guard := NewGuardService(repo, ConflictPolicyOptimistic)

	owner := createUser(t, db, "Olivia", models.OwnerRole)
	client := createUser(t, db, "Noah", models.ClientRole)
	property := createProperty(t, db, owner, models.RentActionType)

	visitDate := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)

	t.Run("all standard hours when nothing is booked", func(t *testing.T) {
		assert.Equal(t, StandardVisitHours, guard.ListAvailableSlots(property.ID, visitDate))
	})

	visitTime := "10:00"
	require.NoError(t, db.Create(&models.Activity{
		PropertyID: property.ID,
		ClientID:   client.ID,
		Kind:       models.VisitActivity,
		Status:     models.AcceptedActivity,
		VisitDate:  &visitDate,
		VisitTime:  &visitTime,
	}).Error)

	t.Run("booked hour is excluded", func(t *testing.T) {
		slots := guard.ListAvailableSlots(property.ID, visitDate)
		assert.NotContains(t, slots, "10:00")
		assert.Contains(t, slots, "09:00")
		assert.Len(t, slots, len(StandardVisitHours)-1)
	})

	t.Run("store failure returns the fallback list", func(t *testing.T) {
		failing := NewGuardService(&failingActivityRepo{err: errors.New("connection refused")}, ConflictPolicyOptimistic)
		assert.Equal(t, StandardVisitHours, failing.ListAvailableSlots(property.ID, visitDate))
	})
}
