package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"property-marketplace-backend/activities/repositories"
	"property-marketplace-backend/db/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestComputeCurrentStep(t *testing.T) {
	cases := []struct {
		name        string
		visit       StepStatus
		reservation StepStatus
		payment     StepStatus
		want        ProgressStep
	}{
		{"nothing started", StepNone, StepNone, StepNone, VisitStep},
		{"visit pending", StepPending, StepNone, StepNone, VisitStep},
		{"visit rejected", StepRejected, StepNone, StepNone, VisitStep},
		{"visit accepted", StepAccepted, StepNone, StepNone, ReservationStep},
		{"reservation pending", StepAccepted, StepPending, StepNone, ReservationStep},
		{"reservation rejected", StepAccepted, StepRejected, StepNone, ReservationStep},
		{"reservation accepted", StepAccepted, StepAccepted, StepNone, PaymentStep},
		{"payment pending", StepAccepted, StepAccepted, StepPending, PaymentStep},
		{"everything done", StepAccepted, StepAccepted, StepCompleted, CompletedStep},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ComputeCurrentStep(tc.visit, tc.reservation, tc.payment))
		})
	}
}

func TestStepStatusFromActivity(t *testing.T) {
	assert.Equal(t, StepNone, stepStatusFromActivity(nil))

	cases := []struct {
		status models.ActivityStatus
		want   StepStatus
	}{
		{models.PendingActivity, StepPending},
		{models.AcceptedActivity, StepAccepted},
		{models.PaymentRequiredActivity, StepAccepted},
		{models.PaidActivity, StepAccepted},
		{models.CompletedActivity, StepAccepted},
		{models.RefusedActivity, StepRejected},
		{models.CancelledActivity, StepNone},
		{models.ExpiredActivity, StepNone},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			assert.Equal(t, tc.want, stepStatusFromActivity(&models.Activity{Status: tc.status}))
		})
	}
}

func newProgressFixture(t *testing.T) (*gorm.DB, *ProgressService, *models.Property, *models.User) {
	t.Helper()

	db := setupTestDB(t)
	repo := repositories.NewActivityRepository(db)
	progress := NewProgressService(repo, nil)

	owner := createUser(t, db, "Olivia", models.OwnerRole)
	client := createUser(t, db, "Noah", models.ClientRole)
	property := createProperty(t, db, owner, models.RentActionType)
	return db, progress, property, client
}

func TestGetActivityProgress(t *testing.T) {
	ctx := context.Background()

	t.Run("no history", func(t *testing.T) {
		_, progress, property, client := newProgressFixture(t)

		got, err := progress.GetActivityProgress(ctx, property.ID, client.ID)
		require.NoError(t, err)
		assert.Equal(t, StepNone, got.VisitStatus)
		assert.Equal(t, StepNone, got.ReservationStatus)
		assert.Equal(t, StepNone, got.PaymentStatus)
		assert.Equal(t, VisitStep, got.CurrentStep)
	})

	t.Run("accepted visit moves to the reservation step", func(t *testing.T) {
		db, progress, property, client := newProgressFixture(t)

		require.NoError(t, db.Create(&models.Activity{
			PropertyID: property.ID,
			ClientID:   client.ID,
			Kind:       models.VisitActivity,
			Status:     models.AcceptedActivity,
		}).Error)

		got, err := progress.GetActivityProgress(ctx, property.ID, client.ID)
		require.NoError(t, err)
		assert.Equal(t, StepAccepted, got.VisitStatus)
		assert.Equal(t, ReservationStep, got.CurrentStep)
	})

	t.Run("payment required reservation puts the user on the payment step", func(t *testing.T) {
		db, progress, property, client := newProgressFixture(t)

		require.NoError(t, db.Create(&models.Activity{
			PropertyID: property.ID,
			ClientID:   client.ID,
			Kind:       models.VisitActivity,
			Status:     models.AcceptedActivity,
		}).Error)
		require.NoError(t, db.Create(&models.Activity{
			PropertyID: property.ID,
			ClientID:   client.ID,
			Kind:       models.ReservationActivity,
			Status:     models.PaymentRequiredActivity,
		}).Error)

		got, err := progress.GetActivityProgress(ctx, property.ID, client.ID)
		require.NoError(t, err)
		assert.Equal(t, StepAccepted, got.ReservationStatus)
		assert.Equal(t, StepPending, got.PaymentStatus)
		assert.Equal(t, PaymentStep, got.CurrentStep)
	})

	t.Run("paid reservation completes the journey", func(t *testing.T) {
		db, progress, property, client := newProgressFixture(t)

		require.NoError(t, db.Create(&models.Activity{
			PropertyID: property.ID,
			ClientID:   client.ID,
			Kind:       models.VisitActivity,
			Status:     models.AcceptedActivity,
		}).Error)
		require.NoError(t, db.Create(&models.Activity{
			PropertyID: property.ID,
			ClientID:   client.ID,
			Kind:       models.ReservationActivity,
			Status:     models.CompletedActivity,
			IsPayment:  true,
		}).Error)

		got, err := progress.GetActivityProgress(ctx, property.ID, client.ID)
		require.NoError(t, err)
		assert.Equal(t, StepCompleted, got.PaymentStatus)
		assert.Equal(t, CompletedStep, got.CurrentStep)
	})

	t.Run("latest record per kind wins", func(t *testing.T) {
		db, progress, property, client := newProgressFixture(t)

		old := time.Now().Add(-48 * time.Hour)
		require.NoError(t, db.Create(&models.Activity{
			PropertyID: property.ID,
			ClientID:   client.ID,
			Kind:       models.VisitActivity,
			Status:     models.RefusedActivity,
			CreatedAt:  old,
		}).Error)
		require.NoError(t, db.Create(&models.Activity{
			PropertyID: property.ID,
			ClientID:   client.ID,
			Kind:       models.VisitActivity,
			Status:     models.AcceptedActivity,
		}).Error)

		got, err := progress.GetActivityProgress(ctx, property.ID, client.ID)
		require.NoError(t, err)
		assert.Equal(t, StepAccepted, got.VisitStatus)
		assert.Equal(t, ReservationStep, got.CurrentStep)
	})

	t.Run("sale interest records count as the reservation step", func(t *testing.T) {
		db, progress, property, client := newProgressFixture(t)

		require.NoError(t, db.Create(&models.Activity{
			PropertyID: property.ID,
			ClientID:   client.ID,
			Kind:       models.VisitActivity,
			Status:     models.AcceptedActivity,
		}).Error)
		require.NoError(t, db.Create(&models.Activity{
			PropertyID: property.ID,
			ClientID:   client.ID,
			Kind:       models.InquiryActivity,
			Status:     models.AcceptedActivity,
		}).Error)

		got, err := progress.GetActivityProgress(ctx, property.ID, client.ID)
		require.NoError(t, err)
		assert.Equal(t, StepAccepted, got.ReservationStatus)
		assert.Equal(t, PaymentStep, got.CurrentStep)
	})
}

func TestGetActivityProgress_StoreFailure(t *testing.T) {
	progress := NewProgressService(&failingActivityRepo{err: errors.New("connection refused")}, nil)

	_, err := progress.GetActivityProgress(context.Background(), newUUID(t), newUUID(t))
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
}
