package services

import (
	"context"
	"testing"
	"time"

	"property-marketplace-backend/db/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func visitInput(propertyID uuid.UUID) CreateVisitInput {
	return CreateVisitInput{
		PropertyID:       propertyID,
		VisitDate:        time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		VisitTime:        "10:00",
		VisitType:        models.PhysicalVisit,
		NumberOfVisitors: 2,
	}
}

func reservationInput(propertyID uuid.UUID) CreateReservationInput {
	income := decimal.NewFromInt(2400)
	return CreateReservationInput{
		PropertyID:        propertyID,
		StartDate:         time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:           time.Date(2027, 10, 1, 0, 0, 0, 0, time.UTC),
		NumberOfOccupants: 2,
		HasGuarantor:      true,
		MonthlyIncome:     &income,
	}
}

func interestInput(propertyID uuid.UUID) CreateInterestInput {
	budget := decimal.NewFromInt(115000)
	return CreateInterestInput{
		PropertyID:    propertyID,
		Budget:        &budget,
		FinancingType: "mortgage",
		Timeframe:     "3 months",
	}
}

func TestCreateVisitRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		f := newEngineFixture(t)
		owner := createUser(t, f.db, "Olivia", models.OwnerRole)
		client := createUser(t, f.db, "Noah", models.ClientRole)
		property := createProperty(t, f.db, owner, models.RentActionType)

		activity, err := f.service.CreateVisitRequest(ctx, client.ID, visitInput(property.ID))
		require.NoError(t, err)

		assert.Equal(t, models.VisitActivity, activity.Kind)
		assert.Equal(t, models.PendingActivity, activity.Status)
		require.NotNil(t, activity.Message)
		assert.Contains(t, *activity.Message, property.Title)
		assert.Contains(t, *activity.Message, client.FullName())

		// Owner notified once, narrative posted to the thread once.
		ownerCalls := f.notifier.callsTo(owner.ID)
		require.Len(t, ownerCalls, 1)
		assert.Equal(t, models.VisitRequestedNotification, ownerCalls[0].Input.Type)
		assert.Equal(t, 1, f.messenger.postCount())
	})

	t.Run("duplicate active request is rejected", func(t *testing.T) {
		f := newEngineFixture(t)
		owner := createUser(t, f.db, "Olivia", models.OwnerRole)
		client := createUser(t, f.db, "Noah", models.ClientRole)
		property := createProperty(t, f.db, owner, models.RentActionType)

		_, err := f.service.CreateVisitRequest(ctx, client.ID, visitInput(property.ID))
		require.NoError(t, err)

		input := visitInput(property.ID)
		input.VisitDate = input.VisitDate.AddDate(0, 0, 1)
		_, err = f.service.CreateVisitRequest(ctx, client.ID, input)
		assert.ErrorIs(t, err, ErrDuplicateRequest)
	})

	t.Run("occupied date is rejected", func(t *testing.T) {
		f := newEngineFixture(t)
		owner := createUser(t, f.db, "Olivia", models.OwnerRole)
		first := createUser(t, f.db, "Noah", models.ClientRole)
		second := createUser(t, f.db, "Emma", models.ClientRole)
		property := createProperty(t, f.db, owner, models.RentActionType)

		_, err := f.service.CreateVisitRequest(ctx, first.ID, visitInput(property.ID))
		require.NoError(t, err)

		_, err = f.service.CreateVisitRequest(ctx, second.ID, visitInput(property.ID))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("owner cannot visit their own property", func(t *testing.T) {
		f := newEngineFixture(t)
		owner := createUser(t, f.db, "Olivia", models.OwnerRole)
		property := createProperty(t, f.db, owner, models.RentActionType)

		_, err := f.service.CreateVisitRequest(ctx, owner.ID, visitInput(property.ID))
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown property", func(t *testing.T) {
		f := newEngineFixture(t)
		client := createUser(t, f.db, "Noah", models.ClientRole)

		_, err := f.service.CreateVisitRequest(ctx, client.ID, visitInput(uuid.New()))
		assert.ErrorIs(t, err, ErrPropertyNotFound)
	})

	t.Run("input validation", func(t *testing.T) {
		f := newEngineFixture(t)
		owner := createUser(t, f.db, "Olivia", models.OwnerRole)
		client := createUser(t, f.db, "Noah", models.ClientRole)
		property := createProperty(t, f.db, owner, models.RentActionType)

		input := visitInput(property.ID)
		input.NumberOfVisitors = 0
		_, err := f.service.CreateVisitRequest(ctx, client.ID, input)
		assert.ErrorIs(t, err, ErrValidation)

		input = visitInput(property.ID)
		input.VisitType = "teleport"
		_, err = f.service.CreateVisitRequest(ctx, client.ID, input)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("thread post failure does not fail the request", func(t *testing.T) {
		f := newEngineFixture(t)
		f.messenger.failErr = assert.AnError
		owner := createUser(t, f.db, "Olivia", models.OwnerRole)
		client := createUser(t, f.db, "Noah", models.ClientRole)
		property := createProperty(t, f.db, owner, models.RentActionType)

		activity, err := f.service.CreateVisitRequest(ctx, client.ID, visitInput(property.ID))
		require.NoError(t, err)
		assert.Equal(t, models.PendingActivity, activity.Status)
	})
}

func TestCreateReservationRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		f := newEngineFixture(t)
		owner := createUser(t, f.db, "Olivia", models.OwnerRole)
		client := createUser(t, f.db, "Noah", models.ClientRole)
		property := createProperty(t, f.db, owner, models.RentActionType)

		activity, err := f.service.CreateReservationRequest(ctx, client.ID, reservationInput(property.ID))
		require.NoError(t, err)

		assert.Equal(t, models.ReservationActivity, activity.Kind)
		assert.Equal(t, models.PendingActivity, activity.Status)
		require.NotNil(t, activity.HasGuarantor)
		assert.True(t, *activity.HasGuarantor)

		ownerCalls := f.notifier.callsTo(owner.ID)
		require.Len(t, ownerCalls, 1)
		assert.Equal(t, models.ReservationRequestedNotification, ownerCalls[0].Input.Type)
		assert.Equal(t, models.HighPriority, ownerCalls[0].Input.Priority)
	})

	t.Run("sale listing cannot be reserved", func(t *testing.T) {
		f := newEngineFixture(t)
		owner := createUser(t, f.db, "Olivia", models.OwnerRole)
		client := createUser(t, f.db, "Noah", models.ClientRole)
		property := createProperty(t, f.db, owner, models.SaleActionType)

		_, err := f.service.CreateReservationRequest(ctx, client.ID, reservationInput(property.ID))
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("dates must be ordered", func(t *testing.T) {
		f := newEngineFixture(t)
		owner := createUser(t, f.db, "Olivia", models.OwnerRole)
		client := createUser(t, f.db, "Noah", models.ClientRole)
		property := createProperty(t, f.db, owner, models.RentActionType)

		input := reservationInput(property.ID)
		input.EndDate = input.StartDate
		_, err := f.service.CreateReservationRequest(ctx, client.ID, input)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("refused visit does not block a reservation", func(t *testing.T) {
		f := newEngineFixture(t)
		owner := createUser(t, f.db, "Olivia", models.OwnerRole)
		client := createUser(t, f.db, "Noah", models.ClientRole)
		property := createProperty(t, f.db, owner, models.RentActionType)

		visit, err := f.service.CreateVisitRequest(ctx, client.ID, visitInput(property.ID))
		require.NoError(t, err)
		_, err = f.service.RefuseActivity(ctx, owner.ID, visit.ID, nil)
		require.NoError(t, err)

		reservation, err := f.service.CreateReservationRequest(ctx, client.ID, reservationInput(property.ID))
		require.NoError(t, err)
		assert.Equal(t, models.PendingActivity, reservation.Status)
	})
}

func TestCreateInterestRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		f := newEngineFixture(t)
		owner := createUser(t, f.db, "Olivia", models.OwnerRole)
		client := createUser(t, f.db, "Noah", models.ClientRole)
		property := createProperty(t, f.db, owner, models.SaleActionType)

		activity, err := f.service.CreateInterestRequest(ctx, client.ID, interestInput(property.ID))
		require.NoError(t, err)

		assert.Equal(t, models.InquiryActivity, activity.Kind)
		assert.Equal(t, models.PendingActivity, activity.Status)
		require.NotNil(t, activity.Budget)
		assert.True(t, activity.Budget.Equal(decimal.NewFromInt(115000)))
	})

	t.Run("rental listing cannot receive purchase interest", func(t *testing.T) {
		f := newEngineFixture(t)
		owner := createUser(t, f.db, "Olivia", models.OwnerRole)
		client := createUser(t, f.db, "Noah", models.ClientRole)
		property := createProperty(t, f.db, owner, models.RentActionType)

		_, err := f.service.CreateInterestRequest(ctx, client.ID, interestInput(property.ID))
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("budget is required and positive", func(t *testing.T) {
		f := newEngineFixture(t)
		owner := createUser(t, f.db, "Olivia", models.OwnerRole)
		client := createUser(t, f.db, "Noah", models.ClientRole)
		property := createProperty(t, f.db, owner, models.SaleActionType)

		input := interestInput(property.ID)
		input.Budget = nil
		_, err := f.service.CreateInterestRequest(ctx, client.ID, input)
		assert.ErrorIs(t, err, ErrValidation)

		zero := decimal.Zero
		input.Budget = &zero
		_, err = f.service.CreateInterestRequest(ctx, client.ID, input)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("repeated interest hits the duplicate guard", func(t *testing.T) {
		f := newEngineFixture(t)
		owner := createUser(t, f.db, "Olivia", models.OwnerRole)
		client := createUser(t, f.db, "Noah", models.ClientRole)
		property := createProperty(t, f.db, owner, models.SaleActionType)

		_, err := f.service.CreateInterestRequest(ctx, client.ID, interestInput(property.ID))
		require.NoError(t, err)

		_, err = f.service.CreateInterestRequest(ctx, client.ID, interestInput(property.ID))
		assert.ErrorIs(t, err, ErrDuplicateRequest)
	})
}

func TestAcceptActivity(t *testing.T) {
	ctx := context.Background()

	t.Run("owner accepts a pending visit", func(t *testing.T) {
		f := newEngineFixture(t)
		owner := createUser(t, f.db, "Olivia", models.OwnerRole)
		client := createUser(t, f.db, "Noah", models.ClientRole)
		property := createProperty(t, f.db, owner, models.RentActionType)

		visit, err := f.service.CreateVisitRequest(ctx, client.ID, visitInput(property.ID))
		require.NoError(t, err)

		result, err := f.service.AcceptActivity(ctx, owner.ID, visit.ID)
		require.NoError(t, err)
		assert.False(t, result.AlreadyApplied)
		assert.Equal(t, models.AcceptedActivity, result.Activity.Status)
		assert.NotNil(t, result.Activity.AcceptedDate)

		clientCalls := f.notifier.callsTo(client.ID)
		require.Len(t, clientCalls, 1)
		assert.Equal(t, models.VisitAcceptedNotification, clientCalls[0].Input.Type)
	})

	t.Run("re-accept is idempotent without new side effects", func(t *testing.T) {
		f := newEngineFixture(t)
		owner := createUser(t, f.db, "Olivia", models.OwnerRole)
		client := createUser(t, f.db, "Noah", models.ClientRole)
		property := createProperty(t, f.db, owner, models.RentActionType)

		visit, err := f.service.CreateVisitRequest(ctx, client.ID, visitInput(property.ID))
		require.NoError(t, err)

		first, err := f.service.AcceptActivity(ctx, owner.ID, visit.ID)
		require.NoError(t, err)
		require.False(t, first.AlreadyApplied)
		notificationsAfterFirst := len(f.notifier.callsTo(client.ID))
		postsAfterFirst := f.messenger.postCount()

		second, err := f.service.AcceptActivity(ctx, owner.ID, visit.ID)
		require.NoError(t, err)
		assert.True(t, second.AlreadyApplied)
		assert.Equal(t, models.AcceptedActivity, second.Activity.Status)
		assert.Len(t, f.notifier.callsTo(client.ID), notificationsAfterFirst)
		assert.Equal(t, postsAfterFirst, f.messenger.postCount())
	})

	t.Run("only the owner may accept", func(t *testing.T) {
		f := newEngineFixture(t)
		owner := createUser(t, f.db, "Olivia", models.OwnerRole)
		client := createUser(t, f.db, "Noah", models.ClientRole)
		stranger := createUser(t, f.db, "Liam", models.OwnerRole)
		property := createProperty(t, f.db, owner, models.RentActionType)

		visit, err := f.service.CreateVisitRequest(ctx, client.ID, visitInput(property.ID))
		require.NoError(t, err)

		_, err = f.service.AcceptActivity(ctx, stranger.ID, visit.ID)
		assert.ErrorIs(t, err, ErrUnauthorizedTransition)

		_, err = f.service.AcceptActivity(ctx, client.ID, visit.ID)
		assert.ErrorIs(t, err, ErrUnauthorizedTransition)
	})

	t.Run("refused record cannot be accepted afterwards", func(t *testing.T) {
		f := newEngineFixture(t)
		owner := createUser(t, f.db, "Olivia", models.OwnerRole)
		client := createUser(t, f.db, "Noah", models.ClientRole)
		property := createProperty(t, f.db, owner, models.RentActionType)

		visit, err := f.service.CreateVisitRequest(ctx, client.ID, visitInput(property.ID))
		require.NoError(t, err)
		_, err = f.service.RefuseActivity(ctx, owner.ID, visit.ID, nil)
		require.NoError(t, err)

		_, err = f.service.AcceptActivity(ctx, owner.ID, visit.ID)
		assert.ErrorIs(t, err, ErrInvalidStateTransition)
	})

	t.Run("unknown activity", func(t *testing.T) {
		f := newEngineFixture(t)
		owner := createUser(t, f.db, "Olivia", models.OwnerRole)

		_, err := f.service.AcceptActivity(ctx, owner.ID, uuid.New())
		assert.ErrorIs(t, err, ErrActivityNotFound)
	})
}

func TestRefuseActivity(t *testing.T) {
	ctx := context.Background()

	t.Run("reason is surfaced verbatim", func(t *testing.T) {
		f := newEngineFixture(t)
		owner := createUser(t, f.db, "Olivia", models.OwnerRole)
		client := createUser(t, f.db, "Noah", models.ClientRole)
		property := createProperty(t, f.db, owner, models.RentActionType)

		visit, err := f.service.CreateVisitRequest(ctx, client.ID, visitInput(property.ID))
		require.NoError(t, err)

		reason := "the property is under renovation that week"
		result, err := f.service.RefuseActivity(ctx, owner.ID, visit.ID, &reason)
		require.NoError(t, err)
		assert.Equal(t, models.RefusedActivity, result.Activity.Status)
		require.NotNil(t, result.Activity.Reason)
		assert.Equal(t, reason, *result.Activity.Reason)
		assert.NotNil(t, result.Activity.RefusDate)

		clientCalls := f.notifier.callsTo(client.ID)
		require.Len(t, clientCalls, 1)
		assert.Contains(t, clientCalls[0].Input.Message, reason)
	})

	t.Run("record survives refusal", func(t *testing.T) {
		f := newEngineFixture(t)
		owner := createUser(t, f.db, "Olivia", models.OwnerRole)
		client := createUser(t, f.db, "Noah", models.ClientRole)
		property := createProperty(t, f.db, owner, models.RentActionType)

		visit, err := f.service.CreateVisitRequest(ctx, client.ID, visitInput(property.ID))
		require.NoError(t, err)
		_, err = f.service.RefuseActivity(ctx, owner.ID, visit.ID, nil)
		require.NoError(t, err)

		stored, err := f.activityRepo.GetActivityByID(visit.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, models.RefusedActivity, stored.Status)
	})

	t.Run("client cannot refuse", func(t *testing.T) {
		f := newEngineFixture(t)
		owner := createUser(t, f.db, "Olivia", models.OwnerRole)
		client := createUser(t, f.db, "Noah", models.ClientRole)
		property := createProperty(t, f.db, owner, models.RentActionType)

		visit, err := f.service.CreateVisitRequest(ctx, client.ID, visitInput(property.ID))
		require.NoError(t, err)

		_, err = f.service.RefuseActivity(ctx, client.ID, visit.ID, nil)
		assert.ErrorIs(t, err, ErrUnauthorizedTransition)
	})
}

func TestCancelActivity(t *testing.T) {
	ctx := context.Background()

	t.Run("client withdraws a pending request", func(t *testing.T) {
		f := newEngineFixture(t)
		owner := createUser(t, f.db, "Olivia", models.OwnerRole)
		client := createUser(t, f.db, "Noah", models.ClientRole)
		property := createProperty(t, f.db, owner, models.RentActionType)

		visit, err := f.service.CreateVisitRequest(ctx, client.ID, visitInput(property.ID))
		require.NoError(t, err)

		result, err := f.service.CancelActivity(ctx, client.ID, visit.ID)
		require.NoError(t, err)
		assert.Equal(t, models.CancelledActivity, result.Activity.Status)

		cancelled := f.notifier.callsOfType(models.RequestCancelledNotification)
		require.Len(t, cancelled, 1)
		assert.Equal(t, owner.ID, cancelled[0].UserID)
	})

	t.Run("owner cannot cancel on the client's behalf", func(t *testing.T) {
		f := newEngineFixture(t)
		owner := createUser(t, f.db, "Olivia", models.OwnerRole)
		client := createUser(t, f.db, "Noah", models.ClientRole)
		property := createProperty(t, f.db, owner, models.RentActionType)

		visit, err := f.service.CreateVisitRequest(ctx, client.ID, visitInput(property.ID))
		require.NoError(t, err)

		_, err = f.service.CancelActivity(ctx, owner.ID, visit.ID)
		assert.ErrorIs(t, err, ErrUnauthorizedTransition)
	})

	t.Run("re-cancel is idempotent", func(t *testing.T) {
		f := newEngineFixture(t)
		owner := createUser(t, f.db, "Olivia", models.OwnerRole)
		client := createUser(t, f.db, "Noah", models.ClientRole)
		property := createProperty(t, f.db, owner, models.RentActionType)

		visit, err := f.service.CreateVisitRequest(ctx, client.ID, visitInput(property.ID))
		require.NoError(t, err)

		_, err = f.service.CancelActivity(ctx, client.ID, visit.ID)
		require.NoError(t, err)
		result, err := f.service.CancelActivity(ctx, client.ID, visit.ID)
		require.NoError(t, err)
		assert.True(t, result.AlreadyApplied)
	})
}

func TestExpireStaleActivities(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)
	owner := createUser(t, f.db, "Olivia", models.OwnerRole)
	client := createUser(t, f.db, "Noah", models.ClientRole)
	other := createUser(t, f.db, "Emma", models.ClientRole)
	property := createProperty(t, f.db, owner, models.RentActionType)
	saleProperty := createProperty(t, f.db, owner, models.SaleActionType)

	pastDate := time.Now().Add(-48 * time.Hour)
	futureDate := time.Now().Add(72 * time.Hour)

	pastVisit := &models.Activity{
		PropertyID: property.ID,
		ClientID:   client.ID,
		Kind:       models.VisitActivity,
		Status:     models.PendingActivity,
		VisitDate:  &pastDate,
	}
	require.NoError(t, f.db.Create(pastVisit).Error)

	futureVisit := &models.Activity{
		PropertyID: saleProperty.ID,
		ClientID:   client.ID,
		Kind:       models.VisitActivity,
		Status:     models.PendingActivity,
		VisitDate:  &futureDate,
	}
	require.NoError(t, f.db.Create(futureVisit).Error)

	staleReservation := &models.Activity{
		PropertyID: property.ID,
		ClientID:   other.ID,
		Kind:       models.ReservationActivity,
		Status:     models.PendingActivity,
		CreatedAt:  time.Now().Add(-15 * 24 * time.Hour),
	}
	require.NoError(t, f.db.Create(staleReservation).Error)

	freshReservation := &models.Activity{
		PropertyID: saleProperty.ID,
		ClientID:   other.ID,
		Kind:       models.ReservationActivity,
		Status:     models.PendingActivity,
	}
	require.NoError(t, f.db.Create(freshReservation).Error)

	acceptedVisit := &models.Activity{
		PropertyID: property.ID,
		ClientID:   other.ID,
		Kind:       models.VisitActivity,
		Status:     models.AcceptedActivity,
		VisitDate:  &pastDate,
	}
	require.NoError(t, f.db.Create(acceptedVisit).Error)

	require.NoError(t, f.service.ExpireStaleActivities(ctx))

	statusOf := func(id uuid.UUID) models.ActivityStatus {
		var a models.Activity
		require.NoError(t, f.db.First(&a, "id = ?", id).Error)
		return a.Status
	}

	assert.Equal(t, models.ExpiredActivity, statusOf(pastVisit.ID))
	assert.Equal(t, models.PendingActivity, statusOf(futureVisit.ID))
	assert.Equal(t, models.ExpiredActivity, statusOf(staleReservation.ID))
	assert.Equal(t, models.PendingActivity, statusOf(freshReservation.ID))
	assert.Equal(t, models.AcceptedActivity, statusOf(acceptedVisit.ID))

	expired := f.notifier.callsOfType(models.RequestExpiredNotification)
	assert.Len(t, expired, 2)
}
