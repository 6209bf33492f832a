package services

import (
	"property-marketplace-backend/db/models"
)

// transitionKey scopes legal transitions by kind: visits and reservations run
// different sub-machines over the shared status set.
type transitionKey struct {
	kind models.ActivityKind
	from models.ActivityStatus
	to   models.ActivityStatus
}

// legalTransitions is the full transition table. Visits stop at
// ACCEPTED/REFUSED; completion of a visit is implied by the client moving on
// to a reservation. Reservations run through the document, payment and (for
// sales) admin gates. INQUIRY records share the reservation machine.
var legalTransitions = map[transitionKey]bool{
	// Visit sub-machine
	{models.VisitActivity, models.PendingActivity, models.AcceptedActivity}: true,
	{models.VisitActivity, models.PendingActivity, models.RefusedActivity}:  true,
	{models.VisitActivity, models.PendingActivity, models.CancelledActivity}: true,
	{models.VisitActivity, models.PendingActivity, models.ExpiredActivity}:   true,

	// Reservation sub-machine (shared by rent and sale up through PAID)
	{models.ReservationActivity, models.PendingActivity, models.AcceptedActivity}:          true,
	{models.ReservationActivity, models.PendingActivity, models.RefusedActivity}:           true,
	{models.ReservationActivity, models.PendingActivity, models.CancelledActivity}:         true,
	{models.ReservationActivity, models.PendingActivity, models.ExpiredActivity}:           true,
	{models.ReservationActivity, models.AcceptedActivity, models.PaymentRequiredActivity}:  true,
	{models.ReservationActivity, models.PaymentRequiredActivity, models.PaidActivity}:      true,
	{models.ReservationActivity, models.PaidActivity, models.CompletedActivity}:            true,

	// Inquiry (expression of interest) follows the reservation machine
	{models.InquiryActivity, models.PendingActivity, models.AcceptedActivity}:         true,
	{models.InquiryActivity, models.PendingActivity, models.RefusedActivity}:          true,
	{models.InquiryActivity, models.PendingActivity, models.CancelledActivity}:        true,
	{models.InquiryActivity, models.PendingActivity, models.ExpiredActivity}:          true,
	{models.InquiryActivity, models.AcceptedActivity, models.PaymentRequiredActivity}: true,
	{models.InquiryActivity, models.PaymentRequiredActivity, models.PaidActivity}:     true,
	{models.InquiryActivity, models.PaidActivity, models.CompletedActivity}:           true,
}

// CanTransition reports whether the move is legal for the given kind.
func CanTransition(kind models.ActivityKind, from, to models.ActivityStatus) bool {
	return legalTransitions[transitionKey{kind, from, to}]
}

// CheckTransition returns a typed error naming current vs requested status
// when the move is illegal. A self-transition is reported separately by the
// callers, which treat it as an idempotent no-op.
func CheckTransition(kind models.ActivityKind, from, to models.ActivityStatus) error {
	if CanTransition(kind, from, to) {
		return nil
	}
	return &InvalidTransitionError{Kind: kind, Current: from, Requested: to}
}

// activeStatuses are the non-terminal statuses the duplicate guard considers
// "in flight" for a (property, client, kind) triple.
var activeStatuses = []models.ActivityStatus{
	models.PendingActivity,
	models.AcceptedActivity,
	models.PaymentRequiredActivity,
	models.PaidActivity,
}
