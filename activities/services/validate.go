package services

import (
	"property-marketplace-backend/db/models"

	"github.com/google/uuid"
)

func validateVisitInput(input CreateVisitInput) error {
	if input.PropertyID == uuid.Nil {
		return &ValidationError{Field: "property_id", Message: "property id is required"}
	}
	if input.VisitDate.IsZero() {
		return &ValidationError{Field: "visit_date", Message: "visit date is required"}
	}
	if input.VisitTime == "" {
		return &ValidationError{Field: "visit_time", Message: "visit time is required"}
	}
	switch input.VisitType {
	case models.PhysicalVisit, models.VirtualVisit, models.SelfGuidedVisit:
	default:
		return &ValidationError{Field: "visit_type", Message: "visit type must be physical, virtual or self_guided"}
	}
	if input.NumberOfVisitors < 1 {
		return &ValidationError{Field: "number_of_visitors", Message: "at least one visitor is required"}
	}
	return nil
}

func validateReservationInput(input CreateReservationInput) error {
	if input.PropertyID == uuid.Nil {
		return &ValidationError{Field: "property_id", Message: "property id is required"}
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return &ValidationError{Field: "start_date", Message: "start and end dates are required"}
	}
	if !input.EndDate.After(input.StartDate) {
		return &ValidationError{Field: "end_date", Message: "end date must be after start date"}
	}
	if input.NumberOfOccupants < 1 {
		return &ValidationError{Field: "number_of_occupants", Message: "at least one occupant is required"}
	}
	if input.MonthlyIncome != nil && input.MonthlyIncome.IsNegative() {
		return &ValidationError{Field: "monthly_income", Message: "monthly income cannot be negative"}
	}
	return nil
}

func validateInterestInput(input CreateInterestInput) error {
	if input.PropertyID == uuid.Nil {
		return &ValidationError{Field: "property_id", Message: "property id is required"}
	}
	if input.Budget == nil || !input.Budget.IsPositive() {
		return &ValidationError{Field: "budget", Message: "a positive budget is required"}
	}
	return nil
}
