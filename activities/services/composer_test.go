package services

import (
	"testing"
	"time"

	"property-marketplace-backend/db/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComposeVisitRequestMessage(t *testing.T) {
	input := VisitRequestInput{
		Date:             time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		Time:             "10:00",
		VisitType:        models.PhysicalVisit,
		NumberOfVisitors: 2,
	}

	msg := ComposeVisitRequestMessage(input, "Two-bed flat in Avondale", "Noah Client")

	assert.Contains(t, msg, "Two-bed flat in Avondale")
	assert.Contains(t, msg, "Noah Client")
	assert.Contains(t, msg, "Monday, 14 September 2026")
	assert.Contains(t, msg, "10:00")
	assert.Contains(t, msg, "in person")
	assert.Contains(t, msg, "Visitors: 2")

	// Same input, same text.
	assert.Equal(t, msg, ComposeVisitRequestMessage(input, "Two-bed flat in Avondale", "Noah Client"))
}

func TestComposeVisitRequestMessage_VisitTypeLabels(t *testing.T) {
	base := VisitRequestInput{
		Date:             time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		Time:             "10:00",
		NumberOfVisitors: 1,
	}

	base.VisitType = models.VirtualVisit
	assert.Contains(t, ComposeVisitRequestMessage(base, "Flat", "C"), "virtual")

	base.VisitType = models.SelfGuidedVisit
	assert.Contains(t, ComposeVisitRequestMessage(base, "Flat", "C"), "self-guided")
}

func TestComposeRentalRequestMessage(t *testing.T) {
	income := decimal.NewFromInt(2400)
	input := RentalRequestInput{
		StartDate:         time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:           time.Date(2027, 10, 1, 0, 0, 0, 0, time.UTC),
		NumberOfOccupants: 3,
		MonthlyIncome:     &income,
		HasGuarantor:      true,
	}

	msg := ComposeRentalRequestMessage(input, "Two-bed flat in Avondale", "Noah Client")

	assert.Contains(t, msg, "Reservation request")
	assert.Contains(t, msg, "Thursday, 1 October 2026")
	assert.Contains(t, msg, "Friday, 1 October 2027")
	assert.Contains(t, msg, "Occupants: 3")
	assert.Contains(t, msg, "2400.00")
	assert.Contains(t, msg, "Guarantor: yes")
}

func TestComposeRentalRequestMessage_OptionalFields(t *testing.T) {
	input := RentalRequestInput{
		StartDate:         time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:           time.Date(2027, 4, 1, 0, 0, 0, 0, time.UTC),
		NumberOfOccupants: 1,
	}

	msg := ComposeRentalRequestMessage(input, "Flat", "C")

	assert.NotContains(t, msg, "Monthly income")
	assert.Contains(t, msg, "Guarantor: no")
}

func TestComposeSaleInterestMessage(t *testing.T) {
	input := SaleInterestInput{
		Budget:        decimal.NewFromInt(115000),
		FinancingType: "mortgage",
		Timeframe:     "3 months",
	}

	msg := ComposeSaleInterestMessage(input, "House in Borrowdale", "Noah Client")

	assert.Contains(t, msg, "Purchase interest")
	assert.Contains(t, msg, "House in Borrowdale")
	assert.Contains(t, msg, "115000.00")
	assert.Contains(t, msg, "mortgage")
	assert.Contains(t, msg, "3 months")
}

func TestComposeSaleInterestMessage_OptionalFields(t *testing.T) {
	msg := ComposeSaleInterestMessage(SaleInterestInput{
		Budget: decimal.NewFromInt(90000),
	}, "House", "C")

	assert.Contains(t, msg, "90000.00")
	assert.NotContains(t, msg, "Financing")
	assert.NotContains(t, msg, "Timeframe")
}
