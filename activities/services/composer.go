package services

import (
	"fmt"
	"strings"
	"time"

	"property-marketplace-backend/db/models"
	"property-marketplace-backend/utils"

	"github.com/shopspring/decimal"
)

// The composer renders the narrative that opens a conversation thread for a
// new request. Pure and deterministic: no network, no clock, no errors.
// Plain text with light structure only.

type VisitRequestInput struct {
	Date             time.Time
	Time             string
	VisitType        models.VisitType
	NumberOfVisitors int
}

type RentalRequestInput struct {
	StartDate         time.Time
	EndDate           time.Time
	NumberOfOccupants int
	MonthlyIncome     *decimal.Decimal
	HasGuarantor      bool
}

type SaleInterestInput struct {
	Budget        decimal.Decimal
	FinancingType string
	Timeframe     string
}

// ComposeVisitRequestMessage renders the first chat message for a visit
// request. Every structured field the owner needs appears in the text.
func ComposeVisitRequestMessage(req VisitRequestInput, propertyTitle, clientName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Visit request — %s\n\n", propertyTitle)
	fmt.Fprintf(&b, "%s would like to visit this property.\n\n", clientName)
	fmt.Fprintf(&b, "- Date: %s\n", utils.FormatDateFull(req.Date))
	fmt.Fprintf(&b, "- Time: %s\n", req.Time)
	fmt.Fprintf(&b, "- Visit type: %s\n", visitTypeLabel(req.VisitType))
	fmt.Fprintf(&b, "- Visitors: %d\n", req.NumberOfVisitors)
	return b.String()
}

// ComposeRentalRequestMessage renders the first chat message for a rental
// reservation request.
func ComposeRentalRequestMessage(req RentalRequestInput, propertyTitle, clientName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Reservation request — %s\n\n", propertyTitle)
	fmt.Fprintf(&b, "%s would like to rent this property.\n\n", clientName)
	fmt.Fprintf(&b, "- From: %s\n", utils.FormatDateFull(req.StartDate))
	fmt.Fprintf(&b, "- To: %s\n", utils.FormatDateFull(req.EndDate))
	fmt.Fprintf(&b, "- Occupants: %d\n", req.NumberOfOccupants)
	if req.MonthlyIncome != nil {
		fmt.Fprintf(&b, "- Monthly income: %s\n", req.MonthlyIncome.StringFixed(2))
	}
	if req.HasGuarantor {
		b.WriteString("- Guarantor: yes\n")
	} else {
		b.WriteString("- Guarantor: no\n")
	}
	return b.String()
}

// ComposeSaleInterestMessage renders the first chat message for an expression
// of interest in a sale listing.
func ComposeSaleInterestMessage(req SaleInterestInput, propertyTitle, clientName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Purchase interest — %s\n\n", propertyTitle)
	fmt.Fprintf(&b, "%s is interested in buying this property.\n\n", clientName)
	fmt.Fprintf(&b, "- Budget: %s\n", req.Budget.StringFixed(2))
	if req.FinancingType != "" {
		fmt.Fprintf(&b, "- Financing: %s\n", req.FinancingType)
	}
	if req.Timeframe != "" {
		fmt.Fprintf(&b, "- Timeframe: %s\n", req.Timeframe)
	}
	return b.String()
}

func visitTypeLabel(t models.VisitType) string {
	switch t {
	case models.PhysicalVisit:
		return "in person"
	case models.VirtualVisit:
		return "virtual"
	case models.SelfGuidedVisit:
		return "self-guided"
	default:
		return string(t)
	}
}
