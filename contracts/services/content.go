package services

import (
	"fmt"
	"strings"
	"time"

	"property-marketplace-backend/db/models"
	"property-marketplace-backend/utils"

	"github.com/shopspring/decimal"
)

// ContractData holds everything the contract templates render. Every
// structured field of the transaction must appear in the output; the content
// is the legally meaningful artifact.
type ContractData struct {
	ContractNumber string
	GeneratedDate  string

	// Parties
	OwnerName    string
	OwnerEmail   string
	ClientName   string
	ClientEmail  string
	ClientPhone  string

	// Object
	PropertyTitle   string
	PropertyAddress string
	PropertyCity    string

	// Duration / price
	StartDate string
	EndDate   string
	Duration  string

	// Financial breakdown rows rendered as a table
	FinancialRows []FinancialRow
	TotalLabel    string
	TotalAmount   string

	Obligations       []string
	SpecialConditions []string
	DisputeClause     string
}

type FinancialRow struct {
	Label  string
	Amount string
}

// BuildRentalContractData assembles the rental agreement content. Pure and
// deterministic for a given activity and generation date.
func BuildRentalContractData(activity *models.Activity, generatedAt time.Time) ContractData {
	property := activity.Property
	client := activity.Client

	rent := decimal.Zero
	if property.MonthlyRent != nil {
		rent = *property.MonthlyRent
	} else {
		rent = property.Price
	}
	deposit := decimal.Zero
	if property.DepositAmount != nil {
		deposit = *property.DepositAmount
	}

	data := ContractData{
		ContractNumber: contractNumber(activity, generatedAt),
		GeneratedDate:  formatDate(generatedAt),
		OwnerName:      strings.ToUpper(property.Owner.FullName()),
		OwnerEmail:     property.Owner.Email,
		ClientName:     strings.ToUpper(client.FullName()),
		ClientEmail:    client.Email,
		PropertyTitle:  property.Title,
		TotalLabel:     "Total due at signature",
		TotalAmount:    formatAmount(rent.Add(deposit)),
		DisputeClause:  disputeClause,
	}
	if client.PhoneNumber != nil {
		data.ClientPhone = *client.PhoneNumber
	}
	if property.Address != nil {
		data.PropertyAddress = *property.Address
	}
	if property.City != nil {
		data.PropertyCity = *property.City
	}

	if activity.StartDate != nil && activity.EndDate != nil {
		data.StartDate = formatDate(*activity.StartDate)
		data.EndDate = formatDate(*activity.EndDate)
		months := monthsBetween(*activity.StartDate, *activity.EndDate)
		data.Duration = fmt.Sprintf("%d months", months)
	}

	data.FinancialRows = []FinancialRow{
		{Label: "Monthly rent", Amount: formatAmount(rent)},
		{Label: "Security deposit", Amount: formatAmount(deposit)},
	}
	if activity.Amount != nil {
		data.FinancialRows = append(data.FinancialRows, FinancialRow{
			Label: "Amount paid", Amount: formatAmount(*activity.Amount),
		})
	}

	data.Obligations = rentalObligations
	data.SpecialConditions = rentalSpecialConditions(activity)
	return data
}

// BuildSaleContractData assembles the sale agreement content.
func BuildSaleContractData(activity *models.Activity, generatedAt time.Time) ContractData {
	property := activity.Property
	client := activity.Client

	price := property.Price
	if property.SalePrice != nil {
		price = *property.SalePrice
	}

	data := ContractData{
		ContractNumber: contractNumber(activity, generatedAt),
		GeneratedDate:  formatDate(generatedAt),
		OwnerName:      strings.ToUpper(property.Owner.FullName()),
		OwnerEmail:     property.Owner.Email,
		ClientName:     strings.ToUpper(client.FullName()),
		ClientEmail:    client.Email,
		PropertyTitle:  property.Title,
		TotalLabel:     "Sale price",
		TotalAmount:    formatAmount(price),
		DisputeClause:  disputeClause,
	}
	if client.PhoneNumber != nil {
		data.ClientPhone = *client.PhoneNumber
	}
	if property.Address != nil {
		data.PropertyAddress = *property.Address
	}
	if property.City != nil {
		data.PropertyCity = *property.City
	}

	data.FinancialRows = []FinancialRow{
		{Label: "Agreed sale price", Amount: formatAmount(price)},
	}
	if activity.Amount != nil {
		data.FinancialRows = append(data.FinancialRows, FinancialRow{
			Label: "Amount paid", Amount: formatAmount(*activity.Amount),
		})
	}
	if activity.Budget != nil {
		data.FinancialRows = append(data.FinancialRows, FinancialRow{
			Label: "Declared buyer budget", Amount: formatAmount(*activity.Budget),
		})
	}

	data.Obligations = saleObligations
	data.SpecialConditions = saleSpecialConditions(activity)
	return data
}

var rentalObligations = []string{
	"The tenant shall use the premises as a private dwelling only and keep them in good condition.",
	"The tenant shall pay the rent monthly, in advance, on the first day of each month.",
	"The owner shall keep the premises fit for habitation and carry out structural repairs.",
	"The tenant shall not sub-let the premises without the owner's prior written consent.",
	"The security deposit is refundable at the end of the lease, less any damages assessed.",
}

var saleObligations = []string{
	"The seller warrants clear and transferable title to the property.",
	"The buyer shall settle the full sale price as recorded in the financial terms.",
	"Transfer of ownership takes effect upon delivery of the title deed.",
	"Each party bears its own costs except where stated otherwise in the special conditions.",
}

const disputeClause = "Any dispute arising from this agreement shall first be submitted to mediation. Failing settlement within thirty days, the dispute shall be referred to the competent courts of the property's jurisdiction."

func rentalSpecialConditions(activity *models.Activity) []string {
	conditions := []string{}
	if activity.NumberOfOccupants != nil {
		conditions = append(conditions, fmt.Sprintf("The premises shall house at most %d occupant(s).", *activity.NumberOfOccupants))
	}
	if activity.HasGuarantor != nil && *activity.HasGuarantor {
		conditions = append(conditions, "The lease is backed by a guarantor declared by the tenant.")
	}
	if activity.MonthlyIncome != nil {
		conditions = append(conditions, fmt.Sprintf("The tenant declared a monthly income of %s.", formatAmount(*activity.MonthlyIncome)))
	}
	return conditions
}

func saleSpecialConditions(activity *models.Activity) []string {
	conditions := []string{}
	if activity.FinancingType != nil && *activity.FinancingType != "" {
		conditions = append(conditions, fmt.Sprintf("The purchase is financed via: %s.", *activity.FinancingType))
	}
	if activity.Timeframe != nil && *activity.Timeframe != "" {
		conditions = append(conditions, fmt.Sprintf("The buyer's declared completion timeframe is: %s.", *activity.Timeframe))
	}
	conditions = append(conditions, "The sale is subject to the platform's administrative verification and title-deed delivery.")
	return conditions
}

func contractNumber(activity *models.Activity, generatedAt time.Time) string {
	return fmt.Sprintf("CTR-%d-%s", generatedAt.Year(), strings.ToUpper(activity.ID.String()[:8]))
}

func formatDate(t time.Time) string {
	return utils.FormatDateFull(t)
}

func formatAmount(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func monthsBetween(start, end time.Time) int {
	months := int(end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if months < 1 {
		months = 1
	}
	return months
}
