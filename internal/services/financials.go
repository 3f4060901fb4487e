package services

import (
	"fmt"

	"craneorders/internal/domain/models"
	"craneorders/internal/utils"
)

// CalculateFinancials derives an order's revenue. Cash orders pass their
// amount received through; company orders are priced from the rate table.
// Missing data never fails: the result carries a diagnostic instead.
func CalculateFinancials(o models.Order, rates models.RateTable) models.CalculatedFinancials {
	incentive := utils.RoundMoney(o.IncentiveAmount())
	out := models.CalculatedFinancials{IncentiveAmount: incentive}

	switch o.OrderType {
	case models.OrderTypeCash:
		out.BaseRevenue = utils.RoundMoney(o.AmountReceived())
		out.TotalRevenue = utils.RoundMoney(out.BaseRevenue + incentive)
		out.Calculation = fmt.Sprintf("Cash order: amount received %s", utils.FormatRupees(out.BaseRevenue))
		return out
	case models.OrderTypeCompany:
	default:
		out.TotalRevenue = incentive
		out.Calculation = fmt.Sprintf("Unknown order type %q", o.OrderType)
		return out
	}

	firm, company, service := o.FirmName(), o.CompanyName(), o.ServiceType()
	if firm == "" || company == "" || service == "" {
		out.TotalRevenue = incentive
		out.Calculation = "Missing firm, company or service type for rate calculation"
		return out
	}

	rate, ok := rates.Lookup(firm, company, service)
	if !ok {
		out.TotalRevenue = incentive
		out.Calculation = fmt.Sprintf("No rate found for %s / %s / %s", firm, company, service)
		return out
	}

	out.RateFound = true
	kms := o.Kms()
	if kms <= rate.BaseDistanceKm {
		out.BaseRevenue = utils.RoundMoney(rate.BaseRate)
		out.Calculation = fmt.Sprintf("Base rate %s (%.1f km within %.0f km)",
			utils.FormatRupees(rate.BaseRate), kms, rate.BaseDistanceKm)
	} else {
		extra := kms - rate.BaseDistanceKm
		out.BaseRevenue = utils.RoundMoney(rate.BaseRate + extra*rate.RatePerKmBeyond)
		out.Calculation = fmt.Sprintf("Base %s + %.1f km x %s = %s",
			utils.FormatRupees(rate.BaseRate), extra, utils.FormatRupees(rate.RatePerKmBeyond), utils.FormatRupees(out.BaseRevenue))
	}
	out.TotalRevenue = utils.RoundMoney(out.BaseRevenue + incentive)
	return out
}
