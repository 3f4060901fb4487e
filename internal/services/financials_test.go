package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"craneorders/internal/domain/models"
)

func acmeRates() models.RateTable {
	return models.NewRateTable([]models.Rate{{
		FirmName:        "Acme",
		CompanyName:     "InsureCo",
		ServiceType:     "Towing",
		BaseRate:        1200,
		BaseDistanceKm:  40,
		RatePerKmBeyond: 12,
	}})
}

func companyOrder(kms float64) models.Order {
	return models.NewCompanyOrder("Cust", "9876543210", testTime, models.CompanyDetails{
		TripDetails: models.TripDetails{
			ServiceType:   "Towing",
			DriverName:    "Ravi",
			TowingVehicle: "TN01",
			KmsTravelled:  models.Float(kms),
		},
		FirmName:    "Acme",
		CompanyName: "InsureCo",
	})
}

func TestCalculateFinancialsBeyondBaseDistance(t *testing.T) {
	fin := CalculateFinancials(companyOrder(55), acmeRates())

	assert.True(t, fin.RateFound)
	assert.Equal(t, 1380.0, fin.BaseRevenue)
	assert.Equal(t, 1380.0, fin.TotalRevenue)
	assert.Contains(t, fin.Calculation, "15.0 km")
}

func TestCalculateFinancialsWithinBaseDistance(t *testing.T) {
	for _, kms := range []float64{0, 12.5, 40} {
		fin := CalculateFinancials(companyOrder(kms), acmeRates())
		assert.Equal(t, 1200.0, fin.BaseRevenue, "kms=%v", kms)
	}
}

func TestCalculateFinancialsMissingRate(t *testing.T) {
	o := companyOrder(55)
	o.Incentive = &models.Incentive{Amount: 150}

	fin := CalculateFinancials(o, models.RateTable{})

	assert.False(t, fin.RateFound)
	assert.Zero(t, fin.BaseRevenue)
	assert.Equal(t, 150.0, fin.TotalRevenue)
	assert.Contains(t, fin.Calculation, "Acme / InsureCo / Towing")
}

func TestCalculateFinancialsMissingTriple(t *testing.T) {
	o := companyOrder(55)
	o.Company.FirmName = ""

	fin := CalculateFinancials(o, acmeRates())

	assert.Zero(t, fin.TotalRevenue)
	assert.Contains(t, fin.Calculation, "Missing firm")
}

func TestCalculateFinancialsTrimsRateKey(t *testing.T) {
	o := companyOrder(10)
	o.Company.FirmName = "  Acme "

	fin := CalculateFinancials(o, acmeRates())
	assert.True(t, fin.RateFound)
}

func TestCalculateFinancialsCashPassThrough(t *testing.T) {
	o := models.NewCashOrder("Cust", "9876543210", testTime, models.CashDetails{
		AmountReceived: models.Float(500.456),
	})
	o.Incentive = &models.Incentive{Amount: 50}

	fin := CalculateFinancials(o, acmeRates())

	assert.Equal(t, 500.46, fin.BaseRevenue)
	assert.Equal(t, 50.0, fin.IncentiveAmount)
	assert.Equal(t, 550.46, fin.TotalRevenue)
	assert.False(t, fin.RateFound)
}
