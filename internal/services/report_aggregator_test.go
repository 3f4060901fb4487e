package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"craneorders/internal/domain/models"
	"craneorders/internal/utils"
)

var testTime = time.Date(2024, 12, 15, 10, 0, 0, 0, time.UTC)

func cashOrder(driver string, amount float64, at time.Time) models.Order {
	o := models.NewCashOrder("Cust", "9876543210", at, models.CashDetails{
		TripDetails: models.TripDetails{
			DriverName:    driver,
			TowingVehicle: "TN01",
			Diesel:        models.Float(100),
			Toll:          models.Float(20),
		},
		AmountReceived: models.Float(amount),
	})
	o.ID = driver + "-cash"
	return o
}

func decemberRange() models.DateRange {
	start, end, _ := utils.MonthWindow(12, 2024)
	return models.DateRange{Start: start, End: end, HalfOpen: true}
}

func TestAggregateReportGroupsByDriver(t *testing.T) {
	rates := models.NewRateTable([]models.Rate{{
		FirmName: "Acme", CompanyName: "InsureCo", ServiceType: "Towing",
		BaseRate: 800, BaseDistanceKm: 40, RatePerKmBeyond: 12,
	}})
	orders := []models.Order{
		cashOrder("Ravi", 500, testTime),
		cashOrder("Ravi", 500, testTime.Add(time.Hour)),
		companyOrder(30),
	}

	rep := AggregateReport(orders, rates, models.ReportQuery{
		Range:     decemberRange(),
		Dimension: models.DimensionDriver,
	})

	require.Len(t, rep.Groups, 1)
	g := rep.Groups[0]
	assert.Equal(t, "Ravi", g.Group)
	assert.Equal(t, 3, g.TotalOrders)
	assert.Equal(t, 2, g.CashOrders)
	assert.Equal(t, 1, g.CompanyOrders)
	assert.Equal(t, 1800.0, g.TotalRevenue)
	assert.Equal(t, 240.0, g.TotalExpense)
	assert.Equal(t, 1560.0, g.NetProfit)
	assert.Nil(t, g.Orders)
}

func TestAggregateReportSortsByRevenueStable(t *testing.T) {
	orders := []models.Order{
		cashOrder("A", 100, testTime),
		cashOrder("B", 300, testTime),
		cashOrder("C", 100, testTime),
		cashOrder("D", 200, testTime),
	}

	rep := AggregateReport(orders, nil, models.ReportQuery{
		Range:     decemberRange(),
		Dimension: models.DimensionDriver,
	})

	var names []string
	for _, g := range rep.Groups {
		names = append(names, g.Group)
	}
	assert.Equal(t, []string{"B", "D", "A", "C"}, names)
	assert.Equal(t, 4, rep.Summary.TotalGroups)
	assert.Equal(t, 700.0, rep.Summary.TotalRevenue)
}

func TestAggregateReportPlaceholdersAndCountConservation(t *testing.T) {
	orders := []models.Order{
		cashOrder("", 100, testTime),
		cashOrder("Ravi", 100, testTime),
		companyOrder(10),
	}
	orders[2].Company.DriverName = ""

	rep := AggregateReport(orders, models.RateTable{}, models.ReportQuery{
		Range:     decemberRange(),
		Dimension: models.DimensionDriver,
	})

	total := 0
	groups := map[string]int{}
	for _, g := range rep.Groups {
		total += g.TotalOrders
		groups[g.Group] = g.TotalOrders
	}
	assert.Equal(t, len(orders), total)
	assert.Equal(t, 2, groups[UnknownDriver])
	assert.Equal(t, total, rep.Summary.TotalOrders)
}

func TestAggregateReportHalfOpenMonthWindow(t *testing.T) {
	jan1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	dec1 := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	orders := []models.Order{
		cashOrder("In", 100, dec1),
		cashOrder("Out", 100, jan1),
	}

	rep := AggregateReport(orders, nil, models.ReportQuery{
		Range:     decemberRange(),
		Dimension: models.DimensionDriver,
	})

	require.Len(t, rep.Groups, 1)
	assert.Equal(t, "In", rep.Groups[0].Group)
}

func TestAggregateReportOrderTypeFilterAndDetail(t *testing.T) {
	orders := []models.Order{
		cashOrder("Ravi", 500, testTime),
		companyOrder(30),
	}

	rep := AggregateReport(orders, models.RateTable{}, models.ReportQuery{
		Range:      decemberRange(),
		OrderTypes: []models.OrderType{models.OrderTypeCash},
		Detailed:   true,
	})

	require.Len(t, rep.Groups, 1)
	assert.Equal(t, models.DimensionOrderType, rep.Dimension)
	assert.Equal(t, "Cash", rep.Groups[0].Group)
	require.Len(t, rep.Groups[0].Orders, 1)
	assert.Equal(t, 500.0, rep.Groups[0].Orders[0].Revenue)
}

func TestTypeFilterAllTypesIsNil(t *testing.T) {
	assert.Nil(t, typeFilter(nil))
	assert.Nil(t, typeFilter([]models.OrderType{models.OrderTypeCompany, models.OrderTypeCash}))
	assert.Len(t, typeFilter([]models.OrderType{models.OrderTypeCompany}), 1)
}

func TestGroupKeyDimensions(t *testing.T) {
	o := companyOrder(10)
	o.Company.VehicleName = "Sedan"

	assert.Equal(t, "Acme", GroupKey(o, models.DimensionFirm))
	assert.Equal(t, "InsureCo", GroupKey(o, models.DimensionCompany))
	assert.Equal(t, "Towing", GroupKey(o, models.DimensionServiceType))
	assert.Equal(t, "TN01", GroupKey(o, models.DimensionTowingVehicle))
	assert.Equal(t, "Sedan", GroupKey(o, models.DimensionVehicleType))
	assert.Equal(t, "Company", GroupKey(o, models.DimensionOrderType))

	c := cashOrder("Ravi", 1, testTime)
	assert.Equal(t, UnknownFirm, GroupKey(c, models.DimensionFirm))
	assert.Equal(t, UnknownVehicleType, GroupKey(c, models.DimensionVehicleType))
}

func TestAggregateReportAddsIncentivesForBothTypes(t *testing.T) {
	rates := models.NewRateTable([]models.Rate{{
		FirmName: "Acme", CompanyName: "InsureCo", ServiceType: "Towing",
		BaseRate: 800, BaseDistanceKm: 40, RatePerKmBeyond: 12,
	}})
	cash := cashOrder("Ravi", 500, testTime)
	cash.Incentive = &models.Incentive{Amount: 100, Reason: "night shift"}
	company := companyOrder(30)
	company.Incentive = &models.Incentive{Amount: 50.5}

	rep := AggregateReport([]models.Order{cash, company}, rates, models.ReportQuery{
		Range:     decemberRange(),
		Dimension: models.DimensionDriver,
		Detailed:  true,
	})

	require.Len(t, rep.Groups, 1)
	g := rep.Groups[0]
	assert.Equal(t, 1450.5, g.TotalRevenue)
	assert.Equal(t, 150.5, g.TotalIncentive)
	assert.Equal(t, 120.0, g.TotalExpense)
	assert.Equal(t, 1330.5, g.NetProfit)
	require.Len(t, g.Orders, 2)
	assert.Equal(t, 600.0, g.Orders[0].Revenue)
	assert.Equal(t, 850.5, g.Orders[1].Revenue)

	assert.Equal(t, 1450.5, rep.Summary.TotalRevenue)
	assert.Equal(t, 150.5, rep.Summary.TotalIncentive)
	assert.Equal(t, 1330.5, rep.Summary.NetProfit)
}
