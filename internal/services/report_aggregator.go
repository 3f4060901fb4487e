package services

import (
	"sort"

	"craneorders/internal/domain/models"
	"craneorders/internal/utils"
)

const (
	UnknownDriver      = "Unknown Driver"
	UnknownService     = "Unknown Service"
	UnknownVehicle     = "Unknown Vehicle"
	UnknownVehicleType = "Unknown Vehicle Type"
	UnknownFirm        = "Unknown Firm"
	UnknownCompany     = "Unknown Company"
)

// GroupKey extracts the grouping value of an order for a dimension.
func GroupKey(o models.Order, d models.Dimension) string {
	switch d {
	case models.DimensionDriver:
		return orPlaceholder(o.DriverName(), UnknownDriver)
	case models.DimensionServiceType:
		return orPlaceholder(o.ServiceType(), UnknownService)
	case models.DimensionTowingVehicle:
		return orPlaceholder(o.TowingVehicle(), UnknownVehicle)
	case models.DimensionVehicleType:
		return orPlaceholder(o.VehicleName(), UnknownVehicleType)
	case models.DimensionFirm:
		return orPlaceholder(o.FirmName(), UnknownFirm)
	case models.DimensionCompany:
		return orPlaceholder(o.CompanyName(), UnknownCompany)
	default:
		return o.OrderType.Title()
	}
}

func orPlaceholder(v, placeholder string) string {
	if v == "" {
		return placeholder
	}
	return v
}

// OrderRevenue is what one order contributes to a report: base revenue plus incentive.
func OrderRevenue(o models.Order, rates models.RateTable) (float64, models.CalculatedFinancials) {
	fin := CalculateFinancials(o, rates)
	return fin.TotalRevenue, fin
}

// AggregateReport groups orders inside q.Range by q.Dimension. Groups are
// ordered by descending revenue; ties keep first-seen order.
func AggregateReport(orders []models.Order, rates models.RateTable, q models.ReportQuery) models.Report {
	dim := q.Dimension
	if dim == "" {
		dim = models.DimensionOrderType
	}
	allowed := typeFilter(q.OrderTypes)

	index := map[string]int{}
	groups := []models.GroupSummary{}

	for _, o := range orders {
		if !q.Range.Contains(o.DateTime) {
			continue
		}
		if allowed != nil && !allowed[o.OrderType] {
			continue
		}

		key := GroupKey(o, dim)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, models.GroupSummary{Group: key})
		}
		g := &groups[i]

		revenue, fin := OrderRevenue(o, rates)
		expense := utils.RoundMoney(o.Expense())

		switch o.OrderType {
		case models.OrderTypeCash:
			g.CashOrders++
		case models.OrderTypeCompany:
			g.CompanyOrders++
		}
		g.TotalOrders++
		g.TotalRevenue += revenue
		g.TotalExpense += expense
		g.TotalIncentive += fin.IncentiveAmount

		if q.Detailed {
			g.Orders = append(g.Orders, models.ReportLine{
				OrderID:      o.ID,
				CustomerName: o.CustomerName,
				Phone:        o.Phone,
				OrderType:    o.OrderType,
				DateTime:     o.DateTime,
				Revenue:      revenue,
				Expense:      expense,
				Calculation:  fin.Calculation,
			})
		}
	}

	var totals models.ReportTotals
	for i := range groups {
		g := &groups[i]
		g.TotalRevenue = utils.RoundMoney(g.TotalRevenue)
		g.TotalExpense = utils.RoundMoney(g.TotalExpense)
		g.TotalIncentive = utils.RoundMoney(g.TotalIncentive)
		g.NetProfit = utils.RoundMoney(g.TotalRevenue - g.TotalExpense)

		totals.CashOrders += g.CashOrders
		totals.CompanyOrders += g.CompanyOrders
		totals.TotalOrders += g.TotalOrders
		totals.TotalRevenue += g.TotalRevenue
		totals.TotalExpense += g.TotalExpense
		totals.TotalIncentive += g.TotalIncentive
	}
	totals.TotalGroups = len(groups)
	totals.TotalRevenue = utils.RoundMoney(totals.TotalRevenue)
	totals.TotalExpense = utils.RoundMoney(totals.TotalExpense)
	totals.TotalIncentive = utils.RoundMoney(totals.TotalIncentive)
	totals.NetProfit = utils.RoundMoney(totals.TotalRevenue - totals.TotalExpense)

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].TotalRevenue > groups[b].TotalRevenue
	})

	return models.Report{
		Dimension: dim,
		Range:     q.Range,
		Groups:    groups,
		Summary:   totals,
	}
}

// typeFilter returns nil when every known type is allowed.
func typeFilter(types []models.OrderType) map[models.OrderType]bool {
	if len(types) == 0 {
		return nil
	}
	set := map[models.OrderType]bool{}
	for _, t := range types {
		set[t] = true
	}
	if len(set) >= len(models.AllOrderTypes) {
		all := true
		for _, t := range models.AllOrderTypes {
			if !set[t] {
				all = false
			}
		}
		if all {
			return nil
		}
	}
	return set
}
