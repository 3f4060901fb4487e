package models

import "time"

// CalculatedFinancials is the derived revenue of one order. Never persisted.
type CalculatedFinancials struct {
	BaseRevenue     float64 `json:"base_revenue"`
	IncentiveAmount float64 `json:"incentive_amount"`
	TotalRevenue    float64 `json:"total_revenue"`
	RateFound       bool    `json:"rate_found"`
	Calculation     string  `json:"calculation"`
}

type Dimension string

const (
	DimensionDriver        Dimension = "driver"
	DimensionServiceType   Dimension = "service_type"
	DimensionTowingVehicle Dimension = "towing_vehicle"
	DimensionVehicleType   Dimension = "vehicle_type"
	DimensionFirm          Dimension = "firm"
	DimensionCompany       Dimension = "company"
	DimensionOrderType     Dimension = "order_type"
)

// ParseDimension maps a query value to a Dimension; empty means order_type.
func ParseDimension(s string) (Dimension, bool) {
	switch Dimension(s) {
	case "":
		return DimensionOrderType, true
	case DimensionDriver, DimensionServiceType, DimensionTowingVehicle, DimensionVehicleType,
		DimensionFirm, DimensionCompany, DimensionOrderType:
		return Dimension(s), true
	}
	return "", false
}

// DateRange selects orders by date_time. End is inclusive unless HalfOpen.
type DateRange struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	HalfOpen bool      `json:"half_open"`
}

func (r DateRange) Contains(t time.Time) bool {
	if t.Before(r.Start) {
		return false
	}
	if r.HalfOpen {
		return t.Before(r.End)
	}
	return !t.After(r.End)
}

type ReportQuery struct {
	Range      DateRange
	Dimension  Dimension
	OrderTypes []OrderType
	Detailed   bool
}

// ReportLine is one order inside a detailed group.
type ReportLine struct {
	OrderID      string    `json:"id"`
	CustomerName string    `json:"customer_name"`
	Phone        string    `json:"phone"`
	OrderType    OrderType `json:"order_type"`
	DateTime     time.Time `json:"date_time"`
	Revenue      float64   `json:"revenue"`
	Expense      float64   `json:"expense"`
	Calculation  string    `json:"calculation,omitempty"`
}

type GroupSummary struct {
	Group          string       `json:"group"`
	CashOrders     int          `json:"cash_orders"`
	CompanyOrders  int          `json:"company_orders"`
	TotalOrders    int          `json:"total_orders"`
	TotalRevenue   float64      `json:"total_revenue"`
	TotalExpense   float64      `json:"total_expense"`
	TotalIncentive float64      `json:"total_incentive"`
	NetProfit      float64      `json:"net_profit"`
	Orders         []ReportLine `json:"orders,omitempty"`
}

type ReportTotals struct {
	TotalGroups    int     `json:"total_groups"`
	CashOrders     int     `json:"cash_orders"`
	CompanyOrders  int     `json:"company_orders"`
	TotalOrders    int     `json:"total_orders"`
	TotalRevenue   float64 `json:"total_revenue"`
	TotalExpense   float64 `json:"total_expense"`
	TotalIncentive float64 `json:"total_incentive"`
	NetProfit      float64 `json:"net_profit"`
}

type Report struct {
	Title     string         `json:"title"`
	Dimension Dimension      `json:"group_by"`
	Range     DateRange      `json:"range"`
	Groups    []GroupSummary `json:"groups"`
	Summary   ReportTotals   `json:"summary"`
}

// OrderStats is the quick dashboard summary by order type.
type OrderStats struct {
	TotalOrders int              `json:"total_orders"`
	ByType      []OrderTypeStats `json:"by_type"`
}

type OrderTypeStats struct {
	OrderType   OrderType `json:"_id"`
	Count       int       `json:"count"`
	TotalAmount float64   `json:"total_amount"`
}
