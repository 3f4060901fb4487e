package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"craneorders/internal/domain"
	"craneorders/internal/domain/models"
	"craneorders/internal/repositories"
	"craneorders/internal/utils"
)

// CustomReportParams are the raw query values of the custom report.
type CustomReportParams struct {
	StartDate  string
	EndDate    string
	GroupBy    string
	OrderTypes string
	Detailed   bool
}

type ReportService struct {
	OrderRepo repositories.OrderRepository
	RateRepo  repositories.RateRepository
	RequestID string
}

// Custom runs the aggregator over an inclusive [start, end] range.
func (s ReportService) Custom(ctx context.Context, p CustomReportParams) (models.Report, error) {
	q, err := ParseCustomQuery(p)
	if err != nil {
		return models.Report{}, err
	}
	rep, err := s.run(ctx, q)
	if err != nil {
		return rep, err
	}
	rep.Title = fmt.Sprintf("Custom report by %s (%s to %s)",
		strings.ReplaceAll(string(q.Dimension), "_", " "), utils.FormatDate(q.Range.Start), utils.FormatDate(q.Range.End))
	return rep, nil
}

// ExpenseByDriver groups one calendar month by driver.
func (s ReportService) ExpenseByDriver(ctx context.Context, month, year int) (models.Report, error) {
	return s.monthly(ctx, month, year, models.DimensionDriver, "Expense by driver")
}

// RevenueByTowingVehicle groups one calendar month by towing vehicle.
func (s ReportService) RevenueByTowingVehicle(ctx context.Context, month, year int) (models.Report, error) {
	return s.monthly(ctx, month, year, models.DimensionTowingVehicle, "Revenue by towing vehicle")
}

// RevenueByVehicleType groups one calendar month by the serviced vehicle's make and model.
func (s ReportService) RevenueByVehicleType(ctx context.Context, month, year int) (models.Report, error) {
	return s.monthly(ctx, month, year, models.DimensionVehicleType, "Revenue by vehicle type")
}

func (s ReportService) monthly(ctx context.Context, month, year int, dim models.Dimension, title string) (models.Report, error) {
	start, end, err := utils.MonthWindow(month, year)
	if err != nil {
		return models.Report{}, domain.ValidationError{Field: "month", Msg: err.Error()}
	}
	rep, err := s.run(ctx, models.ReportQuery{
		Range:     models.DateRange{Start: start, End: end, HalfOpen: true},
		Dimension: dim,
		Detailed:  true,
	})
	if err != nil {
		return rep, err
	}
	rep.Title = fmt.Sprintf("%s - %s", title, start.Format("January 2006"))
	return rep, nil
}

func (s ReportService) run(ctx context.Context, q models.ReportQuery) (models.Report, error) {
	orders, err := s.OrderRepo.ListByDateRange(ctx, q.Range.Start, q.Range.End)
	if err != nil {
		return models.Report{}, err
	}
	rates, err := s.RateRepo.Table(ctx)
	if err != nil {
		return models.Report{}, err
	}
	rep := AggregateReport(orders, rates, q)
	utils.LogEvent(s.RequestID, "report", string(q.Dimension),
		fmt.Sprintf("orders=%d groups=%d", rep.Summary.TotalOrders, rep.Summary.TotalGroups))
	return rep, nil
}

// Summary is the dashboard count by order type.
func (s ReportService) Summary(ctx context.Context) (models.OrderStats, error) {
	return s.OrderRepo.Stats(ctx)
}

// Drivers lists distinct driver names found on orders.
func (s ReportService) Drivers(ctx context.Context) ([]string, error) {
	return s.OrderRepo.DistinctDrivers(ctx)
}

// OrderFinancials computes revenue for one stored order.
func (s ReportService) OrderFinancials(ctx context.Context, id string) (models.CalculatedFinancials, error) {
	o, err := s.OrderRepo.GetByID(ctx, id)
	if err != nil {
		return models.CalculatedFinancials{}, err
	}
	rates, err := s.RateRepo.Table(ctx)
	if err != nil {
		return models.CalculatedFinancials{}, err
	}
	return CalculateFinancials(o, rates), nil
}

// ParseCustomQuery validates the custom report parameters.
func ParseCustomQuery(p CustomReportParams) (models.ReportQuery, error) {
	if strings.TrimSpace(p.StartDate) == "" || strings.TrimSpace(p.EndDate) == "" {
		return models.ReportQuery{}, domain.ValidationError{Field: "start_date", Msg: "start_date and end_date are required"}
	}
	start, err := utils.ParseDateBound(p.StartDate, false)
	if err != nil {
		return models.ReportQuery{}, domain.ValidationError{Field: "start_date", Msg: err.Error()}
	}
	end, err := utils.ParseDateBound(p.EndDate, true)
	if err != nil {
		return models.ReportQuery{}, domain.ValidationError{Field: "end_date", Msg: err.Error()}
	}
	if end.Before(start) {
		return models.ReportQuery{}, domain.ValidationError{Field: "end_date", Msg: "must not be before start_date"}
	}

	dim, ok := models.ParseDimension(strings.TrimSpace(p.GroupBy))
	if !ok {
		return models.ReportQuery{}, domain.ValidationError{Field: "group_by", Msg: "unsupported grouping " + p.GroupBy}
	}

	var types []models.OrderType
	for _, raw := range strings.Split(p.OrderTypes, ",") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		t, ok := models.ParseOrderType(raw)
		if !ok {
			return models.ReportQuery{}, domain.ValidationError{Field: "order_types", Msg: "unknown order type " + strings.TrimSpace(raw)}
		}
		types = append(types, t)
	}

	return models.ReportQuery{
		Range:      models.DateRange{Start: start, End: end},
		Dimension:  dim,
		OrderTypes: types,
		Detailed:   p.Detailed,
	}, nil
}

// ParseMonthYear reads month/year query values; blanks default to the current month.
func ParseMonthYear(monthRaw, yearRaw string, now time.Time) (int, int, error) {
	month, year := int(now.Month()), now.Year()
	var err error
	if v := strings.TrimSpace(monthRaw); v != "" {
		if month, err = strconv.Atoi(v); err != nil {
			return 0, 0, domain.ValidationError{Field: "month", Msg: "must be a number"}
		}
	}
	if v := strings.TrimSpace(yearRaw); v != "" {
		if year, err = strconv.Atoi(v); err != nil {
			return 0, 0, domain.ValidationError{Field: "year", Msg: "must be a number"}
		}
	}
	if month < 1 || month > 12 {
		return 0, 0, domain.ValidationError{Field: "month", Msg: "must be 1..12"}
	}
	if year < 2000 || year > 2100 {
		return 0, 0, domain.ValidationError{Field: "year", Msg: "must be 2000..2100"}
	}
	return month, year, nil
}
