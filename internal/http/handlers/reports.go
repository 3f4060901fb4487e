package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"craneorders/internal/domain/models"
	"craneorders/internal/http/middleware"
	"craneorders/internal/services"
)

// writeReport answers with JSON or, when format asks for it, a file.
func writeReport(c *gin.Context, rep models.Report, detailed bool) {
	format, asFile, err := services.ParseExportFormat(c.Query("format"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if !asFile {
		c.JSON(http.StatusOK, rep)
		return
	}
	svc := services.ExportService{RequestID: middleware.GetRequestID(c)}
	data, ctype, name, err := svc.Report(rep, detailed, format)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendFile(c, data, ctype, name)
}

// GET /api/reports/custom?start_date=&end_date=&group_by=&order_types=&detailed=&format=
func GetCustomReport(c *gin.Context) {
	p := services.CustomReportParams{
		StartDate:  c.Query("start_date"),
		EndDate:    c.Query("end_date"),
		GroupBy:    c.Query("group_by"),
		OrderTypes: c.Query("order_types"),
		Detailed:   queryBool(c, "detailed"),
	}
	rep, err := reportService(c).Custom(c.Request.Context(), p)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	writeReport(c, rep, p.Detailed)
}

type monthlyReport func(s services.ReportService, ctx context.Context, month, year int) (models.Report, error)

func monthlyHandler(run monthlyReport) gin.HandlerFunc {
	return func(c *gin.Context) {
		month, year, err := services.ParseMonthYear(c.Query("month"), c.Query("year"), time.Now())
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		rep, err := run(reportService(c), c.Request.Context(), month, year)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		writeReport(c, rep, true)
	}
}

// GET /api/reports/expense-by-driver?month=&year=&format=
var GetExpenseByDriver = monthlyHandler(services.ReportService.ExpenseByDriver)

// GET /api/reports/revenue-by-vehicle?month=&year=&format=
var GetRevenueByVehicle = monthlyHandler(services.ReportService.RevenueByTowingVehicle)

// GET /api/reports/revenue-by-vehicle-type?month=&year=&format=
var GetRevenueByVehicleType = monthlyHandler(services.ReportService.RevenueByVehicleType)
