package handlers

import (
	"github.com/gin-gonic/gin"

	"craneorders/internal/http/middleware"
	"craneorders/internal/services"
)

func exportOrders(format services.ExportFormat) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, ok := orderFilter(c, 1000)
		if !ok {
			return
		}
		svc := services.ExportService{RequestID: middleware.GetRequestID(c)}
		data, ctype, name, err := svc.Orders(c.Request.Context(), f, format)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		sendFile(c, data, ctype, name)
	}
}

// GET /api/export/excel
var ExportOrdersExcel = exportOrders(services.FormatXLSX)

// GET /api/export/pdf
var ExportOrdersPDF = exportOrders(services.FormatPDF)
