package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"craneorders/internal/http/middleware"
	"craneorders/internal/repositories"
	"craneorders/internal/services"
)

// maxImportBytes bounds the uploaded spreadsheet.
const maxImportBytes = 20 << 20

func importService(c *gin.Context) services.ImportService {
	s := currentSettings()
	rid := middleware.GetRequestID(c)
	return services.ImportService{
		OrderRepo: repositories.OrderRepository{},
		BatchRepo: repositories.ImportBatchRepository{},
		Audit:     auditService(rid),
		Options:   services.ImportOptions{StrictDates: s.ImportStrictDates},
		MaxErrors: s.ImportMaxErrors,
		RequestID: rid,
	}
}

// POST /api/import/orders (multipart field "file")
func ImportOrders(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "file is required", err)
		return
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != ".xlsx" && ext != ".xlsm" {
		RespondError(c, http.StatusBadRequest, "only .xlsx spreadsheets are supported", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "cannot open upload", err)
		return
	}
	defer f.Close()

	rows, err := services.ReadSpreadsheetRows(f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sum, err := importService(c).Import(c.Request.Context(), rows, fh.Filename, middleware.ActorFrom(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// GET /api/import/history?limit=
func GetImportHistory(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 50)
	if !ok {
		return
	}
	batches, err := importService(c).History(c.Request.Context(), limit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, batches)
}
