package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"craneorders/internal/domain"
	"craneorders/internal/domain/models"
	"craneorders/internal/repositories"
	"craneorders/internal/utils"
)

// DefaultImportMaxErrors caps the failure sample returned to callers.
const DefaultImportMaxErrors = 50

// ReadSpreadsheetRows reads the first sheet of a workbook; the first row holds
// the headers. Cells are read unformatted so dates arrive as serials.
func ReadSpreadsheetRows(r io.Reader) ([]RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, domain.ValidationError{Field: "file", Msg: "not a readable spreadsheet", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.ValidationError{Field: "file", Msg: "workbook has no sheets"}
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []RawRow{}, nil
	}

	headers := rows[0]
	out := make([]RawRow, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		row := RawRow{}
		for i, h := range headers {
			if strings.TrimSpace(h) == "" {
				continue
			}
			if i < len(cells) {
				row[h] = cells[i]
			} else {
				row[h] = ""
			}
		}
		out = append(out, row)
	}
	return out, nil
}

type ImportSummary struct {
	BatchID   string      `json:"batch_id"`
	FileName  string      `json:"file_name"`
	TotalRows int         `json:"total_rows"`
	Imported  int         `json:"imported"`
	Skipped   int         `json:"skipped"`
	Failed    int         `json:"failed"`
	Errors    []string    `json:"errors"`
	Warnings  []string    `json:"warnings"`
	Rows      []RowResult `json:"rows"`
}

type ImportService struct {
	OrderRepo repositories.OrderRepository
	BatchRepo repositories.ImportBatchRepository
	Audit     AuditService
	Options   ImportOptions
	MaxErrors int
	RequestID string
}

func (s ImportService) maxErrors() int {
	if s.MaxErrors > 0 {
		return s.MaxErrors
	}
	return DefaultImportMaxErrors
}

// Import normalizes and inserts each row on its own; one bad row never stops
// the batch. Rows are numbered as on the sheet, headers being row 1.
func (s ImportService) Import(ctx context.Context, rows []RawRow, fileName string, actor domain.Actor) (ImportSummary, error) {
	sum := ImportSummary{
		BatchID:   uuid.NewString(),
		FileName:  fileName,
		TotalRows: len(rows),
		Errors:    []string{},
		Warnings:  []string{},
		Rows:      make([]RowResult, 0, len(rows)),
	}
	limit := s.maxErrors()

	for i, raw := range rows {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		rowNum := i + 2
		res := NormalizeRow(raw, rowNum, s.Options)

		if res.Status == RowImported {
			res.Order.CreatedBy = actor.Label()
			if err := s.OrderRepo.Insert(ctx, *res.Order); err != nil {
				res.Status = RowFailed
				res.Reason = "insert failed: " + err.Error()
			}
		}

		for _, w := range res.Warnings {
			msg := fmt.Sprintf("row %d: %s", rowNum, w)
			utils.LogWarn(s.RequestID, "import", "row", msg)
			if len(sum.Warnings) < limit {
				sum.Warnings = append(sum.Warnings, msg)
			}
		}

		switch res.Status {
		case RowImported:
			sum.Imported++
		case RowSkipped:
			sum.Skipped++
		case RowFailed:
			sum.Failed++
			if len(sum.Errors) < limit {
				sum.Errors = append(sum.Errors, fmt.Sprintf("row %d: %s", rowNum, res.Reason))
			}
		}
		res.Order = nil
		sum.Rows = append(sum.Rows, res)
	}

	batch := models.ImportBatch{
		ID:        sum.BatchID,
		FileName:  fileName,
		Imported:  sum.Imported,
		Skipped:   sum.Skipped,
		Failed:    sum.Failed,
		Errors:    sum.Errors,
		CreatedBy: actor.Label(),
		CreatedAt: utils.NowUTC(),
	}
	if err := s.BatchRepo.Create(ctx, batch); err != nil {
		utils.LogWarn(s.RequestID, "import", "batch", "record failed: "+err.Error())
	}
	s.Audit.Record(ctx, actor, models.AuditImport, models.ResourceImport, sum.BatchID,
		fmt.Sprintf("file=%s imported=%d skipped=%d failed=%d", fileName, sum.Imported, sum.Skipped, sum.Failed))
	utils.LogEvent(s.RequestID, "import", "done",
		fmt.Sprintf("file=%s rows=%d imported=%d skipped=%d failed=%d", fileName, sum.TotalRows, sum.Imported, sum.Skipped, sum.Failed))
	return sum, nil
}

// History lists previous imports, newest first.
func (s ImportService) History(ctx context.Context, limit int) ([]models.ImportBatch, error) {
	return s.BatchRepo.List(ctx, limit)
}
