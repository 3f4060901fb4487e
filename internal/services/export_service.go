package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/xuri/excelize/v2"

	"craneorders/internal/domain"
	"craneorders/internal/domain/models"
	"craneorders/internal/repositories"
	"craneorders/internal/utils"
)

type ExportFormat string

const (
	FormatXLSX ExportFormat = "xlsx"
	FormatPDF  ExportFormat = "pdf"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

// ParseExportFormat accepts xlsx/excel and pdf. Empty means no file export.
func ParseExportFormat(s string) (ExportFormat, bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return "", false, nil
	case "xlsx", "excel":
		return FormatXLSX, true, nil
	case "pdf":
		return FormatPDF, true, nil
	}
	return "", false, domain.ValidationError{Field: "format", Msg: "must be xlsx or pdf"}
}

type ColumnKind int

const (
	KindText ColumnKind = iota
	KindNumber
	KindMoney
)

type Column struct {
	Header string
	Kind   ColumnKind
	Width  float64
}

// TableExport describes one table; XLSX and PDF render the same definition.
type TableExport struct {
	Title    string
	Subtitle string
	Columns  []Column
	Rows     [][]any
	Totals   []any
}

func NewTableExport(title string) *TableExport {
	return &TableExport{Title: title}
}

func (t *TableExport) WithSubtitle(s string) *TableExport {
	t.Subtitle = s
	return t
}

func (t *TableExport) Text(header string, width float64) *TableExport {
	t.Columns = append(t.Columns, Column{Header: header, Kind: KindText, Width: width})
	return t
}

func (t *TableExport) Number(header string, width float64) *TableExport {
	t.Columns = append(t.Columns, Column{Header: header, Kind: KindNumber, Width: width})
	return t
}

func (t *TableExport) Money(header string, width float64) *TableExport {
	t.Columns = append(t.Columns, Column{Header: header, Kind: KindMoney, Width: width})
	return t
}

// Row appends one line; missing trailing cells render empty.
func (t *TableExport) Row(values ...any) *TableExport {
	t.Rows = append(t.Rows, values)
	return t
}

func (t *TableExport) WithTotals(values ...any) *TableExport {
	t.Totals = values
	return t
}

// Render produces the file bytes, content type and extension for f.
func (t *TableExport) Render(f ExportFormat) ([]byte, string, error) {
	switch f {
	case FormatXLSX:
		b, err := t.XLSX()
		return b, ContentTypeXLSX, err
	case FormatPDF:
		b, err := t.PDF()
		return b, ContentTypePDF, err
	}
	return nil, "", domain.ValidationError{Field: "format", Msg: "must be xlsx or pdf"}
}

func cellAt(row []any, i int) any {
	if i < len(row) {
		return row[i]
	}
	return nil
}

func (t *TableExport) xlsxValue(c Column, v any) any {
	switch x := v.(type) {
	case nil:
		return ""
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return utils.FormatDateTime(x)
	case *float64:
		if x == nil {
			return ""
		}
		return *x
	}
	return v
}

func (t *TableExport) textValue(c Column, v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return utils.FormatDateTime(x)
	case *float64:
		if x == nil {
			return ""
		}
		return t.textValue(c, *x)
	case float64:
		if c.Kind == KindMoney {
			return utils.FormatRupees(x)
		}
		return strings.TrimSuffix(fmt.Sprintf("%.2f", x), ".00")
	case int:
		return fmt.Sprint(x)
	}
	return fmt.Sprint(v)
}

const exportSheet = "Report"

// XLSX writes a single sheet: title, optional subtitle, a styled frozen header
// row, data rows and an optional totals row.
func (t *TableExport) XLSX() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"1F4E78"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	moneyStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 4})
	totalStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: 4})

	_ = f.SetCellValue(exportSheet, "A1", t.Title)
	_ = f.SetCellStyle(exportSheet, "A1", "A1", titleStyle)
	if t.Subtitle != "" {
		_ = f.SetCellValue(exportSheet, "A2", t.Subtitle)
	}

	const headerRow = 3
	for i, c := range t.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		_ = f.SetCellValue(exportSheet, cell, c.Header)
		col, _ := excelize.ColumnNumberToName(i + 1)
		width := c.Width
		if width <= 0 {
			width = 14
		}
		_ = f.SetColWidth(exportSheet, col, col, width)
	}
	if len(t.Columns) > 0 {
		first, _ := excelize.CoordinatesToCellName(1, headerRow)
		last, _ := excelize.CoordinatesToCellName(len(t.Columns), headerRow)
		_ = f.SetCellStyle(exportSheet, first, last, headerStyle)
	}

	r := headerRow + 1
	for _, row := range t.Rows {
		for i, c := range t.Columns {
			cell, _ := excelize.CoordinatesToCellName(i+1, r)
			_ = f.SetCellValue(exportSheet, cell, t.xlsxValue(c, cellAt(row, i)))
			if c.Kind == KindMoney {
				_ = f.SetCellStyle(exportSheet, cell, cell, moneyStyle)
			}
		}
		r++
	}
	if len(t.Totals) > 0 {
		for i, c := range t.Columns {
			cell, _ := excelize.CoordinatesToCellName(i+1, r)
			_ = f.SetCellValue(exportSheet, cell, t.xlsxValue(c, cellAt(t.Totals, i)))
			_ = f.SetCellStyle(exportSheet, cell, cell, totalStyle)
		}
	}

	_ = f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: fmt.Sprintf("A%d", headerRow+1),
		ActivePane:  "bottomLeft",
	})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PDF renders landscape A4; the header row repeats on every page.
func (t *TableExport) PDF() ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(t.Title, false)
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(false, 10)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pageW, pageH := pdf.GetPageSize()
	usable := pageW - 20
	widths := pdfWidths(t.Columns, usable)
	const rowH = 6.0

	header := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(31, 78, 120)
		pdf.SetTextColor(255, 255, 255)
		for i, c := range t.Columns {
			pdf.CellFormat(widths[i], rowH+1, tr(fitText(pdf, c.Header, widths[i])), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 8)
	}
	line := func(row []any, total bool) {
		if pdf.GetY()+rowH > pageH-15 {
			pdf.AddPage()
			header()
		}
		if total {
			pdf.SetFont("Helvetica", "B", 8)
			pdf.SetFillColor(230, 230, 230)
		}
		for i, c := range t.Columns {
			align := "L"
			if c.Kind != KindText {
				align = "R"
			}
			txt := t.textValue(c, cellAt(row, i))
			pdf.CellFormat(widths[i], rowH, tr(fitText(pdf, txt, widths[i])), "1", 0, align, total, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, tr(t.Title))
	pdf.Ln(8)
	if t.Subtitle != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(0, 6, tr(t.Subtitle))
		pdf.Ln(6)
	}
	pdf.SetFont("Helvetica", "I", 8)
	pdf.Cell(0, 5, "Generated "+utils.FormatDateTime(utils.NowUTC())+" UTC")
	pdf.Ln(7)

	header()
	for _, row := range t.Rows {
		line(row, false)
	}
	if len(t.Totals) > 0 {
		line(t.Totals, true)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func pdfWidths(cols []Column, usable float64) []float64 {
	total := 0.0
	for _, c := range cols {
		total += columnWidth(c)
	}
	out := make([]float64, len(cols))
	for i, c := range cols {
		out[i] = usable * columnWidth(c) / total
	}
	return out
}

func columnWidth(c Column) float64 {
	if c.Width > 0 {
		return c.Width
	}
	return 14
}

// fitText shortens s until it fits the cell.
func fitText(pdf *gofpdf.Fpdf, s string, width float64) string {
	limit := width - 2
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"..") > limit {
		r = r[:len(r)-1]
	}
	return string(r) + ".."
}

// dimensionHeader turns "towing_vehicle" into "Towing Vehicle".
func dimensionHeader(d models.Dimension) string {
	words := strings.Fields(strings.ReplaceAll(string(d), "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// ReportTable lays out a report; detailed reports list every order line.
func ReportTable(rep models.Report) *TableExport {
	subtitle := fmt.Sprintf("%s to %s", utils.FormatDate(rep.Range.Start), utils.FormatDate(rep.Range.End))
	if rep.Range.HalfOpen {
		subtitle = fmt.Sprintf("%s to %s", utils.FormatDate(rep.Range.Start), utils.FormatDate(rep.Range.End.Add(-time.Nanosecond)))
	}
	groupHeader := dimensionHeader(rep.Dimension)
	t := NewTableExport(rep.Title).WithSubtitle(subtitle).
		Text(groupHeader, 28).
		Number("Cash", 10).
		Number("Company", 10).
		Number("Orders", 10).
		Money("Revenue", 18).
		Money("Expense", 18).
		Money("Incentive", 16).
		Money("Net Profit", 18)
	for _, g := range rep.Groups {
		t.Row(g.Group, g.CashOrders, g.CompanyOrders, g.TotalOrders, g.TotalRevenue, g.TotalExpense, g.TotalIncentive, g.NetProfit)
	}
	s := rep.Summary
	return t.WithTotals("TOTAL", s.CashOrders, s.CompanyOrders, s.TotalOrders, s.TotalRevenue, s.TotalExpense, s.TotalIncentive, s.NetProfit)
}

// ReportDetailTable flattens the line items of a detailed report.
func ReportDetailTable(rep models.Report) *TableExport {
	groupHeader := dimensionHeader(rep.Dimension)
	t := NewTableExport(rep.Title+" (detail)").
		Text(groupHeader, 24).
		Text("Date", 18).
		Text("Customer", 24).
		Text("Phone", 14).
		Text("Type", 10).
		Money("Revenue", 16).
		Money("Expense", 16)
	for _, g := range rep.Groups {
		for _, l := range g.Orders {
			t.Row(g.Group, l.DateTime, l.CustomerName, l.Phone, l.OrderType.Title(), l.Revenue, l.Expense)
		}
	}
	s := rep.Summary
	return t.WithTotals("TOTAL", "", "", "", "", s.TotalRevenue, s.TotalExpense)
}

// OrdersTable lists orders with their computed revenue.
func OrdersTable(title string, orders []models.Order, rates models.RateTable) *TableExport {
	t := NewTableExport(title).WithSubtitle(fmt.Sprintf("%d orders", len(orders))).
		Text("Date", 18).
		Text("Customer", 22).
		Text("Phone", 13).
		Text("Type", 9).
		Text("Driver", 16).
		Text("Towing Vehicle", 16).
		Text("Service", 14).
		Text("Firm", 16).
		Text("Company", 16).
		Number("Kms", 8).
		Money("Revenue", 14).
		Money("Expense", 14).
		Money("Incentive", 12)

	var revenue, expense, incentive float64
	for _, o := range orders {
		fin := CalculateFinancials(o, rates)
		var kms *float64
		if tr := o.Trip(); tr != nil {
			kms = tr.KmsTravelled
		}
		t.Row(o.DateTime, o.CustomerName, o.Phone, o.OrderType.Title(), o.DriverName(), o.TowingVehicle(),
			o.ServiceType(), o.FirmName(), o.CompanyName(), kms, fin.TotalRevenue, o.Expense(), fin.IncentiveAmount)
		revenue += fin.TotalRevenue
		expense += o.Expense()
		incentive += fin.IncentiveAmount
	}
	return t.WithTotals("TOTAL", "", "", "", "", "", "", "", "", nil,
		utils.RoundMoney(revenue), utils.RoundMoney(expense), utils.RoundMoney(incentive))
}

type ExportService struct {
	OrderRepo repositories.OrderRepository
	RateRepo  repositories.RateRepository
	RequestID string
}

// Orders exports the filtered order list.
func (s ExportService) Orders(ctx context.Context, f repositories.OrderFilter, format ExportFormat) ([]byte, string, string, error) {
	if f.Limit <= 0 {
		f.Limit = 1000
	}
	orders, err := s.OrderRepo.List(ctx, f)
	if err != nil {
		return nil, "", "", err
	}
	rates, err := s.RateRepo.Table(ctx)
	if err != nil {
		return nil, "", "", err
	}
	b, ctype, err := OrdersTable("Crane Orders", orders, rates).Render(format)
	if err != nil {
		return nil, "", "", err
	}
	name := fmt.Sprintf("crane_orders_%s.%s", utils.NowUTC().Format("20060102_150405"), format)
	utils.LogEvent(s.RequestID, "export", string(format), fmt.Sprintf("orders=%d bytes=%d", len(orders), len(b)))
	return b, ctype, name, nil
}

// Report renders a report result; detailed reports use the line-item layout.
func (s ExportService) Report(rep models.Report, detailed bool, format ExportFormat) ([]byte, string, string, error) {
	t := ReportTable(rep)
	if detailed {
		t = ReportDetailTable(rep)
	}
	b, ctype, err := t.Render(format)
	if err != nil {
		return nil, "", "", err
	}
	name := fmt.Sprintf("%s_%s.%s", utils.SafeFilenamePart(string(rep.Dimension)+"_report"), utils.NowUTC().Format("20060102_150405"), format)
	return b, ctype, name, nil
}
