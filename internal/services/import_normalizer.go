package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"craneorders/internal/domain/models"
	"craneorders/internal/utils"
)

// RawRow is one spreadsheet row keyed by its (untrusted) header text.
type RawRow map[string]string

type RowStatus string

const (
	RowImported RowStatus = "imported"
	RowSkipped  RowStatus = "skipped"
	RowFailed   RowStatus = "failed"
)

// ImportOptions control how lenient normalization is.
type ImportOptions struct {
	// StrictDates fails a row whose date cannot be parsed instead of using Now.
	StrictDates bool
	Now         func() time.Time
}

func (o ImportOptions) now() time.Time {
	if o.Now != nil {
		return o.Now().UTC()
	}
	return utils.NowUTC()
}

// RowResult is the outcome of normalizing one row. Order is set only when imported.
type RowResult struct {
	Row      int           `json:"row"`
	Status   RowStatus     `json:"status"`
	Order    *models.Order `json:"-"`
	Reason   string        `json:"reason,omitempty"`
	Warnings []string      `json:"warnings,omitempty"`
}

const (
	colOrderType      = "order_type"
	colAddedTime      = "added_time"
	colIPAddress      = "ip_address"
	colDateTime       = "date_time"
	colCustomer       = "customer_name"
	colPhone          = "phone"
	colCareOff        = "care_off"
	colCareOffAmount  = "care_off_amount"
	colAmountReceived = "amount_received"
	colAdvance        = "advance_amount"
	colDieselNote     = "diesel_note"
	colFirm           = "name_of_firm"
	colCompany        = "company_name"
	colCaseID         = "case_id_file_number"
	colDieselName     = "diesel_name"
	colReachTime      = "reach_time"
	colDropTime       = "drop_time"

	colTripFrom       = "trip_from"
	colTripTo         = "trip_to"
	colVehicleDetails = "vehicle_details"
	colDriver         = "driver"
	colVehicleName    = "vehicle_name"
	colVehicleNumber  = "vehicle_number"
	colServiceType    = "service_type"
	colTowingVehicle  = "towing_vehicle"
	colKms            = "kms_travelled"
	colToll           = "toll"
	colDiesel         = "diesel"
	colRefill         = "diesel_refill_location"
)

// columnSynonyms maps a field to the normalized header texts accepted for it.
var columnSynonyms = map[string][]string{
	colOrderType:      {"cash company", "cash or company", "order type", "type"},
	colAddedTime:      {"added time", "created at"},
	colIPAddress:      {"ip address", "ip"},
	colDateTime:       {"date time", "datetime", "date", "service date", "order date"},
	colCustomer:       {"customer name", "customer"},
	colPhone:          {"phone", "phone number", "mobile", "mobile number", "contact number"},
	colCareOff:        {"care off", "care of"},
	colCareOffAmount:  {"care off amount", "care of amount"},
	colAmountReceived: {"amount received", "amount"},
	colAdvance:        {"received advance amount", "advance amount", "advance"},
	colDieselNote:     {"diesel", "diesel note"},
	colFirm:           {"name of firm", "firm name", "firm", "diesel name of firm"},
	colCompany:        {"company name"},
	colCaseID:         {"case id file number", "case id", "file number", "case number"},
	colDieselName:     {"diesel name"},
	colReachTime:      {"reach time"},
	colDropTime:       {"drop time"},
}

// tripSynonyms are accepted with a "cash " or "company " prefix, and bare.
var tripSynonyms = map[string][]string{
	colTripFrom:       {"trip from"},
	colTripTo:         {"trip to"},
	colVehicleDetails: {"vehicle details"},
	colDriver:         {"driver name", "driver details", "driver"},
	colVehicleName:    {"vehicle name make model", "vehicle name", "vehicle make model"},
	colVehicleNumber:  {"vehicle number", "vehicle no"},
	colServiceType:    {"service type", "service"},
	colTowingVehicle:  {"towing vehicle"},
	colKms:            {"kms travelled", "km travelled", "kms", "distance km"},
	colToll:           {"toll"},
	colDiesel:         {"diesel cost", "fuel cost"},
	colRefill:         {"diesel re fill location", "diesel refill location"},
}

// prefixedOnly are trip fields whose bare header means something else.
var prefixedOnly = map[string][]string{
	colDiesel: {"cash diesel", "diesel cash diesel", "company diesel", "company diesel company diesel"},
}

var headerJunk = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeHeader lowercases and collapses punctuation so "Cash Trip From:" and
// "cash_trip_from" compare equal.
func NormalizeHeader(h string) string {
	return strings.TrimSpace(headerJunk.ReplaceAllString(strings.ToLower(h), " "))
}

// rowIndex holds a row's cells by normalized header.
type rowIndex map[string]string

func indexRow(raw RawRow) rowIndex {
	idx := rowIndex{}
	for k, v := range raw {
		nk := NormalizeHeader(k)
		if nk == "" {
			continue
		}
		// keep the populated cell when two headers normalize the same
		if prev, ok := idx[nk]; ok && !utils.IsNotApplicable(prev) {
			continue
		}
		idx[nk] = v
	}
	return idx
}

func (idx rowIndex) lookup(names []string) (string, bool) {
	for _, n := range names {
		if v, ok := idx[n]; ok && !utils.IsNotApplicable(v) {
			return v, true
		}
	}
	return "", false
}

func (idx rowIndex) text(field string) string {
	v, _ := idx.lookup(columnSynonyms[field])
	s, _ := utils.CleanText(v)
	return s
}

func (idx rowIndex) amount(field string) *float64 {
	v, _ := idx.lookup(columnSynonyms[field])
	return utils.CleanCurrency(v)
}

func tripNames(prefix, field string) []string {
	names := []string{}
	for _, s := range tripSynonyms[field] {
		names = append(names, prefix+" "+s)
	}
	for _, s := range prefixedOnly[field] {
		if strings.HasPrefix(s, prefix) || strings.HasPrefix(s, "diesel "+prefix) {
			names = append(names, s)
		}
	}
	return append(names, tripSynonyms[field]...)
}

func (idx rowIndex) tripText(prefix, field string) string {
	v, _ := idx.lookup(tripNames(prefix, field))
	s, _ := utils.CleanText(v)
	return s
}

func (idx rowIndex) tripAmount(prefix, field string) *float64 {
	v, _ := idx.lookup(tripNames(prefix, field))
	return utils.CleanCurrency(v)
}

func (idx rowIndex) trip(prefix string) models.TripDetails {
	vehicleDetails := idx.tripText(prefix, colVehicleDetails)
	return models.TripDetails{
		TripFrom:             idx.tripText(prefix, colTripFrom),
		TripTo:               idx.tripText(prefix, colTripTo),
		VehicleDetails:       vehicleDetails,
		VehicleName:          idx.tripText(prefix, colVehicleName),
		VehicleNumber:        idx.tripText(prefix, colVehicleNumber),
		ServiceType:          idx.tripText(prefix, colServiceType),
		DriverName:           idx.tripText(prefix, colDriver),
		TowingVehicle:        utils.FirstNonEmpty(idx.tripText(prefix, colTowingVehicle), vehicleDetails),
		KmsTravelled:         idx.tripAmount(prefix, colKms),
		Toll:                 idx.tripAmount(prefix, colToll),
		Diesel:               idx.tripAmount(prefix, colDiesel),
		DieselRefillLocation: idx.tripText(prefix, colRefill),
	}
}

// hasCompanyData reports whether any company-only column carries a value.
func (idx rowIndex) hasCompanyData() bool {
	if idx.text(colFirm) != "" || idx.text(colCompany) != "" || idx.text(colCaseID) != "" {
		return true
	}
	for _, f := range []string{colVehicleName, colVehicleNumber, colServiceType} {
		for _, s := range tripSynonyms[f] {
			if v, ok := idx.lookup([]string{"company " + s}); ok {
				if _, ok := utils.CleanText(v); ok {
					return true
				}
			}
		}
	}
	return false
}

// explicitOrderType reads the "Cash / Company" column. A cell naming both or
// neither counts as absent.
func (idx rowIndex) explicitOrderType() (models.OrderType, bool) {
	v := strings.ToLower(idx.text(colOrderType))
	hasCash, hasCompany := strings.Contains(v, "cash"), strings.Contains(v, "company")
	switch {
	case hasCompany && !hasCash:
		return models.OrderTypeCompany, true
	case hasCash && !hasCompany:
		return models.OrderTypeCash, true
	}
	return "", false
}

// NormalizeRow turns one spreadsheet row into an order. row is the sheet row
// number used in messages and in the generated customer name.
func NormalizeRow(raw RawRow, row int, opts ImportOptions) RowResult {
	res := RowResult{Row: row}
	idx := indexRow(raw)

	customerRaw, _ := idx.lookup(columnSynonyms[colCustomer])
	phoneRaw, _ := idx.lookup(columnSynonyms[colPhone])
	dateRaw, _ := idx.lookup(columnSynonyms[colDateTime])
	_, hasCustomer := utils.CleanText(customerRaw)
	_, hasPhone := utils.CleanText(phoneRaw)
	_, hasDate := utils.CleanText(dateRaw)
	if !hasCustomer && !hasPhone && !hasDate {
		res.Status = RowSkipped
		res.Reason = "blank row"
		return res
	}

	inferred := models.OrderTypeCash
	if idx.hasCompanyData() {
		inferred = models.OrderTypeCompany
	}
	orderType := inferred
	if explicit, ok := idx.explicitOrderType(); ok {
		orderType = explicit
		if explicit != inferred {
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"order type column says %s but company columns suggest %s; using %s", explicit, inferred, explicit))
		}
	}

	now := opts.now()
	dateTime, err := parseImportTime(dateRaw)
	if err != nil || !hasDate {
		if opts.StrictDates {
			res.Status = RowFailed
			res.Reason = fmt.Sprintf("invalid date_time %q", strings.TrimSpace(dateRaw))
			return res
		}
		dateTime = now
		res.Warnings = append(res.Warnings, fmt.Sprintf("date_time %q not recognized; using import time", strings.TrimSpace(dateRaw)))
	}

	customer := idx.text(colCustomer)
	if customer == "" {
		customer = fmt.Sprintf("Customer_%d", row)
	}
	phone, synthesized := utils.ExtractPhone(phoneRaw, customerRaw)
	if synthesized {
		res.Warnings = append(res.Warnings, "no phone number found; placeholder "+phone+" assigned")
	}

	var o models.Order
	switch orderType {
	case models.OrderTypeCompany:
		details := models.CompanyDetails{
			TripDetails:    idx.trip("company"),
			FirmName:       idx.text(colFirm),
			CompanyName:    idx.text(colCompany),
			CaseFileNumber: idx.text(colCaseID),
			DieselName:     idx.text(colDieselName),
		}
		details.ReachTime = idx.optionalTime(colReachTime, &res)
		details.DropTime = idx.optionalTime(colDropTime, &res)
		o = models.NewCompanyOrder(customer, phone, dateTime, details)
	default:
		o = models.NewCashOrder(customer, phone, dateTime, models.CashDetails{
			TripDetails:    idx.trip("cash"),
			CareOff:        idx.text(colCareOff),
			CareOffAmount:  idx.amount(colCareOffAmount),
			AmountReceived: idx.amount(colAmountReceived),
			AdvanceAmount:  idx.amount(colAdvance),
			DieselNote:     idx.text(colDieselNote),
		})
	}

	o.ID = uuid.NewString()
	o.UniqueID = uuid.NewString()
	o.AddedTime = now
	if v := idx.text(colAddedTime); v != "" {
		if t, err := parseImportTime(v); err == nil {
			o.AddedTime = t
		}
	}
	o.IPAddress = idx.text(colIPAddress)
	o.TruncateTimes()

	if err := o.Validate(); err != nil {
		res.Status = RowFailed
		res.Reason = err.Error()
		return res
	}

	res.Status = RowImported
	res.Order = &o
	return res
}

// optionalTime parses reach/drop times; a bad value is dropped with a warning.
func (idx rowIndex) optionalTime(field string, res *RowResult) *time.Time {
	v := idx.text(field)
	if v == "" {
		return nil
	}
	t, err := parseImportTime(v)
	if err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s %q not recognized; left empty", field, v))
		return nil
	}
	return &t
}

// parseImportTime accepts the text layouts and raw spreadsheet date serials.
func parseImportTime(s string) (time.Time, error) {
	t, err := utils.ParseFlexibleDateTime(s)
	if err == nil {
		return t, nil
	}
	serial, perr := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if perr != nil || serial < 1 || serial > 2958465 {
		return time.Time{}, err
	}
	t, xerr := excelize.ExcelDateToTime(serial, false)
	if xerr != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
