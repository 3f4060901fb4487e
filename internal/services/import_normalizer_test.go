package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"craneorders/internal/domain/models"
)

var importNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func strictOpts() ImportOptions {
	return ImportOptions{StrictDates: true, Now: func() time.Time { return importNow }}
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "cash trip from", NormalizeHeader("  Cash Trip-From: "))
	assert.Equal(t, "cash trip from", NormalizeHeader("cash_trip_from"))
	assert.Equal(t, "vehicle name make model", NormalizeHeader("Vehicle Name (Make/Model)"))
}

func TestNormalizeRowCashWithSentinels(t *testing.T) {
	raw := RawRow{
		"Cash / Company":       "Cash",
		"Date & Time":          "2024-12-05 14:30:00",
		"Customer Name":        "Suresh",
		"Phone":                "+91 98765-43210",
		"Amount Received":      "₹ 1,200.00",
		"Received Advance":     "x",
		"Cash Trip From":       "Chennai",
		"Cash Driver Details":  "Ravi",
		"Cash Vehicle Details": "TN 09 AB 1234",
		"Cash Toll":            "NA",
		"Cash Diesel":          "450",
	}

	res := NormalizeRow(raw, 2, strictOpts())

	require.Equal(t, RowImported, res.Status, res.Reason)
	o := res.Order
	require.NotNil(t, o)
	require.NotNil(t, o.Cash)
	assert.Nil(t, o.Company)
	assert.Equal(t, models.OrderTypeCash, o.OrderType)
	assert.Equal(t, "Suresh", o.CustomerName)
	assert.Equal(t, "9876543210", o.Phone)
	assert.Equal(t, time.Date(2024, 12, 5, 14, 30, 0, 0, time.UTC), o.DateTime)
	require.NotNil(t, o.Cash.AmountReceived)
	assert.Equal(t, 1200.0, *o.Cash.AmountReceived)
	assert.Nil(t, o.Cash.Toll)
	require.NotNil(t, o.Cash.Diesel)
	assert.Equal(t, 450.0, *o.Cash.Diesel)
	assert.Equal(t, "Ravi", o.Cash.DriverName)
	assert.Equal(t, "TN 09 AB 1234", o.Cash.TowingVehicle)
	assert.Equal(t, "Chennai", o.Cash.TripFrom)
	assert.Equal(t, importNow, o.AddedTime)
	assert.NotEmpty(t, o.ID)
	assert.Empty(t, res.Warnings)
}

func companyRaw() RawRow {
	return RawRow{
		"Date":                   "05/12/2024",
		"Customer Name":          "Anita",
		"Phone":                  "9123456789",
		"Name of Firm":           "Acme",
		"Company Name":           "InsureCo",
		"Case ID / File Number":  "CASE-1",
		"Company Service Type":   "Towing",
		"Company Driver Details": "Ravi",
		"Company Towing Vehicle": "TN01",
		"Company KMs Travelled":  "55",
		"Company Diesel":         "300",
		"Reach Time":             "2024-12-05T10:00:00",
	}
}

func TestNormalizeRowInfersCompany(t *testing.T) {
	res := NormalizeRow(companyRaw(), 3, strictOpts())

	require.Equal(t, RowImported, res.Status, res.Reason)
	o := res.Order
	require.NotNil(t, o.Company)
	assert.Nil(t, o.Cash)
	assert.Equal(t, "Acme", o.Company.FirmName)
	assert.Equal(t, "InsureCo", o.Company.CompanyName)
	assert.Equal(t, "CASE-1", o.Company.CaseFileNumber)
	assert.Equal(t, "Towing", o.Company.ServiceType)
	assert.Equal(t, 55.0, o.Kms())
	assert.Equal(t, 300.0, o.Expense())
	require.NotNil(t, o.Company.ReachTime)
	assert.Nil(t, o.Company.DropTime)
	assert.Equal(t, time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC), o.DateTime)
}

func TestNormalizeRowExplicitTypeWinsWithWarning(t *testing.T) {
	raw := companyRaw()
	raw["Cash / Company"] = "Cash"

	res := NormalizeRow(raw, 4, strictOpts())

	require.Equal(t, RowImported, res.Status, res.Reason)
	assert.Equal(t, models.OrderTypeCash, res.Order.OrderType)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "using cash")
}

func TestNormalizeRowBlankIsSkipped(t *testing.T) {
	res := NormalizeRow(RawRow{"Customer Name": "  ", "Phone": "NA", "Date": "", "Cash Toll": "20"}, 5, strictOpts())
	assert.Equal(t, RowSkipped, res.Status)
	assert.Nil(t, res.Order)
}

func TestNormalizeRowStrictDateFails(t *testing.T) {
	raw := RawRow{"Customer Name": "Bala", "Phone": "9123456789", "Date": "sometime"}

	res := NormalizeRow(raw, 6, strictOpts())

	assert.Equal(t, RowFailed, res.Status)
	assert.Contains(t, res.Reason, "sometime")
}

func TestNormalizeRowLenientDateUsesNow(t *testing.T) {
	raw := RawRow{"Customer Name": "Bala", "Phone": "9123456789", "Date": "sometime"}

	res := NormalizeRow(raw, 6, ImportOptions{Now: func() time.Time { return importNow }})

	require.Equal(t, RowImported, res.Status, res.Reason)
	assert.Equal(t, importNow, res.Order.DateTime)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "using import time")
}

func TestNormalizeRowGeneratedCustomerAndPhone(t *testing.T) {
	raw := RawRow{"Date": "2024-12-05", "Amount": "500"}

	res := NormalizeRow(raw, 7, strictOpts())

	require.Equal(t, RowImported, res.Status, res.Reason)
	assert.Equal(t, "Customer_7", res.Order.CustomerName)
	assert.Regexp(t, `^9999\d{6}$`, res.Order.Phone)
	assert.NotEmpty(t, res.Warnings)
}

func TestNormalizeRowPhoneFromCustomerName(t *testing.T) {
	raw := RawRow{"Date": "2024-12-05", "Customer": "Kumar 9988776655"}

	res := NormalizeRow(raw, 8, strictOpts())

	require.Equal(t, RowImported, res.Status, res.Reason)
	assert.Equal(t, "9988776655", res.Order.Phone)
}

func TestNormalizeRowCompanyMissingMandatoryFails(t *testing.T) {
	raw := companyRaw()
	delete(raw, "Company Towing Vehicle")

	res := NormalizeRow(raw, 9, strictOpts())

	assert.Equal(t, RowFailed, res.Status)
	assert.Contains(t, res.Reason, "company_towing_vehicle")
}

func TestParseImportTimeExcelSerial(t *testing.T) {
	got, err := parseImportTime("45631")
	require.NoError(t, err)
	assert.Equal(t, "2024-12-05", got.Format("2006-01-02"))

	_, err = parseImportTime("not a date")
	assert.Error(t, err)
}
