package models

import (
	"strings"
	"time"

	"craneorders/internal/domain"
)

type OrderType string

const (
	OrderTypeCash    OrderType = "cash"
	OrderTypeCompany OrderType = "company"
)

// AllOrderTypes lists every known order type in display order.
var AllOrderTypes = []OrderType{OrderTypeCash, OrderTypeCompany}

// ParseOrderType accepts "cash"/"company" in any casing.
func ParseOrderType(s string) (OrderType, bool) {
	switch OrderType(strings.ToLower(strings.TrimSpace(s))) {
	case OrderTypeCash:
		return OrderTypeCash, true
	case OrderTypeCompany:
		return OrderTypeCompany, true
	default:
		return "", false
	}
}

// Title returns the display form used in reports ("Cash", "Company").
func (t OrderType) Title() string {
	s := string(t)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// TripDetails are the job fields shared by cash and company orders.
type TripDetails struct {
	TripFrom             string   `json:"trip_from,omitempty"`
	TripTo               string   `json:"trip_to,omitempty"`
	VehicleDetails       string   `json:"vehicle_details,omitempty"`
	VehicleName          string   `json:"vehicle_name,omitempty"`
	VehicleNumber        string   `json:"vehicle_number,omitempty"`
	ServiceType          string   `json:"service_type,omitempty"`
	DriverName           string   `json:"driver_name,omitempty"`
	TowingVehicle        string   `json:"towing_vehicle,omitempty"`
	KmsTravelled         *float64 `json:"kms_travelled,omitempty"`
	Toll                 *float64 `json:"toll,omitempty"`
	Diesel               *float64 `json:"diesel,omitempty"`
	DieselRefillLocation string   `json:"diesel_refill_location,omitempty"`
}

// CashDetails is the payload of an order paid directly by the customer.
type CashDetails struct {
	TripDetails
	CareOff        string   `json:"care_off,omitempty"`
	CareOffAmount  *float64 `json:"care_off_amount,omitempty"`
	AmountReceived *float64 `json:"amount_received,omitempty"`
	AdvanceAmount  *float64 `json:"advance_amount,omitempty"`
	DieselNote     string   `json:"diesel_note,omitempty"`
}

// CompanyDetails is the payload of an order billed to an insurance/assistance company.
type CompanyDetails struct {
	TripDetails
	FirmName       string     `json:"name_of_firm,omitempty"`
	CompanyName    string     `json:"company_name,omitempty"`
	CaseFileNumber string     `json:"case_id_file_number,omitempty"`
	DieselName     string     `json:"diesel_name,omitempty"`
	ReachTime      *time.Time `json:"reach_time,omitempty"`
	DropTime       *time.Time `json:"drop_time,omitempty"`
}

// Incentive is an admin-assigned bonus attributed to the order's driver.
type Incentive struct {
	Amount  float64    `json:"amount"`
	Reason  string     `json:"reason,omitempty"`
	AddedBy string     `json:"added_by,omitempty"`
	AddedAt *time.Time `json:"added_at,omitempty"`
}

// Order is one towing job. Exactly one of Cash / Company is set, matching OrderType.
type Order struct {
	ID           string    `json:"id"`
	UniqueID     string    `json:"unique_id"`
	AddedTime    time.Time `json:"added_time"`
	IPAddress    string    `json:"ip_address,omitempty"`
	DateTime     time.Time `json:"date_time"`
	CustomerName string    `json:"customer_name"`
	Phone        string    `json:"phone"`
	OrderType    OrderType `json:"order_type"`

	Cash    *CashDetails    `json:"cash,omitempty"`
	Company *CompanyDetails `json:"company,omitempty"`

	Incentive *Incentive `json:"incentive,omitempty"`

	CreatedBy string     `json:"created_by,omitempty"`
	UpdatedBy string     `json:"updated_by,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// NewCashOrder builds a cash order around payload.
func NewCashOrder(customer, phone string, at time.Time, payload CashDetails) Order {
	return Order{
		CustomerName: customer,
		Phone:        phone,
		DateTime:     at,
		OrderType:    OrderTypeCash,
		Cash:         &payload,
	}
}

// NewCompanyOrder builds a company order around payload.
func NewCompanyOrder(customer, phone string, at time.Time, payload CompanyDetails) Order {
	return Order{
		CustomerName: customer,
		Phone:        phone,
		DateTime:     at,
		OrderType:    OrderTypeCompany,
		Company:      &payload,
	}
}

// Trip returns the shared trip fields of the active payload, or nil.
func (o Order) Trip() *TripDetails {
	switch o.OrderType {
	case OrderTypeCash:
		if o.Cash != nil {
			return &o.Cash.TripDetails
		}
	case OrderTypeCompany:
		if o.Company != nil {
			return &o.Company.TripDetails
		}
	}
	return nil
}

func (o Order) DriverName() string {
	if t := o.Trip(); t != nil {
		return strings.TrimSpace(t.DriverName)
	}
	return ""
}

func (o Order) TowingVehicle() string {
	if t := o.Trip(); t != nil {
		return strings.TrimSpace(t.TowingVehicle)
	}
	return ""
}

func (o Order) ServiceType() string {
	if t := o.Trip(); t != nil {
		return strings.TrimSpace(t.ServiceType)
	}
	return ""
}

func (o Order) VehicleName() string {
	if t := o.Trip(); t != nil {
		return strings.TrimSpace(t.VehicleName)
	}
	return ""
}

// FirmName is empty for cash orders.
func (o Order) FirmName() string {
	if o.OrderType == OrderTypeCompany && o.Company != nil {
		return strings.TrimSpace(o.Company.FirmName)
	}
	return ""
}

// CompanyName is empty for cash orders.
func (o Order) CompanyName() string {
	if o.OrderType == OrderTypeCompany && o.Company != nil {
		return strings.TrimSpace(o.Company.CompanyName)
	}
	return ""
}

// Kms is the recorded distance, 0 when absent.
func (o Order) Kms() float64 {
	if t := o.Trip(); t != nil {
		return Value(t.KmsTravelled)
	}
	return 0
}

// Expense is fuel plus toll of the active payload.
func (o Order) Expense() float64 {
	if t := o.Trip(); t != nil {
		return Value(t.Diesel) + Value(t.Toll)
	}
	return 0
}

// AmountReceived is the cash collected; 0 for company orders.
func (o Order) AmountReceived() float64 {
	if o.OrderType == OrderTypeCash && o.Cash != nil {
		return Value(o.Cash.AmountReceived)
	}
	return 0
}

func (o Order) IncentiveAmount() float64 {
	if o.Incentive == nil {
		return 0
	}
	return o.Incentive.Amount
}

// TruncateTimes drops sub-second precision from the order's own timestamps
// so the value handed back matches what storage keeps.
func (o *Order) TruncateTimes() {
	o.AddedTime = o.AddedTime.UTC().Truncate(time.Second)
	o.DateTime = o.DateTime.UTC().Truncate(time.Second)
}

// Validate checks the field rules for creation and update.
func (o Order) Validate() error {
	if strings.TrimSpace(o.CustomerName) == "" {
		return domain.ValidationError{Field: "customer_name", Msg: "is required"}
	}
	if strings.TrimSpace(o.Phone) == "" {
		return domain.ValidationError{Field: "phone", Msg: "is required"}
	}
	switch o.OrderType {
	case OrderTypeCash:
		if o.Cash == nil || o.Company != nil {
			return domain.ValidationError{Field: "order_type", Msg: "cash order must carry only cash details"}
		}
	case OrderTypeCompany:
		if o.Company == nil || o.Cash != nil {
			return domain.ValidationError{Field: "order_type", Msg: "company order must carry only company details"}
		}
		required := []struct {
			field string
			value string
		}{
			{"company_name", o.Company.CompanyName},
			{"company_service_type", o.Company.ServiceType},
			{"company_driver_name", o.Company.DriverName},
			{"company_towing_vehicle", o.Company.TowingVehicle},
		}
		for _, r := range required {
			if strings.TrimSpace(r.value) == "" {
				return domain.ValidationError{Field: r.field, Msg: "is required for company orders"}
			}
		}
	default:
		return domain.ValidationError{Field: "order_type", Msg: "must be cash or company"}
	}
	if o.Incentive != nil && o.Incentive.Amount < 0 {
		return domain.ValidationError{Field: "incentive_amount", Msg: "must not be negative"}
	}
	return nil
}

// Value dereferences an optional amount, treating "no value" as 0.
func Value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
