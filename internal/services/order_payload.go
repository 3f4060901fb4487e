package services

import (
	"strings"
	"time"

	"craneorders/internal/domain"
	"craneorders/internal/domain/models"
	"craneorders/internal/utils"
)

// OrderPayload is the flat create/update body used by the data-entry screen.
// Nil fields are "not supplied"; on update only supplied fields change.
type OrderPayload struct {
	CustomerName *string `json:"customer_name"`
	Phone        *string `json:"phone"`
	OrderType    *string `json:"order_type"`
	DateTime     *string `json:"date_time"`
	IPAddress    *string `json:"ip_address"`

	CashTripFrom       *string  `json:"cash_trip_from"`
	CashTripTo         *string  `json:"cash_trip_to"`
	CareOff            *string  `json:"care_off"`
	CareOffAmount      *float64 `json:"care_off_amount"`
	CashVehicleDetails *string  `json:"cash_vehicle_details"`
	CashDriverDetails  *string  `json:"cash_driver_details"`
	CashDriverName     *string  `json:"cash_driver_name"`
	CashTowingVehicle  *string  `json:"cash_towing_vehicle"`
	CashVehicleName    *string  `json:"cash_vehicle_name"`
	CashVehicleNumber  *string  `json:"cash_vehicle_number"`
	CashServiceType    *string  `json:"cash_service_type"`
	AmountReceived     *float64 `json:"amount_received"`
	AdvanceAmount      *float64 `json:"advance_amount"`
	CashKmsTravelled   *float64 `json:"cash_kms_travelled"`
	CashToll           *float64 `json:"cash_toll"`
	Diesel             *string  `json:"diesel"`
	CashDiesel         *float64 `json:"cash_diesel"`
	CashDieselRefill   *string  `json:"cash_diesel_refill_location"`

	NameOfFirm            *string  `json:"name_of_firm"`
	CompanyName           *string  `json:"company_name"`
	CaseIDFileNumber      *string  `json:"case_id_file_number"`
	CompanyVehicleName    *string  `json:"company_vehicle_name"`
	CompanyVehicleNumber  *string  `json:"company_vehicle_number"`
	CompanyServiceType    *string  `json:"company_service_type"`
	CompanyVehicleDetails *string  `json:"company_vehicle_details"`
	CompanyDriverDetails  *string  `json:"company_driver_details"`
	CompanyDriverName     *string  `json:"company_driver_name"`
	CompanyTowingVehicle  *string  `json:"company_towing_vehicle"`
	CompanyTripFrom       *string  `json:"company_trip_from"`
	CompanyTripTo         *string  `json:"company_trip_to"`
	ReachTime             *string  `json:"reach_time"`
	DropTime              *string  `json:"drop_time"`
	CompanyKmsTravelled   *float64 `json:"company_kms_travelled"`
	CompanyToll           *float64 `json:"company_toll"`
	DieselName            *string  `json:"diesel_name"`
	CompanyDiesel         *float64 `json:"company_diesel"`
	CompanyDieselRefill   *string  `json:"company_diesel_refill_location"`
}

// tripPatch is the prefixed trip block of one order type.
type tripPatch struct {
	from, to, vehicleDetails, driverDetails, driverName, towing *string
	vehicleName, vehicleNumber, serviceType, refill             *string
	kms, toll, diesel                                           *float64
}

func (p OrderPayload) cashTrip() tripPatch {
	return tripPatch{
		from: p.CashTripFrom, to: p.CashTripTo, vehicleDetails: p.CashVehicleDetails,
		driverDetails: p.CashDriverDetails, driverName: p.CashDriverName, towing: p.CashTowingVehicle,
		vehicleName: p.CashVehicleName, vehicleNumber: p.CashVehicleNumber, serviceType: p.CashServiceType,
		refill: p.CashDieselRefill, kms: p.CashKmsTravelled, toll: p.CashToll, diesel: p.CashDiesel,
	}
}

func (p OrderPayload) companyTrip() tripPatch {
	return tripPatch{
		from: p.CompanyTripFrom, to: p.CompanyTripTo, vehicleDetails: p.CompanyVehicleDetails,
		driverDetails: p.CompanyDriverDetails, driverName: p.CompanyDriverName, towing: p.CompanyTowingVehicle,
		vehicleName: p.CompanyVehicleName, vehicleNumber: p.CompanyVehicleNumber, serviceType: p.CompanyServiceType,
		refill: p.CompanyDieselRefill, kms: p.CompanyKmsTravelled, toll: p.CompanyToll, diesel: p.CompanyDiesel,
	}
}

func (tp tripPatch) apply(t *models.TripDetails) {
	setText(&t.TripFrom, tp.from)
	setText(&t.TripTo, tp.to)
	setText(&t.VehicleDetails, tp.vehicleDetails)
	setText(&t.DriverName, tp.driverDetails)
	setText(&t.DriverName, tp.driverName)
	setText(&t.TowingVehicle, tp.towing)
	setText(&t.VehicleName, tp.vehicleName)
	setText(&t.VehicleNumber, tp.vehicleNumber)
	setText(&t.ServiceType, tp.serviceType)
	setText(&t.DieselRefillLocation, tp.refill)
	setAmount(&t.KmsTravelled, tp.kms)
	setAmount(&t.Toll, tp.toll)
	setAmount(&t.Diesel, tp.diesel)
	if t.TowingVehicle == "" {
		t.TowingVehicle = t.VehicleDetails
	}
}

func setText(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setAmount(dst **float64, v *float64) {
	if v != nil {
		f := *v
		*dst = &f
	}
}

func setTime(dst **time.Time, v *string, field string) error {
	if v == nil {
		return nil
	}
	if strings.TrimSpace(*v) == "" {
		*dst = nil
		return nil
	}
	t, err := utils.ParseFlexibleDateTime(*v)
	if err != nil {
		return domain.ValidationError{Field: field, Msg: "unrecognized date/time"}
	}
	*dst = &t
	return nil
}

// ApplyTo merges the supplied fields into o. A changed order_type moves the
// shared trip fields to the new payload and drops the old type's own fields.
func (p OrderPayload) ApplyTo(o *models.Order) error {
	if p.OrderType != nil {
		t, ok := models.ParseOrderType(*p.OrderType)
		if !ok {
			return domain.ValidationError{Field: "order_type", Msg: "must be cash or company"}
		}
		switchOrderType(o, t)
	}
	setText(&o.CustomerName, p.CustomerName)
	setText(&o.Phone, p.Phone)
	setText(&o.IPAddress, p.IPAddress)
	if p.DateTime != nil && strings.TrimSpace(*p.DateTime) != "" {
		t, err := utils.ParseFlexibleDateTime(*p.DateTime)
		if err != nil {
			return domain.ValidationError{Field: "date_time", Msg: "unrecognized date/time"}
		}
		o.DateTime = t
	}

	switch o.OrderType {
	case models.OrderTypeCash:
		if o.Cash == nil {
			o.Cash = &models.CashDetails{}
		}
		c := o.Cash
		p.cashTrip().apply(&c.TripDetails)
		setText(&c.CareOff, p.CareOff)
		setAmount(&c.CareOffAmount, p.CareOffAmount)
		setAmount(&c.AmountReceived, p.AmountReceived)
		setAmount(&c.AdvanceAmount, p.AdvanceAmount)
		setText(&c.DieselNote, p.Diesel)
	case models.OrderTypeCompany:
		if o.Company == nil {
			o.Company = &models.CompanyDetails{}
		}
		c := o.Company
		p.companyTrip().apply(&c.TripDetails)
		setText(&c.FirmName, p.NameOfFirm)
		setText(&c.CompanyName, p.CompanyName)
		setText(&c.CaseFileNumber, p.CaseIDFileNumber)
		setText(&c.DieselName, p.DieselName)
		if err := setTime(&c.ReachTime, p.ReachTime, "reach_time"); err != nil {
			return err
		}
		if err := setTime(&c.DropTime, p.DropTime, "drop_time"); err != nil {
			return err
		}
	}
	return nil
}

func switchOrderType(o *models.Order, t models.OrderType) {
	if o.OrderType == t && o.Trip() != nil {
		return
	}
	var trip models.TripDetails
	if cur := o.Trip(); cur != nil {
		trip = *cur
	}
	o.OrderType = t
	o.Cash, o.Company = nil, nil
	switch t {
	case models.OrderTypeCash:
		o.Cash = &models.CashDetails{TripDetails: trip}
	case models.OrderTypeCompany:
		o.Company = &models.CompanyDetails{TripDetails: trip}
	}
}
