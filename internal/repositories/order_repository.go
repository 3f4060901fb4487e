package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	intconfig "craneorders/internal/config"
	intdb "craneorders/internal/db"
	"craneorders/internal/domain"
	"craneorders/internal/domain/models"
)

// orderColumns is the flat storage layout; both payloads share one row.
var orderColumns = []string{
	"id", "unique_id", "added_time", "ip_address", "date_time", "customer_name", "phone", "order_type",
	"trip_from", "trip_to", "vehicle_details", "vehicle_name", "vehicle_number", "service_type",
	"driver_name", "towing_vehicle", "kms_travelled", "toll", "diesel", "diesel_refill_location",
	"care_off", "care_off_amount", "amount_received", "advance_amount", "diesel_note",
	"name_of_firm", "company_name", "case_id_file_number", "diesel_name", "reach_time", "drop_time",
	"incentive_amount", "incentive_reason", "incentive_added_by", "incentive_added_at",
	"created_by", "updated_by", "updated_at",
}

type OrderFilter struct {
	OrderType    models.OrderType
	CustomerName string
	Phone        string
	Limit        int
	Skip         int
}

type OrderRepository struct {
	DB *sql.DB
}

func (r OrderRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r OrderRepository) Insert(ctx context.Context, o models.Order) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(orderColumns)), ",")
	query := `INSERT INTO orders (` + strings.Join(orderColumns, ",") + `) VALUES (` + placeholders + `)`
	if _, err := r.db().ExecContext(ctx, query, orderArgs(o)...); err != nil {
		if intdb.IsDuplicateKey(err) {
			return domain.ConflictError{Resource: "order", Msg: "id already exists", Err: err}
		}
		return err
	}
	return nil
}

// Update rewrites every column of the row; the caller merges the patch first.
func (r OrderRepository) Update(ctx context.Context, o models.Order) error {
	sets := make([]string, 0, len(orderColumns)-1)
	for _, c := range orderColumns[1:] {
		sets = append(sets, c+"=?")
	}
	args := append(orderArgs(o)[1:], o.ID)
	res, err := r.db().ExecContext(ctx, `UPDATE orders SET `+strings.Join(sets, ",")+` WHERE id=?`, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, o.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r OrderRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db().ExecContext(ctx, `DELETE FROM orders WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "order"}
	}
	return nil
}

func (r OrderRepository) GetByID(ctx context.Context, id string) (models.Order, error) {
	row := r.db().QueryRowContext(ctx, `SELECT `+strings.Join(orderColumns, ",")+` FROM orders WHERE id=? LIMIT 1`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, domain.NotFoundError{Resource: "order", Err: err}
	}
	return o, err
}

// List returns orders newest first, filtered like the data-entry screen.
func (r OrderRepository) List(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	where := []string{"1=1"}
	args := []any{}
	if f.OrderType != "" {
		where = append(where, "order_type=?")
		args = append(args, string(f.OrderType))
	}
	if s := strings.TrimSpace(f.CustomerName); s != "" {
		where = append(where, "customer_name LIKE ?")
		args = append(args, "%"+s+"%")
	}
	if s := strings.TrimSpace(f.Phone); s != "" {
		where = append(where, "phone LIKE ?")
		args = append(args, "%"+s+"%")
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit, f.Skip)

	query := fmt.Sprintf(`SELECT %s FROM orders WHERE %s ORDER BY date_time DESC, id ASC LIMIT ? OFFSET ?`,
		strings.Join(orderColumns, ","), strings.Join(where, " AND "))
	return r.query(ctx, query, args...)
}

// ListByDateRange returns orders with from <= date_time <= to in date order.
func (r OrderRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	query := `SELECT ` + strings.Join(orderColumns, ",") + ` FROM orders WHERE date_time>=? AND date_time<=? ORDER BY date_time ASC, id ASC`
	return r.query(ctx, query, from.UTC(), to.UTC())
}

// Stats counts orders per type and sums cash received.
func (r OrderRepository) Stats(ctx context.Context) (models.OrderStats, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT order_type, COUNT(*), COALESCE(SUM(CASE WHEN order_type='cash' THEN amount_received ELSE 0 END),0)
		FROM orders
		GROUP BY order_type
		ORDER BY order_type ASC`)
	if err != nil {
		return models.OrderStats{}, err
	}
	defer rows.Close()

	out := models.OrderStats{ByType: []models.OrderTypeStats{}}
	for rows.Next() {
		var s models.OrderTypeStats
		var t string
		if err := rows.Scan(&t, &s.Count, &s.TotalAmount); err != nil {
			return out, err
		}
		s.OrderType = models.OrderType(t)
		out.TotalOrders += s.Count
		out.ByType = append(out.ByType, s)
	}
	return out, rows.Err()
}

// DistinctDrivers scans driver names recorded on orders.
func (r OrderRepository) DistinctDrivers(ctx context.Context) ([]string, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT DISTINCT TRIM(driver_name)
		FROM orders
		WHERE driver_name IS NOT NULL AND TRIM(driver_name)<>''
		ORDER BY TRIM(driver_name) ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return out, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (r OrderRepository) query(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return out, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// orderRow mirrors orderColumns with nullable types.
type orderRow struct {
	id, uniqueID                                         string
	addedTime, dateTime                                  time.Time
	ipAddress                                            sql.NullString
	customerName, phone, orderType                       string
	tripFrom, tripTo, vehicleDetails, vehicleName        sql.NullString
	vehicleNumber, serviceType, driverName, towing       sql.NullString
	kms, toll, diesel                                    sql.NullFloat64
	refillLocation, careOff                              sql.NullString
	careOffAmount, amountReceived, advanceAmount         sql.NullFloat64
	dieselNote, firm, company, caseNo, dieselName        sql.NullString
	reachTime, dropTime                                  sql.NullTime
	incentiveAmount                                      sql.NullFloat64
	incentiveReason, incentiveAddedBy                    sql.NullString
	incentiveAddedAt                                     sql.NullTime
	createdBy, updatedBy                                 sql.NullString
	updatedAt                                            sql.NullTime
}

func scanOrder(s rowScanner) (models.Order, error) {
	var r orderRow
	if err := s.Scan(
		&r.id, &r.uniqueID, &r.addedTime, &r.ipAddress, &r.dateTime, &r.customerName, &r.phone, &r.orderType,
		&r.tripFrom, &r.tripTo, &r.vehicleDetails, &r.vehicleName, &r.vehicleNumber, &r.serviceType,
		&r.driverName, &r.towing, &r.kms, &r.toll, &r.diesel, &r.refillLocation,
		&r.careOff, &r.careOffAmount, &r.amountReceived, &r.advanceAmount, &r.dieselNote,
		&r.firm, &r.company, &r.caseNo, &r.dieselName, &r.reachTime, &r.dropTime,
		&r.incentiveAmount, &r.incentiveReason, &r.incentiveAddedBy, &r.incentiveAddedAt,
		&r.createdBy, &r.updatedBy, &r.updatedAt,
	); err != nil {
		return models.Order{}, err
	}

	o := models.Order{
		ID:           r.id,
		UniqueID:     r.uniqueID,
		AddedTime:    r.addedTime.UTC(),
		IPAddress:    r.ipAddress.String,
		DateTime:     r.dateTime.UTC(),
		CustomerName: r.customerName,
		Phone:        r.phone,
		OrderType:    models.OrderType(r.orderType),
		CreatedBy:    r.createdBy.String,
		UpdatedBy:    r.updatedBy.String,
		UpdatedAt:    intdb.TimePtr(r.updatedAt),
	}

	trip := models.TripDetails{
		TripFrom:             r.tripFrom.String,
		TripTo:               r.tripTo.String,
		VehicleDetails:       r.vehicleDetails.String,
		VehicleName:          r.vehicleName.String,
		VehicleNumber:        r.vehicleNumber.String,
		ServiceType:          r.serviceType.String,
		DriverName:           r.driverName.String,
		TowingVehicle:        r.towing.String,
		KmsTravelled:         intdb.FloatPtr(r.kms),
		Toll:                 intdb.FloatPtr(r.toll),
		Diesel:               intdb.FloatPtr(r.diesel),
		DieselRefillLocation: r.refillLocation.String,
	}

	switch o.OrderType {
	case models.OrderTypeCompany:
		o.Company = &models.CompanyDetails{
			TripDetails:    trip,
			FirmName:       r.firm.String,
			CompanyName:    r.company.String,
			CaseFileNumber: r.caseNo.String,
			DieselName:     r.dieselName.String,
			ReachTime:      intdb.TimePtr(r.reachTime),
			DropTime:       intdb.TimePtr(r.dropTime),
		}
	default:
		o.Cash = &models.CashDetails{
			TripDetails:    trip,
			CareOff:        r.careOff.String,
			CareOffAmount:  intdb.FloatPtr(r.careOffAmount),
			AmountReceived: intdb.FloatPtr(r.amountReceived),
			AdvanceAmount:  intdb.FloatPtr(r.advanceAmount),
			DieselNote:     r.dieselNote.String,
		}
	}

	if r.incentiveAmount.Valid {
		o.Incentive = &models.Incentive{
			Amount:  r.incentiveAmount.Float64,
			Reason:  r.incentiveReason.String,
			AddedBy: r.incentiveAddedBy.String,
			AddedAt: intdb.TimePtr(r.incentiveAddedAt),
		}
	}
	return o, nil
}

// orderArgs flattens the variant in orderColumns order; the inactive side is NULL.
func orderArgs(o models.Order) []any {
	var (
		trip    models.TripDetails
		cash    models.CashDetails
		company models.CompanyDetails
	)
	if t := o.Trip(); t != nil {
		trip = *t
	}
	if o.OrderType == models.OrderTypeCash && o.Cash != nil {
		cash = *o.Cash
	}
	if o.OrderType == models.OrderTypeCompany && o.Company != nil {
		company = *o.Company
	}

	var inc models.Incentive
	var incAmount any
	if o.Incentive != nil {
		inc = *o.Incentive
		incAmount = inc.Amount
	}

	return []any{
		o.ID, o.UniqueID, intdb.Seconds(o.AddedTime), intdb.NullIfEmpty(o.IPAddress), intdb.Seconds(o.DateTime),
		o.CustomerName, o.Phone, string(o.OrderType),
		intdb.NullIfEmpty(trip.TripFrom), intdb.NullIfEmpty(trip.TripTo), intdb.NullIfEmpty(trip.VehicleDetails),
		intdb.NullIfEmpty(trip.VehicleName), intdb.NullIfEmpty(trip.VehicleNumber), intdb.NullIfEmpty(trip.ServiceType),
		intdb.NullIfEmpty(trip.DriverName), intdb.NullIfEmpty(trip.TowingVehicle),
		intdb.NullFloat(trip.KmsTravelled), intdb.NullFloat(trip.Toll), intdb.NullFloat(trip.Diesel),
		intdb.NullIfEmpty(trip.DieselRefillLocation),
		intdb.NullIfEmpty(cash.CareOff), intdb.NullFloat(cash.CareOffAmount), intdb.NullFloat(cash.AmountReceived),
		intdb.NullFloat(cash.AdvanceAmount), intdb.NullIfEmpty(cash.DieselNote),
		intdb.NullIfEmpty(company.FirmName), intdb.NullIfEmpty(company.CompanyName), intdb.NullIfEmpty(company.CaseFileNumber),
		intdb.NullIfEmpty(company.DieselName), intdb.NullTime(company.ReachTime), intdb.NullTime(company.DropTime),
		incAmount, intdb.NullIfEmpty(inc.Reason), intdb.NullIfEmpty(inc.AddedBy), intdb.NullTime(inc.AddedAt),
		intdb.NullIfEmpty(o.CreatedBy), intdb.NullIfEmpty(o.UpdatedBy), intdb.NullTime(o.UpdatedAt),
	}
}
