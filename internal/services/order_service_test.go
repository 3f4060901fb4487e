package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"craneorders/internal/domain"
	"craneorders/internal/domain/models"
	"craneorders/internal/repositories"
)

func str(s string) *string { return &s }

var (
	adminActor     = domain.Actor{UserID: "u-admin", Email: "admin@cranes.local", Role: "admin"}
	dataEntryActor = domain.Actor{UserID: "u-de", Email: "entry@cranes.local", Role: "data_entry"}
)

func TestOrderPayloadSwitchKeepsTripDropsOldPayload(t *testing.T) {
	o := models.NewCashOrder("Suresh", "9876543210", testTime, models.CashDetails{
		TripDetails:    models.TripDetails{DriverName: "Ravi", TowingVehicle: "TN01", TripFrom: "Chennai"},
		AmountReceived: models.Float(500),
		CareOff:        "Mani",
	})

	p := OrderPayload{
		OrderType:          str("Company"),
		CompanyName:        str("InsureCo"),
		NameOfFirm:         str(" Acme "),
		CompanyServiceType: str("Towing"),
		ReachTime:          str("2024-12-05 10:00:00"),
	}
	require.NoError(t, p.ApplyTo(&o))

	assert.Equal(t, models.OrderTypeCompany, o.OrderType)
	assert.Nil(t, o.Cash)
	require.NotNil(t, o.Company)
	assert.Equal(t, "Ravi", o.Company.DriverName)
	assert.Equal(t, "Chennai", o.Company.TripFrom)
	assert.Equal(t, "Acme", o.Company.FirmName)
	require.NotNil(t, o.Company.ReachTime)
	assert.Zero(t, o.AmountReceived())
	assert.NoError(t, o.Validate())
}

func TestOrderPayloadPartialUpdate(t *testing.T) {
	o := models.NewCashOrder("Suresh", "9876543210", testTime, models.CashDetails{
		AmountReceived: models.Float(500),
		AdvanceAmount:  models.Float(100),
	})
	p := OrderPayload{AmountReceived: models.Float(750), CashVehicleDetails: str("TN 09")}

	require.NoError(t, p.ApplyTo(&o))

	assert.Equal(t, 750.0, o.AmountReceived())
	assert.Equal(t, 100.0, *o.Cash.AdvanceAmount)
	assert.Equal(t, "TN 09", o.TowingVehicle())
	assert.Equal(t, "Suresh", o.CustomerName)
}

func TestOrderPayloadRejectsBadValues(t *testing.T) {
	o := models.NewCashOrder("A", "1", testTime, models.CashDetails{})

	err := OrderPayload{OrderType: str("barter")}.ApplyTo(&o)
	assert.True(t, domain.IsValidation(err))

	err = OrderPayload{DateTime: str("yesterday")}.ApplyTo(&o)
	assert.True(t, domain.IsValidation(err))
}

func TestOrderServiceCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO audit_logs").WillReturnResult(sqlmock.NewResult(0, 1))

	svc := OrderService{
		Repo:  repositories.OrderRepository{DB: db},
		Audit: AuditService{Repo: repositories.AuditRepository{DB: db}},
	}
	o, err := svc.Create(context.Background(), OrderPayload{
		OrderType:      str("cash"),
		CustomerName:   str("Suresh"),
		Phone:          str("9876543210"),
		DateTime:       str("2024-12-05T14:30:00"),
		AmountReceived: models.Float(500),
	}, dataEntryActor)
	require.NoError(t, err)

	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "entry@cranes.local", o.CreatedBy)
	assert.Equal(t, time.Date(2024, 12, 5, 14, 30, 0, 0, time.UTC), o.DateTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderServiceCreateRequiresType(t *testing.T) {
	_, err := OrderService{}.Create(context.Background(), OrderPayload{CustomerName: str("X")}, dataEntryActor)
	assert.True(t, domain.IsValidation(err))
}

func TestOrderServiceAdminOnlyOperations(t *testing.T) {
	svc := OrderService{}
	ctx := context.Background()

	err := svc.Delete(ctx, "ord-1", dataEntryActor)
	assert.True(t, domain.IsForbidden(err))

	_, err = svc.SetIncentive(ctx, "ord-1", 100, "", dataEntryActor)
	assert.True(t, domain.IsForbidden(err))

	_, err = svc.SetIncentive(ctx, "ord-1", -5, "", adminActor)
	assert.True(t, domain.IsValidation(err))
}

func TestOrderServiceListBounds(t *testing.T) {
	_, err := OrderService{}.List(context.Background(), repositories.OrderFilter{Limit: 5000})
	assert.True(t, domain.IsValidation(err))
	_, err = OrderService{}.List(context.Background(), repositories.OrderFilter{Skip: -1})
	assert.True(t, domain.IsValidation(err))
}

func TestOrderServiceCreateKeepsLastSecondInMonth(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO audit_logs").WillReturnResult(sqlmock.NewResult(0, 1))

	svc := OrderService{
		Repo:  repositories.OrderRepository{DB: db},
		Audit: AuditService{Repo: repositories.AuditRepository{DB: db}},
	}
	o, err := svc.Create(context.Background(), OrderPayload{
		OrderType:      str("cash"),
		CustomerName:   str("Suresh"),
		Phone:          str("9876543210"),
		DateTime:       str("2024-12-31T23:59:59.6"),
		AmountReceived: models.Float(500),
	}, dataEntryActor)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC), o.DateTime)
	assert.Zero(t, o.AddedTime.Nanosecond())
	assert.True(t, decemberRange().Contains(o.DateTime))
	assert.NoError(t, mock.ExpectationsWereMet())
}
