package repositories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"craneorders/internal/domain"
	"craneorders/internal/domain/models"
)

var rateCols = []string{"id", "name_of_firm", "company_name", "service_type", "base_rate", "base_distance_km", "rate_per_km_beyond", "created_at", "updated_at"}

func TestRateRepositoryTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM rates ORDER BY name_of_firm").WillReturnRows(
		sqlmock.NewRows(rateCols).
			AddRow(int64(1), "Acme", "InsureCo", "Towing", 1200.0, 40.0, 12.0, orderTime, nil).
			AddRow(int64(2), "Acme", "InsureCo", "Crane", 2000.0, 40.0, 20.0, nil, nil))

	table, err := RateRepository{DB: db}.Table(context.Background())
	require.NoError(t, err)

	r, ok := table.Lookup("Acme", "InsureCo", "Crane")
	require.True(t, ok)
	assert.Equal(t, int64(2), r.ID)
	assert.Nil(t, r.CreatedAt)
	_, ok = table.Lookup("acme", "InsureCo", "Crane")
	assert.False(t, ok)
}

func TestRateRepositoryCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO rates").
		WithArgs("Acme", "InsureCo", "Towing", 1200.0, 40.0, 12.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO rates").WillReturnError(&mysql.MySQLError{Number: 1062})

	repo := RateRepository{DB: db}
	rate := models.Rate{FirmName: "Acme", CompanyName: "InsureCo", ServiceType: "Towing", BaseRate: 1200, BaseDistanceKm: 40, RatePerKmBeyond: 12}

	created, err := repo.Create(context.Background(), rate)
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	assert.NotNil(t, created.CreatedAt)

	_, err = repo.Create(context.Background(), rate)
	assert.True(t, domain.IsConflict(err))
}

func TestRateRepositoryGetAndDeleteMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM rates WHERE id=\\?").WithArgs(int64(9)).WillReturnRows(sqlmock.NewRows(rateCols))
	mock.ExpectExec("DELETE FROM rates").WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 0))

	repo := RateRepository{DB: db}
	_, err = repo.GetByID(context.Background(), 9)
	assert.True(t, domain.IsNotFound(err))
	assert.True(t, domain.IsNotFound(repo.Delete(context.Background(), 9)))
}
