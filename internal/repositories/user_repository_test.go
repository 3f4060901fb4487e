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

var userCols = []string{"id", "email", "full_name", "role", "is_active", "password_hash", "created_at", "last_login"}

func TestUserRepositoryGetByEmailLowercases(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM users WHERE email=\\?").WithArgs("admin@cranes.local").WillReturnRows(
		sqlmock.NewRows(userCols).AddRow("u1", "admin@cranes.local", "Admin", "super_admin", true, "hash", orderTime, nil))

	u, err := UserRepository{DB: db}.GetByEmail(context.Background(), "  Admin@Cranes.Local ")
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, u.Role)
	assert.True(t, u.IsActive)
	assert.Nil(t, u.LastLogin)
}

func TestUserRepositoryCreateDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").WillReturnError(&mysql.MySQLError{Number: 1062})

	err = UserRepository{DB: db}.Create(context.Background(), models.User{ID: "u1", Email: "a@b.c", Role: models.RoleAdmin})
	assert.True(t, domain.IsConflict(err))
	assert.Contains(t, err.Error(), "email already registered")
}

func TestUserRepositoryGetByIDMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM users WHERE id=\\?").WithArgs("nope").WillReturnRows(sqlmock.NewRows(userCols))

	_, err = UserRepository{DB: db}.GetByID(context.Background(), "nope")
	assert.True(t, domain.IsNotFound(err))
}
