package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"craneorders/internal/domain"
	"craneorders/internal/domain/models"
	"craneorders/internal/repositories"
)

var userColumns = []string{"id", "email", "full_name", "role", "is_active", "password_hash", "created_at", "last_login"}

func TestAuthTokenRoundTrip(t *testing.T) {
	svc := AuthService{Secret: []byte("test-secret"), TTL: time.Hour}
	u := models.User{ID: "u1", Email: "admin@cranes.local", Role: models.RoleAdmin}

	token, err := svc.IssueToken(u)
	require.NoError(t, err)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.Actor{UserID: "u1", Email: "admin@cranes.local", Role: "admin"}, claims.Actor())

	_, err = AuthService{Secret: []byte("other")}.ParseToken(token)
	assert.True(t, domain.IsUnauthorized(err))
}

func TestAuthParseTokenRejectsExpiredAndUnsigned(t *testing.T) {
	svc := AuthService{Secret: []byte("test-secret")}

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "u1", Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
	})
	raw, err := expired.SignedString(svc.Secret)
	require.NoError(t, err)
	_, err = svc.ParseToken(raw)
	assert.True(t, domain.IsUnauthorized(err))

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: "u1", Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	raw, err = none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ParseToken(raw)
	assert.True(t, domain.IsUnauthorized(err))
}

func TestAuthIssueTokenNeedsSecret(t *testing.T) {
	_, err := AuthService{}.IssueToken(models.User{ID: "u1"})
	assert.Error(t, err)
}

func TestAuthLogin(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)

	mock.ExpectQuery("FROM users WHERE email=\\?").WithArgs("admin@cranes.local").WillReturnRows(
		sqlmock.NewRows(userColumns).AddRow("u1", "admin@cranes.local", "Admin", "super_admin", true, hash, testTime, nil))
	mock.ExpectExec("UPDATE users SET last_login").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO audit_logs").WillReturnResult(sqlmock.NewResult(0, 1))

	svc := AuthService{
		Users:  repositories.UserRepository{DB: db},
		Audit:  AuditService{Repo: repositories.AuditRepository{DB: db}},
		Secret: []byte("test-secret"),
	}
	res, err := svc.Login(context.Background(), " Admin@Cranes.Local", "s3cret!")
	require.NoError(t, err)

	assert.Equal(t, "bearer", res.TokenType)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotNil(t, res.User.LastLogin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthLoginFailures(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	hash, err := HashPassword("right-pass")
	require.NoError(t, err)

	mock.ExpectQuery("FROM users").WillReturnRows(sqlmock.NewRows(userColumns))
	mock.ExpectQuery("FROM users").WillReturnRows(
		sqlmock.NewRows(userColumns).AddRow("u1", "a@b.c", "A", "admin", true, hash, testTime, nil))
	mock.ExpectQuery("FROM users").WillReturnRows(
		sqlmock.NewRows(userColumns).AddRow("u1", "a@b.c", "A", "admin", false, hash, testTime, nil))

	svc := AuthService{Users: repositories.UserRepository{DB: db}, Secret: []byte("x")}
	ctx := context.Background()

	_, err = svc.Login(ctx, "ghost@b.c", "whatever")
	assert.True(t, domain.IsUnauthorized(err))

	_, err = svc.Login(ctx, "a@b.c", "wrong-pass")
	assert.True(t, domain.IsUnauthorized(err))

	_, err = svc.Login(ctx, "a@b.c", "right-pass")
	assert.True(t, domain.IsUnauthorized(err))
	assert.Contains(t, err.Error(), "disabled")

	_, err = svc.Login(ctx, "", "")
	assert.True(t, domain.IsValidation(err))
}

func TestAuthenticateUsesStoredAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := AuthService{Users: repositories.UserRepository{DB: db}, Secret: []byte("x"), TTL: time.Hour}
	tok, err := svc.IssueToken(models.User{ID: "u1", Email: "old@b.c", Role: models.RoleAdmin})
	require.NoError(t, err)
	ctx := context.Background()

	mock.ExpectQuery("FROM users WHERE id=\\?").WithArgs("u1").WillReturnRows(
		sqlmock.NewRows(userColumns).AddRow("u1", "new@b.c", "A", "data_entry", true, "h", testTime, nil))
	actor, err := svc.Authenticate(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, domain.Actor{UserID: "u1", Email: "new@b.c", Role: "data_entry"}, actor)

	mock.ExpectQuery("FROM users WHERE id=\\?").WithArgs("u1").WillReturnRows(
		sqlmock.NewRows(userColumns).AddRow("u1", "new@b.c", "A", "admin", false, "h", testTime, nil))
	_, err = svc.Authenticate(ctx, tok)
	assert.True(t, domain.IsUnauthorized(err))

	mock.ExpectQuery("FROM users WHERE id=\\?").WithArgs("u1").WillReturnRows(sqlmock.NewRows(userColumns))
	_, err = svc.Authenticate(ctx, tok)
	assert.True(t, domain.IsUnauthorized(err))

	mock.ExpectQuery("FROM users WHERE id=\\?").WithArgs("u1").WillReturnError(errors.New("connection reset"))
	_, err = svc.Authenticate(ctx, tok)
	assert.True(t, domain.IsInternal(err))
	assert.False(t, domain.IsUnauthorized(err))

	_, err = svc.Authenticate(ctx, "garbage")
	assert.True(t, domain.IsUnauthorized(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
