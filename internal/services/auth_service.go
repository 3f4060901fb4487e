package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"craneorders/internal/domain"
	"craneorders/internal/domain/models"
	"craneorders/internal/repositories"
	"craneorders/internal/utils"
)

// Claims are carried in the access token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Actor returns the identity the claims describe.
func (c Claims) Actor() domain.Actor {
	return domain.Actor{UserID: c.UserID, Email: c.Email, Role: c.Role}
}

type LoginResult struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        models.User `json:"user"`
}

type AuthService struct {
	Users     repositories.UserRepository
	Audit     AuditService
	Secret    []byte
	TTL       time.Duration
	RequestID string
}

func (s AuthService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return 24 * time.Hour
}

func (s AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return LoginResult{}, domain.ValidationError{Field: "email", Msg: "email and password are required"}
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			return LoginResult{}, domain.UnauthorizedError{Msg: "invalid email or password"}
		}
		return LoginResult{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, domain.UnauthorizedError{Msg: "invalid email or password"}
	}
	if !u.IsActive {
		return LoginResult{}, domain.UnauthorizedError{Msg: "account is disabled"}
	}

	token, err := s.IssueToken(u)
	if err != nil {
		return LoginResult{}, domain.InternalError{Msg: "could not issue token", Err: err}
	}
	now := utils.NowUTC()
	if err := s.Users.TouchLastLogin(ctx, u.ID, now); err != nil {
		utils.LogWarn(s.RequestID, "auth", "login", "last_login update failed: "+err.Error())
	} else {
		u.LastLogin = &now
	}

	actor := domain.Actor{UserID: u.ID, Email: u.Email, Role: string(u.Role)}
	s.Audit.Record(ctx, actor, models.AuditLogin, models.ResourceAuth, u.ID, "login")
	utils.LogEvent(s.RequestID, "auth", "login", "user="+u.Email)
	return LoginResult{AccessToken: token, TokenType: "bearer", User: u}, nil
}

// Logout only records the event; tokens are stateless.
func (s AuthService) Logout(ctx context.Context, actor domain.Actor) {
	s.Audit.Record(ctx, actor, models.AuditLogout, models.ResourceAuth, actor.UserID, "logout")
}

func (s AuthService) Me(ctx context.Context, actor domain.Actor) (models.User, error) {
	return s.Users.GetByID(ctx, actor.UserID)
}

// IssueToken signs an HS256 token for u.
func (s AuthService) IssueToken(u models.User) (string, error) {
	if len(s.Secret) == 0 {
		return "", errors.New("jwt secret is not configured")
	}
	now := time.Now()
	claims := Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl())),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// ParseToken verifies signature, algorithm and expiry.
func (s AuthService) ParseToken(raw string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return Claims{}, domain.UnauthorizedError{Msg: "invalid or expired token"}
	}
	if claims.UserID == "" || claims.Role == "" {
		return Claims{}, domain.UnauthorizedError{Msg: "token is missing identity"}
	}
	return claims, nil
}

// Authenticate resolves a bearer token to the stored account. Identity and
// role come from the users row, so deactivated, deleted or demoted accounts
// take effect on tokens already issued.
func (s AuthService) Authenticate(ctx context.Context, raw string) (domain.Actor, error) {
	claims, err := s.ParseToken(raw)
	if err != nil {
		return domain.Actor{}, err
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if domain.IsNotFound(err) {
			return domain.Actor{}, domain.UnauthorizedError{Msg: "account no longer exists"}
		}
		return domain.Actor{}, domain.InternalError{Msg: "could not load account", Err: err}
	}
	if !u.IsActive {
		return domain.Actor{}, domain.UnauthorizedError{Msg: "account is deactivated"}
	}
	return domain.Actor{UserID: u.ID, Email: u.Email, Role: string(u.Role)}, nil
}

// HashPassword bcrypt-hashes a plain password.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
