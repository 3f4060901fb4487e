package services

import (
	"context"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"craneorders/internal/domain"
	"craneorders/internal/domain/models"
	"craneorders/internal/repositories"
	"craneorders/internal/utils"
)

const minPasswordLen = 6

type CreateUserInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type UpdateUserInput struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

type UserService struct {
	Repo      repositories.UserRepository
	Audit     AuditService
	RequestID string
}

func (s UserService) List(ctx context.Context) ([]models.User, error) {
	return s.Repo.List(ctx)
}

func (s UserService) Get(ctx context.Context, id string) (models.User, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s UserService) Create(ctx context.Context, in CreateUserInput, actor domain.Actor) (models.User, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return models.User{}, err
	}
	if len(in.Password) < minPasswordLen {
		return models.User{}, domain.ValidationError{Field: "password", Msg: "must be at least 6 characters"}
	}
	name := utils.NormalizeSpace(in.FullName)
	if name == "" {
		return models.User{}, domain.ValidationError{Field: "full_name", Msg: "is required"}
	}
	role := models.RoleDataEntry
	if strings.TrimSpace(in.Role) != "" {
		r, ok := models.ParseRole(in.Role)
		if !ok {
			return models.User{}, domain.ValidationError{Field: "role", Msg: "must be super_admin, admin or data_entry"}
		}
		role = r
	}
	if err := checkRoleGrant(actor, role); err != nil {
		return models.User{}, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return models.User{}, domain.InternalError{Msg: "could not hash password", Err: err}
	}
	u := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     name,
		Role:         role,
		IsActive:     true,
		PasswordHash: hash,
		CreatedAt:    utils.NowUTC(),
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return models.User{}, err
	}
	s.Audit.Record(ctx, actor, models.AuditCreate, models.ResourceUser, u.ID, "user "+u.Email+" role="+string(u.Role))
	utils.LogEvent(s.RequestID, "user", "create", "email="+u.Email)
	return u, nil
}

func (s UserService) Update(ctx context.Context, id string, in UpdateUserInput, actor domain.Actor) (models.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	// admins cannot touch a super_admin account
	if u.Role == models.RoleSuperAdmin && models.Role(actor.Role) != models.RoleSuperAdmin {
		return models.User{}, domain.ForbiddenError{Msg: "only a super_admin can modify a super_admin"}
	}

	if in.Email != nil {
		email, err := normalizeEmail(*in.Email)
		if err != nil {
			return models.User{}, err
		}
		u.Email = email
	}
	if in.FullName != nil {
		name := utils.NormalizeSpace(*in.FullName)
		if name == "" {
			return models.User{}, domain.ValidationError{Field: "full_name", Msg: "must not be empty"}
		}
		u.FullName = name
	}
	if in.Role != nil {
		r, ok := models.ParseRole(*in.Role)
		if !ok {
			return models.User{}, domain.ValidationError{Field: "role", Msg: "must be super_admin, admin or data_entry"}
		}
		if err := checkRoleGrant(actor, r); err != nil {
			return models.User{}, err
		}
		u.Role = r
	}
	if in.IsActive != nil {
		if !*in.IsActive && u.ID == actor.UserID {
			return models.User{}, domain.ValidationError{Field: "is_active", Msg: "you cannot deactivate yourself"}
		}
		u.IsActive = *in.IsActive
	}
	if in.Password != nil {
		if len(*in.Password) < minPasswordLen {
			return models.User{}, domain.ValidationError{Field: "password", Msg: "must be at least 6 characters"}
		}
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return models.User{}, domain.InternalError{Msg: "could not hash password", Err: err}
		}
		u.PasswordHash = hash
	}

	if err := s.Repo.Update(ctx, u); err != nil {
		return models.User{}, err
	}
	s.Audit.Record(ctx, actor, models.AuditUpdate, models.ResourceUser, u.ID, "user "+u.Email)
	return u, nil
}

func (s UserService) Delete(ctx context.Context, id string, actor domain.Actor) error {
	if id == actor.UserID {
		return domain.ValidationError{Field: "id", Msg: "you cannot delete your own account"}
	}
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == models.RoleSuperAdmin && models.Role(actor.Role) != models.RoleSuperAdmin {
		return domain.ForbiddenError{Msg: "only a super_admin can delete a super_admin"}
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.Audit.Record(ctx, actor, models.AuditDelete, models.ResourceUser, id, "user "+u.Email)
	return nil
}

// EnsureAdmin creates the default super_admin when no account uses that e-mail.
func (s UserService) EnsureAdmin(ctx context.Context, email, password, name string) (bool, error) {
	_, err := s.Repo.GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !domain.IsNotFound(err) {
		return false, err
	}
	_, err = s.Create(ctx, CreateUserInput{
		Email:    email,
		Password: password,
		FullName: name,
		Role:     string(models.RoleSuperAdmin),
	}, domain.SystemActor)
	if domain.IsConflict(err) {
		return false, nil
	}
	return err == nil, err
}

func checkRoleGrant(actor domain.Actor, role models.Role) error {
	if role == models.RoleSuperAdmin && models.Role(actor.Role) != models.RoleSuperAdmin {
		return domain.ForbiddenError{Msg: "only a super_admin can grant super_admin"}
	}
	return nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", domain.ValidationError{Field: "email", Msg: "is required"}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", domain.ValidationError{Field: "email", Msg: "is not a valid address"}
	}
	return email, nil
}
