package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	intconfig "craneorders/internal/config"
	intdb "craneorders/internal/db"
	"craneorders/internal/domain"
	"craneorders/internal/domain/models"
)

const userSelect = `SELECT id, email, full_name, role, is_active, password_hash, created_at, last_login FROM users`

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r UserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db().QueryContext(ctx, userSelect+` ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return out, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	u, err := scanUser(r.db().QueryRowContext(ctx, userSelect+` WHERE id=? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user", Err: err}
	}
	return u, err
}

func (r UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := scanUser(r.db().QueryRowContext(ctx, userSelect+` WHERE email=? LIMIT 1`, strings.ToLower(strings.TrimSpace(email))))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user", Err: err}
	}
	return u, err
}

func (r UserRepository) Create(ctx context.Context, u models.User) error {
	_, err := r.db().ExecContext(ctx, `
		INSERT INTO users (id, email, full_name, role, is_active, password_hash, created_at)
		VALUES (?,?,?,?,?,?,?)`,
		u.ID, u.Email, u.FullName, string(u.Role), u.IsActive, u.PasswordHash, u.CreatedAt.UTC())
	if err != nil && intdb.IsDuplicateKey(err) {
		return domain.ConflictError{Resource: "user", Msg: "email already registered", Err: err}
	}
	return err
}

func (r UserRepository) Update(ctx context.Context, u models.User) error {
	_, err := r.db().ExecContext(ctx, `
		UPDATE users SET email=?, full_name=?, role=?, is_active=?, password_hash=? WHERE id=?`,
		u.Email, u.FullName, string(u.Role), u.IsActive, u.PasswordHash, u.ID)
	if err != nil && intdb.IsDuplicateKey(err) {
		return domain.ConflictError{Resource: "user", Msg: "email already registered", Err: err}
	}
	return err
}

func (r UserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.db().ExecContext(ctx, `UPDATE users SET last_login=? WHERE id=?`, at.UTC(), id)
	return err
}

func (r UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db().ExecContext(ctx, `DELETE FROM users WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "user"}
	}
	return nil
}

func scanUser(s rowScanner) (models.User, error) {
	var (
		u         models.User
		role      string
		lastLogin sql.NullTime
	)
	if err := s.Scan(&u.ID, &u.Email, &u.FullName, &role, &u.IsActive, &u.PasswordHash, &u.CreatedAt, &lastLogin); err != nil {
		return models.User{}, err
	}
	u.Role = models.Role(role)
	u.CreatedAt = u.CreatedAt.UTC()
	u.LastLogin = intdb.TimePtr(lastLogin)
	return u, nil
}
