package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	intconfig "craneorders/internal/config"
	intdb "craneorders/internal/db"
	"craneorders/internal/domain/models"
)

type AuditRepository struct {
	DB *sql.DB
}

func (r AuditRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r AuditRepository) Append(ctx context.Context, e models.AuditLog) error {
	_, err := r.db().ExecContext(ctx, `
		INSERT INTO audit_logs (id, timestamp, user_id, user_email, action, resource_type, resource_id, details)
		VALUES (?,?,?,?,?,?,?,?)`,
		e.ID, e.Timestamp.UTC(), e.UserID, e.UserEmail, e.Action, e.ResourceType,
		intdb.NullIfEmpty(e.ResourceID), intdb.NullIfEmpty(e.Details))
	return err
}

// List returns newest entries first.
func (r AuditRepository) List(ctx context.Context, f models.AuditFilter) ([]models.AuditLog, error) {
	where := []string{"1=1"}
	args := []any{}
	if f.Action != "" {
		where = append(where, "action=?")
		args = append(args, strings.ToUpper(f.Action))
	}
	if f.ResourceType != "" {
		where = append(where, "resource_type=?")
		args = append(args, strings.ToUpper(f.ResourceType))
	}
	if f.UserEmail != "" {
		where = append(where, "user_email=?")
		args = append(args, f.UserEmail)
	}
	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	args = append(args, limit)

	rows, err := r.db().QueryContext(ctx, `
		SELECT id, timestamp, user_id, user_email, action, resource_type, COALESCE(resource_id,''), COALESCE(details,'')
		FROM audit_logs
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY timestamp DESC
		LIMIT ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.AuditLog{}
	for rows.Next() {
		var e models.AuditLog
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.UserID, &e.UserEmail, &e.Action, &e.ResourceType, &e.ResourceID, &e.Details); err != nil {
			return out, err
		}
		e.Timestamp = e.Timestamp.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

type ImportBatchRepository struct {
	DB *sql.DB
}

func (r ImportBatchRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r ImportBatchRepository) Create(ctx context.Context, b models.ImportBatch) error {
	errs, _ := json.Marshal(b.Errors)
	_, err := r.db().ExecContext(ctx, `
		INSERT INTO import_batches (id, file_name, imported, skipped, failed, errors, created_by, created_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		b.ID, b.FileName, b.Imported, b.Skipped, b.Failed, string(errs), b.CreatedBy, b.CreatedAt.UTC())
	return err
}

func (r ImportBatchRepository) List(ctx context.Context, limit int) ([]models.ImportBatch, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := r.db().QueryContext(ctx, `
		SELECT id, file_name, imported, skipped, failed, COALESCE(errors,''), created_by, created_at
		FROM import_batches
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ImportBatch{}
	for rows.Next() {
		var (
			b    models.ImportBatch
			errs string
		)
		if err := rows.Scan(&b.ID, &b.FileName, &b.Imported, &b.Skipped, &b.Failed, &errs, &b.CreatedBy, &b.CreatedAt); err != nil {
			return out, err
		}
		if errs != "" {
			_ = json.Unmarshal([]byte(errs), &b.Errors)
		}
		b.CreatedAt = b.CreatedAt.UTC()
		out = append(out, b)
	}
	return out, rows.Err()
}
