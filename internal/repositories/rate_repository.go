package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	intconfig "craneorders/internal/config"
	intdb "craneorders/internal/db"
	"craneorders/internal/domain"
	"craneorders/internal/domain/models"
)

const rateSelect = `SELECT id, name_of_firm, company_name, service_type, base_rate, base_distance_km, rate_per_km_beyond, created_at, updated_at FROM rates`

type RateRepository struct {
	DB *sql.DB
}

func (r RateRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r RateRepository) List(ctx context.Context) ([]models.Rate, error) {
	rows, err := r.db().QueryContext(ctx, rateSelect+` ORDER BY name_of_firm ASC, company_name ASC, service_type ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Rate{}
	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			return out, err
		}
		out = append(out, rate)
	}
	return out, rows.Err()
}

// Table loads every rate into an in-memory lookup.
func (r RateRepository) Table(ctx context.Context) (models.RateTable, error) {
	rates, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return models.NewRateTable(rates), nil
}

func (r RateRepository) GetByID(ctx context.Context, id int64) (models.Rate, error) {
	rate, err := scanRate(r.db().QueryRowContext(ctx, rateSelect+` WHERE id=? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Rate{}, domain.NotFoundError{Resource: "rate", Err: err}
	}
	return rate, err
}

// FindByTriple is the exact-match lookup on (firm, company, service type).
func (r RateRepository) FindByTriple(ctx context.Context, firm, company, service string) (models.Rate, error) {
	k := models.NewRateKey(firm, company, service)
	rate, err := scanRate(r.db().QueryRowContext(ctx,
		rateSelect+` WHERE name_of_firm=? AND company_name=? AND service_type=? LIMIT 1`, k.Firm, k.Company, k.Service))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Rate{}, domain.NotFoundError{Resource: "rate", Err: err}
	}
	return rate, err
}

func (r RateRepository) Create(ctx context.Context, rate models.Rate) (models.Rate, error) {
	now := time.Now().UTC()
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO rates (name_of_firm, company_name, service_type, base_rate, base_distance_km, rate_per_km_beyond, created_at)
		VALUES (?,?,?,?,?,?,?)`,
		rate.FirmName, rate.CompanyName, rate.ServiceType, rate.BaseRate, rate.BaseDistanceKm, rate.RatePerKmBeyond, now)
	if err != nil {
		if intdb.IsDuplicateKey(err) {
			return rate, domain.ConflictError{Resource: "rate", Msg: "rate for this firm, company and service type already exists", Err: err}
		}
		return rate, err
	}
	rate.ID, _ = res.LastInsertId()
	rate.CreatedAt = &now
	return rate, nil
}

func (r RateRepository) Update(ctx context.Context, rate models.Rate) (models.Rate, error) {
	now := time.Now().UTC()
	_, err := r.db().ExecContext(ctx, `
		UPDATE rates
		SET name_of_firm=?, company_name=?, service_type=?, base_rate=?, base_distance_km=?, rate_per_km_beyond=?, updated_at=?
		WHERE id=?`,
		rate.FirmName, rate.CompanyName, rate.ServiceType, rate.BaseRate, rate.BaseDistanceKm, rate.RatePerKmBeyond, now, rate.ID)
	if err != nil {
		if intdb.IsDuplicateKey(err) {
			return rate, domain.ConflictError{Resource: "rate", Msg: "rate for this firm, company and service type already exists", Err: err}
		}
		return rate, err
	}
	rate.UpdatedAt = &now
	return rate, nil
}

func (r RateRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db().ExecContext(ctx, `DELETE FROM rates WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "rate"}
	}
	return nil
}

func scanRate(s rowScanner) (models.Rate, error) {
	var (
		rate      models.Rate
		createdAt sql.NullTime
		updatedAt sql.NullTime
	)
	if err := s.Scan(&rate.ID, &rate.FirmName, &rate.CompanyName, &rate.ServiceType,
		&rate.BaseRate, &rate.BaseDistanceKm, &rate.RatePerKmBeyond, &createdAt, &updatedAt); err != nil {
		return models.Rate{}, err
	}
	rate.CreatedAt = intdb.TimePtr(createdAt)
	rate.UpdatedAt = intdb.TimePtr(updatedAt)
	return rate, nil
}
