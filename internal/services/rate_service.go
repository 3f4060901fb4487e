package services

import (
	"context"
	"fmt"
	"strings"

	"craneorders/internal/domain"
	"craneorders/internal/domain/models"
	"craneorders/internal/repositories"
	"craneorders/internal/utils"
)

// RatePatch is the partial update body for a rate.
type RatePatch struct {
	FirmName        *string  `json:"name_of_firm"`
	CompanyName     *string  `json:"company_name"`
	ServiceType     *string  `json:"service_type"`
	BaseRate        *float64 `json:"base_rate"`
	BaseDistanceKm  *float64 `json:"base_distance_km"`
	RatePerKmBeyond *float64 `json:"rate_per_km_beyond"`
}

type RateService struct {
	Repo      repositories.RateRepository
	Audit     AuditService
	RequestID string
}

func (s RateService) List(ctx context.Context) ([]models.Rate, error) {
	return s.Repo.List(ctx)
}

func (s RateService) Get(ctx context.Context, id int64) (models.Rate, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s RateService) Create(ctx context.Context, in models.RateInput, actor domain.Actor) (models.Rate, error) {
	r := in.Rate()
	if err := r.Validate(); err != nil {
		return r, err
	}
	created, err := s.Repo.Create(ctx, r)
	if err != nil {
		return created, err
	}
	s.Audit.Record(ctx, actor, models.AuditCreate, models.ResourceRate, fmt.Sprint(created.ID), rateLabel(created))
	return created, nil
}

func (s RateService) Update(ctx context.Context, id int64, p RatePatch, actor domain.Actor) (models.Rate, error) {
	r, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return r, err
	}
	if p.FirmName != nil {
		r.FirmName = *p.FirmName
	}
	if p.CompanyName != nil {
		r.CompanyName = *p.CompanyName
	}
	if p.ServiceType != nil {
		r.ServiceType = *p.ServiceType
	}
	if p.BaseRate != nil {
		r.BaseRate = *p.BaseRate
	}
	if p.BaseDistanceKm != nil {
		r.BaseDistanceKm = *p.BaseDistanceKm
	}
	if p.RatePerKmBeyond != nil {
		r.RatePerKmBeyond = *p.RatePerKmBeyond
	}
	r = r.Trimmed()
	if err := r.Validate(); err != nil {
		return r, err
	}
	updated, err := s.Repo.Update(ctx, r)
	if err != nil {
		return updated, err
	}
	s.Audit.Record(ctx, actor, models.AuditUpdate, models.ResourceRate, fmt.Sprint(id), rateLabel(updated))
	return updated, nil
}

func (s RateService) Delete(ctx context.Context, id int64, actor domain.Actor) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.Audit.Record(ctx, actor, models.AuditDelete, models.ResourceRate, fmt.Sprint(id), "rate deleted")
	return nil
}

// EnsureDefaults inserts every seed rate whose triple is not stored yet.
func (s RateService) EnsureDefaults(ctx context.Context, seed []models.Rate) (int, error) {
	existing, err := s.Repo.Table(ctx)
	if err != nil {
		return 0, err
	}
	added := 0
	for _, r := range seed {
		r = r.Trimmed()
		if _, ok := existing.Lookup(r.FirmName, r.CompanyName, r.ServiceType); ok {
			continue
		}
		if _, err := s.Repo.Create(ctx, r); err != nil {
			if domain.IsConflict(err) {
				continue
			}
			return added, err
		}
		added++
	}
	if added > 0 {
		utils.LogEvent(s.RequestID, "rate", "seed", fmt.Sprintf("inserted %d default rates", added))
	}
	return added, nil
}

func rateLabel(r models.Rate) string {
	return strings.Join([]string{r.FirmName, r.CompanyName, r.ServiceType}, " / ")
}
