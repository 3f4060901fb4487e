package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"craneorders/internal/domain"
	"craneorders/internal/domain/models"
	"craneorders/internal/repositories"
	"craneorders/internal/utils"
)

type OrderService struct {
	Repo      repositories.OrderRepository
	Audit     AuditService
	RequestID string
}

// Create builds a new order from the payload; date_time defaults to now.
func (s OrderService) Create(ctx context.Context, p OrderPayload, actor domain.Actor) (models.Order, error) {
	if p.OrderType == nil {
		return models.Order{}, domain.ValidationError{Field: "order_type", Msg: "is required"}
	}
	now := utils.NowUTC()
	o := models.Order{
		ID:        uuid.NewString(),
		UniqueID:  uuid.NewString(),
		AddedTime: now,
		DateTime:  now,
	}
	if err := p.ApplyTo(&o); err != nil {
		return models.Order{}, err
	}
	o.TruncateTimes()
	o.CreatedBy = actor.Label()
	if err := o.Validate(); err != nil {
		return models.Order{}, err
	}
	if err := s.Repo.Insert(ctx, o); err != nil {
		return models.Order{}, err
	}
	s.Audit.Record(ctx, actor, models.AuditCreate, models.ResourceOrder, o.ID,
		fmt.Sprintf("%s order for %s", o.OrderType, o.CustomerName))
	utils.LogEvent(s.RequestID, "order", "create", "id="+o.ID+" type="+string(o.OrderType))
	return o, nil
}

func (s OrderService) Get(ctx context.Context, id string) (models.Order, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s OrderService) List(ctx context.Context, f repositories.OrderFilter) ([]models.Order, error) {
	if f.Limit < 0 || f.Limit > 1000 {
		return nil, domain.ValidationError{Field: "limit", Msg: "must be between 1 and 1000"}
	}
	if f.Skip < 0 {
		return nil, domain.ValidationError{Field: "skip", Msg: "must not be negative"}
	}
	return s.Repo.List(ctx, f)
}

// Update applies a partial patch, then revalidates the whole order.
func (s OrderService) Update(ctx context.Context, id string, p OrderPayload, actor domain.Actor) (models.Order, error) {
	o, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if err := p.ApplyTo(&o); err != nil {
		return models.Order{}, err
	}
	o.TruncateTimes()
	now := utils.NowUTC()
	o.UpdatedBy = actor.Label()
	o.UpdatedAt = &now
	if err := o.Validate(); err != nil {
		return models.Order{}, err
	}
	if err := s.Repo.Update(ctx, o); err != nil {
		return models.Order{}, err
	}
	s.Audit.Record(ctx, actor, models.AuditUpdate, models.ResourceOrder, o.ID, "order updated")
	utils.LogEvent(s.RequestID, "order", "update", "id="+o.ID)
	return o, nil
}

func (s OrderService) Delete(ctx context.Context, id string, actor domain.Actor) error {
	if !models.Role(actor.Role).IsAdmin() {
		return domain.ForbiddenError{Msg: "only admins can delete orders"}
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.Audit.Record(ctx, actor, models.AuditDelete, models.ResourceOrder, id, "order deleted")
	utils.LogEvent(s.RequestID, "order", "delete", "id="+id)
	return nil
}

// SetIncentive attaches an admin-assigned bonus to the order's driver.
func (s OrderService) SetIncentive(ctx context.Context, id string, amount float64, reason string, actor domain.Actor) (models.Order, error) {
	if !models.Role(actor.Role).IsAdmin() {
		return models.Order{}, domain.ForbiddenError{Msg: "only admins can assign incentives"}
	}
	if amount < 0 {
		return models.Order{}, domain.ValidationError{Field: "incentive_amount", Msg: "must not be negative"}
	}
	o, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	now := utils.NowUTC()
	o.Incentive = &models.Incentive{
		Amount:  utils.RoundMoney(amount),
		Reason:  utils.TrimOrEmpty(reason),
		AddedBy: actor.Label(),
		AddedAt: &now,
	}
	o.UpdatedBy = actor.Label()
	o.UpdatedAt = &now
	if err := s.Repo.Update(ctx, o); err != nil {
		return models.Order{}, err
	}
	s.Audit.Record(ctx, actor, models.AuditIncentive, models.ResourceOrder, id,
		fmt.Sprintf("incentive %s driver=%s", utils.FormatMoney(o.Incentive.Amount), o.DriverName()))
	return o, nil
}
