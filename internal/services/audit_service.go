package services

import (
	"context"

	"github.com/google/uuid"

	"craneorders/internal/domain"
	"craneorders/internal/domain/models"
	"craneorders/internal/repositories"
	"craneorders/internal/utils"
)

type AuditService struct {
	Repo      repositories.AuditRepository
	RequestID string
}

// Record appends an audit entry. A failed write is logged, never returned:
// the audited operation has already happened.
func (s AuditService) Record(ctx context.Context, actor domain.Actor, action, resourceType, resourceID, details string) {
	entry := models.AuditLog{
		ID:           uuid.NewString(),
		Timestamp:    utils.NowUTC(),
		UserID:       actor.UserID,
		UserEmail:    actor.Label(),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
	}
	if err := s.Repo.Append(ctx, entry); err != nil {
		utils.LogWarn(s.RequestID, "audit", action, "append failed: "+err.Error())
	}
}

func (s AuditService) List(ctx context.Context, f models.AuditFilter) ([]models.AuditLog, error) {
	return s.Repo.List(ctx, f)
}
