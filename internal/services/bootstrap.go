package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	intdb "craneorders/internal/db"
	"craneorders/internal/domain/models"
	"craneorders/internal/repositories"
	"craneorders/internal/utils"
)

// Bootstrap prepares a fresh database. Every step is insert-if-absent, so
// running it on each start is safe.
type Bootstrap struct {
	DB            *sql.DB
	AdminEmail    string
	AdminPassword string
	AdminName     string
	Rates         []models.Rate
}

type BootstrapResult struct {
	CreatedTables []string
	AdminCreated  bool
	RatesAdded    int
}

func (b Bootstrap) Run(ctx context.Context) (BootstrapResult, error) {
	var res BootstrapResult

	created, err := intdb.EnsureSchema(ctx, b.DB)
	if err != nil {
		return res, fmt.Errorf("ensure schema: %w", err)
	}
	res.CreatedTables = created

	users := UserService{Repo: repositories.UserRepository{DB: b.DB}, Audit: AuditService{Repo: repositories.AuditRepository{DB: b.DB}}}
	if strings.TrimSpace(b.AdminEmail) != "" {
		res.AdminCreated, err = users.EnsureAdmin(ctx, b.AdminEmail, b.AdminPassword, utils.FirstNonEmpty(b.AdminName, "Administrator"))
		if err != nil {
			return res, fmt.Errorf("ensure admin: %w", err)
		}
	}

	rates := RateService{Repo: repositories.RateRepository{DB: b.DB}}
	res.RatesAdded, err = rates.EnsureDefaults(ctx, b.Rates)
	if err != nil {
		return res, fmt.Errorf("ensure rates: %w", err)
	}

	utils.LogEvent("", "bootstrap", "run", fmt.Sprintf("tables_created=%d admin_created=%t rates_added=%d",
		len(res.CreatedTables), res.AdminCreated, res.RatesAdded))
	return res, nil
}
