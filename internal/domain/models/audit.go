package models

import "time"

const (
	AuditLogin     = "LOGIN"
	AuditLogout    = "LOGOUT"
	AuditCreate    = "CREATE"
	AuditUpdate    = "UPDATE"
	AuditDelete    = "DELETE"
	AuditImport    = "IMPORT"
	AuditIncentive = "INCENTIVE"

	ResourceOrder  = "ORDER"
	ResourceUser   = "USER"
	ResourceRate   = "RATE"
	ResourceAuth   = "AUTH"
	ResourceImport = "IMPORT"
)

// AuditLog is one entry of the append-only audit trail.
type AuditLog struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	UserID       string    `json:"user_id"`
	UserEmail    string    `json:"user_email"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id,omitempty"`
	Details      string    `json:"details,omitempty"`
}

type AuditFilter struct {
	Action       string
	ResourceType string
	UserEmail    string
	Limit        int
}

// ImportBatch records the outcome of one spreadsheet import.
type ImportBatch struct {
	ID        string    `json:"id"`
	FileName  string    `json:"file_name"`
	Imported  int       `json:"imported"`
	Skipped   int       `json:"skipped"`
	Failed    int       `json:"failed"`
	Errors    []string  `json:"errors,omitempty"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}
