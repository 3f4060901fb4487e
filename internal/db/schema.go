package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Table is one CREATE TABLE statement applied by EnsureSchema.
type Table struct {
	Name string
	DDL  string
}

// Tables lists the schema in creation order.
var Tables = []Table{
	{Name: "users", DDL: `CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(36) NOT NULL PRIMARY KEY,
		email VARCHAR(255) NOT NULL,
		full_name VARCHAR(255) NOT NULL,
		role VARCHAR(32) NOT NULL,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		password_hash VARCHAR(255) NOT NULL,
		created_at DATETIME NOT NULL,
		last_login DATETIME NULL,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{Name: "rates", DDL: `CREATE TABLE IF NOT EXISTS rates (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name_of_firm VARCHAR(255) NOT NULL,
		company_name VARCHAR(255) NOT NULL,
		service_type VARCHAR(255) NOT NULL,
		base_rate DECIMAL(12,2) NOT NULL,
		base_distance_km DECIMAL(10,2) NOT NULL DEFAULT 40,
		rate_per_km_beyond DECIMAL(12,2) NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NULL,
		UNIQUE KEY uq_rates_triple (name_of_firm, company_name, service_type)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{Name: "orders", DDL: `CREATE TABLE IF NOT EXISTS orders (
		id VARCHAR(36) NOT NULL PRIMARY KEY,
		unique_id VARCHAR(36) NOT NULL,
		added_time DATETIME NOT NULL,
		ip_address VARCHAR(64) NULL,
		date_time DATETIME NOT NULL,
		customer_name VARCHAR(255) NOT NULL,
		phone VARCHAR(32) NOT NULL,
		order_type VARCHAR(16) NOT NULL,
		trip_from VARCHAR(255) NULL,
		trip_to VARCHAR(255) NULL,
		vehicle_details VARCHAR(255) NULL,
		vehicle_name VARCHAR(255) NULL,
		vehicle_number VARCHAR(64) NULL,
		service_type VARCHAR(255) NULL,
		driver_name VARCHAR(255) NULL,
		towing_vehicle VARCHAR(255) NULL,
		kms_travelled DOUBLE NULL,
		toll DOUBLE NULL,
		diesel DOUBLE NULL,
		diesel_refill_location VARCHAR(255) NULL,
		care_off VARCHAR(255) NULL,
		care_off_amount DOUBLE NULL,
		amount_received DOUBLE NULL,
		advance_amount DOUBLE NULL,
		diesel_note VARCHAR(255) NULL,
		name_of_firm VARCHAR(255) NULL,
		company_name VARCHAR(255) NULL,
		case_id_file_number VARCHAR(255) NULL,
		diesel_name VARCHAR(255) NULL,
		reach_time DATETIME NULL,
		drop_time DATETIME NULL,
		incentive_amount DOUBLE NULL,
		incentive_reason VARCHAR(512) NULL,
		incentive_added_by VARCHAR(255) NULL,
		incentive_added_at DATETIME NULL,
		created_by VARCHAR(255) NULL,
		updated_by VARCHAR(255) NULL,
		updated_at DATETIME NULL,
		KEY idx_orders_date_time (date_time),
		KEY idx_orders_type (order_type)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{Name: "audit_logs", DDL: `CREATE TABLE IF NOT EXISTS audit_logs (
		id VARCHAR(36) NOT NULL PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		user_id VARCHAR(64) NOT NULL,
		user_email VARCHAR(255) NOT NULL,
		action VARCHAR(32) NOT NULL,
		resource_type VARCHAR(32) NOT NULL,
		resource_id VARCHAR(64) NULL,
		details TEXT NULL,
		KEY idx_audit_timestamp (timestamp)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{Name: "import_batches", DDL: `CREATE TABLE IF NOT EXISTS import_batches (
		id VARCHAR(36) NOT NULL PRIMARY KEY,
		file_name VARCHAR(255) NOT NULL,
		imported INT NOT NULL,
		skipped INT NOT NULL,
		failed INT NOT NULL,
		errors TEXT NULL,
		created_by VARCHAR(255) NOT NULL,
		created_at DATETIME NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
}

// EnsureSchema creates missing tables. Returns the names it created.
func EnsureSchema(ctx context.Context, db *sql.DB) ([]string, error) {
	created := []string{}
	for _, t := range Tables {
		if HasTable(ctx, db, t.Name) {
			continue
		}
		if _, err := db.ExecContext(ctx, t.DDL); err != nil {
			return created, fmt.Errorf("create table %s: %w", t.Name, err)
		}
		created = append(created, t.Name)
	}
	return created, nil
}
