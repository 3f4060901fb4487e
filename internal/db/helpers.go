package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
)

// QueryRower is satisfied by *sql.DB and *sql.Tx.
type QueryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NullIfEmpty helps store optional strings as NULL.
func NullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// NullFloat stores "no value" as NULL instead of 0.
func NullFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func NullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return Seconds(*t)
}

// Seconds is t as a DATETIME column keeps it. MySQL rounds fractional
// seconds on insert, which can carry 23:59:59.6 into the next day.
func Seconds(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// FloatPtr converts a scanned nullable column back to an optional amount.
func FloatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func TimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time.UTC()
	return &t
}

func HasTable(ctx context.Context, q QueryRower, table string) bool {
	var name sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1
	`, table).Scan(&name)
	if err != nil {
		return false
	}
	return name.Valid && name.String != ""
}

// IsDuplicateKey reports a MySQL unique constraint violation (error 1062).
func IsDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
