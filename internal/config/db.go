package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
)

// DB is the process-wide pool. Repositories fall back to it when built
// without an explicit handle.
var (
	DB   *sql.DB
	dbMu sync.Mutex
)

var ErrNotConnected = errors.New("database not connected")

// DSN builds the MySQL connection string for env.
func (e Env) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = e.DBUser
	cfg.Passwd = e.DBPassword
	cfg.Net = "tcp"
	cfg.Addr = e.DBHost
	cfg.DBName = e.DBName
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Timeout = 5 * time.Second
	cfg.ReadTimeout = 30 * time.Second
	cfg.WriteTimeout = 30 * time.Second
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// ConnectDB opens and pings the shared pool. Calling it again returns the
// existing pool.
func ConnectDB(ctx context.Context, env Env) (*sql.DB, error) {
	dbMu.Lock()
	defer dbMu.Unlock()

	if DB != nil {
		return DB, nil
	}

	pool, err := sql.Open("mysql", env.DSN())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", env.DBName, err)
	}
	pool.SetMaxOpenConns(25)
	pool.SetMaxIdleConns(25)
	pool.SetConnMaxLifetime(10 * time.Minute)
	pool.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.PingContext(pingCtx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping %s@%s: %w", env.DBName, env.DBHost, err)
	}

	DB = pool
	return DB, nil
}

// EnsureDB pings the shared pool with a short deadline.
func EnsureDB(ctx context.Context) error {
	dbMu.Lock()
	pool := DB
	dbMu.Unlock()

	if pool == nil {
		return ErrNotConnected
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return pool.PingContext(pingCtx)
}

func CloseDB() {
	dbMu.Lock()
	defer dbMu.Unlock()

	if DB != nil {
		_ = DB.Close()
		DB = nil
	}
}
