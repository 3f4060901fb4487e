package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr string
	GinMode string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret   string
	JWTTTLHours int

	CORSAllowedOrigins []string

	LogLevel string
	LogDev   bool

	DefaultAdminEmail    string
	DefaultAdminPassword string
	DefaultAdminName     string

	RatesFile         string
	ImportStrictDates bool
	ImportMaxErrors   int
}

// LoadDotEnv reads .env when present; real environment variables win.
func LoadDotEnv(paths ...string) {
	if err := godotenv.Load(paths...); err != nil {
		log.Printf("warning: .env not loaded (%v), using process environment", err)
	}
}

func LoadEnv() Env {
	return Env{
		AppAddr: getString("APP_ADDR", ":8080"),
		GinMode: getString("GIN_MODE", ""),

		DBHost:     getString("DB_HOST", "127.0.0.1:3306"),
		DBUser:     getString("DB_USER", "root"),
		DBPassword: getString("DB_PASSWORD", ""),
		DBName:     getString("DB_NAME", "crane_orders"),

		JWTSecret:   getString("JWT_SECRET", "change-me-in-production"),
		JWTTTLHours: getInt("JWT_TTL_HOURS", 24),

		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		}),

		LogLevel: getString("LOG_LEVEL", "info"),
		LogDev:   getBool("LOG_DEV", false),

		DefaultAdminEmail:    getString("DEFAULT_ADMIN_EMAIL", "admin@cranes.local"),
		DefaultAdminPassword: getString("DEFAULT_ADMIN_PASSWORD", "admin123"),
		DefaultAdminName:     getString("DEFAULT_ADMIN_NAME", "System Administrator"),

		RatesFile:         getString("RATES_FILE", ""),
		ImportStrictDates: getBool("IMPORT_STRICT_DATES", true),
		ImportMaxErrors:   getInt("IMPORT_MAX_ERRORS", 50),
	}
}

func getString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("warning: %s=%q is not a positive integer, using %d", key, v, def)
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("warning: %s=%q is not a boolean, using %t", key, v, def)
		return def
	}
	return b
}

func getList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	out := []string{}
	for _, p := range strings.Split(v, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
