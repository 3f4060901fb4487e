package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRatesDefaultsBaseDistance(t *testing.T) {
	data := []byte(`
rates:
  - firm: Acme
    company: InsureCo
    service: Towing
    base_rate: 1200
    rate_per_km_beyond: 12
  - firm: Acme
    company: InsureCo
    service: Flatbed
    base_rate: 2000
    base_distance_km: 30
    rate_per_km_beyond: 20
  - firm: Acme
    company: InsureCo
    service: Winch
    base_rate: 900
    base_distance_km: 0
    rate_per_km_beyond: 25
`)
	rates, err := ParseRates(data)
	require.NoError(t, err)
	require.Len(t, rates, 3)
	assert.Equal(t, 40.0, rates[0].BaseDistanceKm)
	assert.Equal(t, 30.0, rates[1].BaseDistanceKm)
	assert.Equal(t, 0.0, rates[2].BaseDistanceKm)
	assert.Equal(t, "InsureCo", rates[0].CompanyName)
}

func TestParseRatesRejectsIncompleteRow(t *testing.T) {
	_, err := ParseRates([]byte("rates:\n  - firm: Acme\n    base_rate: 100\n"))
	assert.Error(t, err)
}

func TestLoadRatesWithoutFileUsesDefaults(t *testing.T) {
	rates, err := LoadRates("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRates, rates)
}

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("APP_ADDR", "")
	t.Setenv("IMPORT_STRICT_DATES", "false")
	t.Setenv("JWT_TTL_HOURS", "nope")
	env := LoadEnv()
	assert.Equal(t, ":8080", env.AppAddr)
	assert.False(t, env.ImportStrictDates)
	assert.Equal(t, 24, env.JWTTTLHours)
	assert.Contains(t, env.DSN(), "parseTime=true")
}
