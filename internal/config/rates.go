package config

import (
	"fmt"
	"os"

	"craneorders/internal/domain/models"

	"gopkg.in/yaml.v3"
)

type rateFile struct {
	Rates []models.RateInput `yaml:"rates"`
}

// DefaultRates is the rate table seeded when no RATES_FILE is configured.
var DefaultRates = []models.Rate{
	{FirmName: "Kawale Cranes", CompanyName: "Europ Assistance", ServiceType: "2W Towing", BaseRate: 1200, BaseDistanceKm: 40, RatePerKmBeyond: 12},
	{FirmName: "Kawale Cranes", CompanyName: "Europ Assistance", ServiceType: "4W Towing", BaseRate: 1500, BaseDistanceKm: 40, RatePerKmBeyond: 15},
	{FirmName: "Kawale Cranes", CompanyName: "Mondial Assistance", ServiceType: "2W Towing", BaseRate: 1200, BaseDistanceKm: 40, RatePerKmBeyond: 12},
	{FirmName: "Kawale Cranes", CompanyName: "Mondial Assistance", ServiceType: "4W Towing", BaseRate: 1600, BaseDistanceKm: 40, RatePerKmBeyond: 16},
	{FirmName: "Kawale Cranes", CompanyName: "TVS Assist", ServiceType: "Flatbed", BaseRate: 2000, BaseDistanceKm: 40, RatePerKmBeyond: 20},
	{FirmName: "Vidharbha Towing", CompanyName: "Europ Assistance", ServiceType: "4W Towing", BaseRate: 1500, BaseDistanceKm: 40, RatePerKmBeyond: 15},
	{FirmName: "Vidharbha Towing", CompanyName: "Mondial Assistance", ServiceType: "Flatbed", BaseRate: 2200, BaseDistanceKm: 40, RatePerKmBeyond: 18},
}

// LoadRates reads the seed rate table from path, or returns DefaultRates when path is empty.
func LoadRates(path string) ([]models.Rate, error) {
	if path == "" {
		return DefaultRates, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rates file: %w", err)
	}
	return ParseRates(data)
}

func ParseRates(data []byte) ([]models.Rate, error) {
	var f rateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse rates file: %w", err)
	}
	out := make([]models.Rate, 0, len(f.Rates))
	for i, in := range f.Rates {
		r := in.Rate()
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("rates[%d]: %w", i, err)
		}
		out = append(out, r)
	}
	return out, nil
}
