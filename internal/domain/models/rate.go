package models

import (
	"strings"
	"time"

	"craneorders/internal/domain"
)

// DefaultBaseDistanceKm is the distance covered by a rate's flat fee when none is given.
const DefaultBaseDistanceKm = 40.0

// Rate is the negotiated price for one (firm, company, service type) triple.
type Rate struct {
	ID              int64      `json:"id"`
	FirmName        string     `json:"name_of_firm" yaml:"firm"`
	CompanyName     string     `json:"company_name" yaml:"company"`
	ServiceType     string     `json:"service_type" yaml:"service"`
	BaseRate        float64    `json:"base_rate" yaml:"base_rate"`
	BaseDistanceKm  float64    `json:"base_distance_km" yaml:"base_distance_km"`
	RatePerKmBeyond float64    `json:"rate_per_km_beyond" yaml:"rate_per_km_beyond"`
	CreatedAt       *time.Time `json:"created_at,omitempty" yaml:"-"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty" yaml:"-"`
}

func (r Rate) Key() RateKey {
	return NewRateKey(r.FirmName, r.CompanyName, r.ServiceType)
}

func (r Rate) Validate() error {
	switch {
	case strings.TrimSpace(r.FirmName) == "":
		return domain.ValidationError{Field: "name_of_firm", Msg: "is required"}
	case strings.TrimSpace(r.CompanyName) == "":
		return domain.ValidationError{Field: "company_name", Msg: "is required"}
	case strings.TrimSpace(r.ServiceType) == "":
		return domain.ValidationError{Field: "service_type", Msg: "is required"}
	case r.BaseRate < 0:
		return domain.ValidationError{Field: "base_rate", Msg: "must not be negative"}
	case r.BaseDistanceKm < 0:
		return domain.ValidationError{Field: "base_distance_km", Msg: "must not be negative"}
	case r.RatePerKmBeyond < 0:
		return domain.ValidationError{Field: "rate_per_km_beyond", Msg: "must not be negative"}
	}
	return nil
}

// Trimmed strips surrounding whitespace from the triple.
func (r Rate) Trimmed() Rate {
	r.FirmName = strings.TrimSpace(r.FirmName)
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	r.ServiceType = strings.TrimSpace(r.ServiceType)
	return r
}

// RateInput is a rate as sent by a client or a seed file. BaseDistanceKm is
// nil when the field was left out; zero is a valid distance.
type RateInput struct {
	FirmName        string   `json:"name_of_firm" yaml:"firm"`
	CompanyName     string   `json:"company_name" yaml:"company"`
	ServiceType     string   `json:"service_type" yaml:"service"`
	BaseRate        float64  `json:"base_rate" yaml:"base_rate"`
	BaseDistanceKm  *float64 `json:"base_distance_km" yaml:"base_distance_km"`
	RatePerKmBeyond float64  `json:"rate_per_km_beyond" yaml:"rate_per_km_beyond"`
}

func (in RateInput) Rate() Rate {
	base := DefaultBaseDistanceKm
	if in.BaseDistanceKm != nil {
		base = *in.BaseDistanceKm
	}
	return Rate{
		FirmName:        in.FirmName,
		CompanyName:     in.CompanyName,
		ServiceType:     in.ServiceType,
		BaseRate:        in.BaseRate,
		BaseDistanceKm:  base,
		RatePerKmBeyond: in.RatePerKmBeyond,
	}.Trimmed()
}

// RateKey identifies a rate row. Matching is exact after trimming.
type RateKey struct {
	Firm    string
	Company string
	Service string
}

func NewRateKey(firm, company, service string) RateKey {
	return RateKey{
		Firm:    strings.TrimSpace(firm),
		Company: strings.TrimSpace(company),
		Service: strings.TrimSpace(service),
	}
}

// RateTable is a read-only in-memory lookup of rates.
type RateTable map[RateKey]Rate

func NewRateTable(rates []Rate) RateTable {
	t := make(RateTable, len(rates))
	for _, r := range rates {
		t[r.Key()] = r
	}
	return t
}

func (t RateTable) Lookup(firm, company, service string) (Rate, bool) {
	r, ok := t[NewRateKey(firm, company, service)]
	return r, ok
}
