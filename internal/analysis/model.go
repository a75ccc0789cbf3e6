package analysis

import (
	"errors"
	"time"
)

var (
	ErrAddressNotFound  = errors.New("address not found")
	ErrBuildingNotFound = errors.New("building not found")
	ErrInvalidArea      = errors.New("area must be positive")
	ErrEmptyAddress     = errors.New("address is required")
)

// LegalCode is the 법정동 record an address resolves to.
type LegalCode struct {
	Code    string `json:"legal_code" mapstructure:"legal-code"`
	Address string `json:"address" mapstructure:"address"`
}

// BuildingInfo holds the building ledger attributes used for risk scoring.
type BuildingInfo struct {
	IsViolation      bool `json:"is_violation" mapstructure:"is-violation"`
	HasSeismicDesign bool `json:"has_seismic_design" mapstructure:"has-seismic-design"`
	BuildingAge      int  `json:"building_age" mapstructure:"building-age"`
}

// Factors returns the attributes as the evidence map stored with a score.
func (b BuildingInfo) Factors() map[string]any {
	return map[string]any{
		"is_violation":       b.IsViolation,
		"has_seismic_design": b.HasSeismicDesign,
		"building_age":       b.BuildingAge,
	}
}

// Transaction is a single real transaction price record.
type Transaction struct {
	DealType string  `json:"deal_type" mapstructure:"deal-type"`
	Price    float64 `json:"price" mapstructure:"price"`
	Area     float64 `json:"area" mapstructure:"area"`
}

// RiskScore is the outcome of a risk analysis. It is not modified after creation.
type RiskScore struct {
	Address   string         `json:"address"`
	Score     int            `json:"score"`
	Factors   map[string]any `json:"factors"`
	Summary   string         `json:"summary"`
	CreatedAt time.Time      `json:"created_at"`
}

// PriceQuery is the subject of a price analysis.
type PriceQuery struct {
	Address  string  `json:"address"`
	DealType string  `json:"deal_type"`
	Price    float64 `json:"price"`
	Area     float64 `json:"area"`
}

// PriceScore is the outcome of a price analysis. Message is set, and nothing
// is persisted, when no comparable transactions exist.
type PriceScore struct {
	Address      string    `json:"address"`
	DealType     string    `json:"deal_type"`
	PricePerArea float64   `json:"price_per_area"`
	AreaAverage  float64   `json:"area_average"`
	Score        int       `json:"score"`
	Comment      string    `json:"comment"`
	Comparables  int       `json:"comparables"`
	Message      string    `json:"message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Metrics returns the evidence map stored with a price score.
func (p *PriceScore) Metrics() map[string]any {
	return map[string]any{
		"price_per_area": p.PricePerArea,
		"area_average":   p.AreaAverage,
		"comparables":    p.Comparables,
	}
}
