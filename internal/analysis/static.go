package analysis

import (
	"context"
	"fmt"
	"strings"
)

// StaticConfig is sample reference data for the lookup ports. It is read
// from the "analysis" configuration section.
type StaticConfig struct {
	Addresses    []LegalCode         `mapstructure:"addresses"`
	Buildings    []StaticBuilding    `mapstructure:"buildings"`
	Transactions []StaticTransaction `mapstructure:"transactions"`
}

// StaticBuilding is a building ledger entry. An omitted seismic flag means
// the building has a seismic design.
type StaticBuilding struct {
	LegalCode        string `mapstructure:"legal-code"`
	IsViolation      bool   `mapstructure:"is-violation"`
	HasSeismicDesign *bool  `mapstructure:"has-seismic-design"`
	BuildingAge      int    `mapstructure:"building-age"`
}

func (b StaticBuilding) info() BuildingInfo {
	info := BuildingInfo{IsViolation: b.IsViolation, HasSeismicDesign: true, BuildingAge: b.BuildingAge}
	if b.HasSeismicDesign != nil {
		info.HasSeismicDesign = *b.HasSeismicDesign
	}
	return info
}

type StaticTransaction struct {
	LegalCode   string `mapstructure:"legal-code"`
	Transaction `mapstructure:",squash"`
}

// Static serves all three lookup ports from memory.
type Static struct {
	addresses    []LegalCode
	buildings    map[string]BuildingInfo
	transactions map[string][]Transaction
}

func NewStatic(cfg StaticConfig) (*Static, error) {
	s := &Static{
		buildings:    make(map[string]BuildingInfo, len(cfg.Buildings)),
		transactions: make(map[string][]Transaction),
	}

	for _, a := range cfg.Addresses {
		a.Address = strings.TrimSpace(a.Address)
		a.Code = strings.TrimSpace(a.Code)
		if a.Address == "" || a.Code == "" {
			return nil, fmt.Errorf("analysis address entry requires both address and legal code: %+v", a)
		}
		s.addresses = append(s.addresses, a)
	}

	for _, b := range cfg.Buildings {
		code := strings.TrimSpace(b.LegalCode)
		if code == "" {
			return nil, fmt.Errorf("analysis building entry without legal code")
		}
		s.buildings[code] = b.info()
	}

	for _, t := range cfg.Transactions {
		code := strings.TrimSpace(t.LegalCode)
		if code == "" {
			return nil, fmt.Errorf("analysis transaction entry without legal code")
		}
		s.transactions[code] = append(s.transactions[code], t.Transaction)
	}

	return s, nil
}

// ConvertToLegalCode picks the longest configured address contained in the query.
func (s *Static) ConvertToLegalCode(_ context.Context, address string) (*LegalCode, error) {
	var best *LegalCode
	for i := range s.addresses {
		candidate := &s.addresses[i]
		if !strings.Contains(address, candidate.Address) {
			continue
		}
		if best == nil || len(candidate.Address) > len(best.Address) {
			best = candidate
		}
	}

	if best == nil {
		return nil, fmt.Errorf("%w: %q", ErrAddressNotFound, address)
	}

	found := *best
	return &found, nil
}

func (s *Static) FetchBuildingInfo(_ context.Context, legalCode string) (*BuildingInfo, error) {
	info, ok := s.buildings[legalCode]
	if !ok {
		return nil, fmt.Errorf("%w: legal code %s", ErrBuildingNotFound, legalCode)
	}
	return &info, nil
}

// FetchTransactionPrices returns records for the legal code; an empty deal type matches all.
func (s *Static) FetchTransactionPrices(_ context.Context, legalCode, dealType string) ([]Transaction, error) {
	var out []Transaction
	for _, t := range s.transactions[legalCode] {
		if dealType == "" || t.DealType == dealType {
			out = append(out, t)
		}
	}
	return out, nil
}
