package analysis

import "context"

// AddressCodec resolves a free-text address to a legal code.
type AddressCodec interface {
	ConvertToLegalCode(ctx context.Context, address string) (*LegalCode, error)
}

// BuildingLedger provides building attributes keyed by legal code.
type BuildingLedger interface {
	FetchBuildingInfo(ctx context.Context, legalCode string) (*BuildingInfo, error)
}

// TransactionPrices provides transaction history keyed by legal code and deal type.
type TransactionPrices interface {
	FetchTransactionPrices(ctx context.Context, legalCode, dealType string) ([]Transaction, error)
}

// RiskHistory appends risk scores to the audit log.
type RiskHistory interface {
	SaveRisk(ctx context.Context, score *RiskScore) error
}

// PriceHistory appends price scores to the audit log.
type PriceHistory interface {
	SavePrice(ctx context.Context, score *PriceScore) error
}
