package domain

import "github.com/shopspring/decimal"

// QuoteKey identifies a priced instrument.
type QuoteKey struct {
	Symbol    string
	AssetType AssetType
}

// Quote is one live price observation.
type Quote struct {
	Symbol    string          `json:"symbol"`
	AssetType AssetType       `json:"type"`
	Price     decimal.Decimal `json:"price"`
	UpdatedAt int64           `json:"updated_at"` // unix millis
}

// HoldingValue is a position priced at the current quote. Positions with
// no live quote are reported with Priced=false and excluded from totals.
type HoldingValue struct {
	Position     Position        `json:"position"`
	Priced       bool            `json:"priced"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	MarketValue  decimal.Decimal `json:"market_value"`
	UnrealizedPL decimal.Decimal `json:"unrealized_pl"`
}

// PortfolioValue is the read-side summary of one user's portfolio.
type PortfolioValue struct {
	Balance       decimal.Decimal `json:"balance"`
	HoldingsValue decimal.Decimal `json:"holdings_value"`
	TotalValue    decimal.Decimal `json:"total_value"`
	UnrealizedPL  decimal.Decimal `json:"unrealized_pl"`
	Holdings      []HoldingValue  `json:"holdings"`
}
