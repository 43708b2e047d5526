package domain

import "github.com/shopspring/decimal"

// AssetType distinguishes the two tradable asset classes.
type AssetType string

const (
	AssetCrypto AssetType = "CRYPTO"
	AssetStock  AssetType = "STOCK"
)

// ParseAssetType validates a raw asset type string.
func ParseAssetType(s string) (AssetType, bool) {
	switch AssetType(s) {
	case AssetCrypto, AssetStock:
		return AssetType(s), true
	}
	return "", false
}

// Action is the side of a trade.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
)

// ParseAction validates a raw action string.
func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionBuy, ActionSell:
		return Action(s), true
	}
	return "", false
}

// TradeRequest is the input to one trade execution. Price is the last live
// quote observed by the caller; the engine applies it as-is (see the quote
// deviation warning in the executor).
type TradeRequest struct {
	UserID    string          `json:"user_id"`
	Symbol    string          `json:"symbol"`
	AssetType AssetType       `json:"type"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Total returns quantity * price.
func (r TradeRequest) Total() decimal.Decimal {
	return r.Quantity.Mul(r.Price)
}

// Validate checks the request fields common to buys and sells.
func (r TradeRequest) Validate() error {
	if r.UserID == "" || r.Symbol == "" {
		return ErrInvalidInput
	}
	if _, ok := ParseAssetType(string(r.AssetType)); !ok {
		return ErrInvalidInput
	}
	if !r.Quantity.IsPositive() || !r.Price.IsPositive() {
		return ErrInvalidInput
	}
	return nil
}

// TradeResult is returned on a committed trade. Position is nil when the
// sell closed out the holding entirely.
type TradeResult struct {
	Balance     decimal.Decimal `json:"balance"`
	Position    *Position       `json:"position"`
	Transaction Transaction     `json:"transaction"`
}
