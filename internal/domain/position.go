package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is a user's open holding of one (symbol, assetType) pair.
// Invariant: a persisted Position always has Quantity > 0 — a sell that
// brings the quantity to exactly zero deletes the row instead.
type Position struct {
	ID          string          `gorm:"primaryKey" json:"id"`
	UserID      string          `gorm:"index:idx_pos_user_symbol_type,unique" json:"user_id"`
	Symbol      string          `gorm:"index:idx_pos_user_symbol_type,unique" json:"symbol"`
	AssetType   AssetType       `gorm:"index:idx_pos_user_symbol_type,unique" json:"type"`
	Quantity    decimal.Decimal `gorm:"type:numeric" json:"quantity"`
	AverageCost decimal.Decimal `gorm:"type:numeric" json:"average_cost"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// AddLot merges a buy into the position using weighted-average cost basis:
//
//	newAvg = (oldQty*oldAvg + qty*price) / (oldQty + qty)
//
// Only buys recompute AverageCost; sells never do.
func (p *Position) AddLot(quantity, price decimal.Decimal) {
	newQuantity := p.Quantity.Add(quantity)
	cost := p.Quantity.Mul(p.AverageCost).Add(quantity.Mul(price))
	p.AverageCost = cost.Div(newQuantity)
	p.Quantity = newQuantity
}

// Reduce decrements the position for a sell, leaving AverageCost unchanged.
// Returns true when the position is fully closed (quantity hits zero).
func (p *Position) Reduce(quantity decimal.Decimal) (closed bool, err error) {
	if quantity.GreaterThan(p.Quantity) {
		return false, ErrInsufficientHoldings
	}
	p.Quantity = p.Quantity.Sub(quantity)
	return p.Quantity.IsZero(), nil
}

// CostBasis returns Quantity * AverageCost.
func (p *Position) CostBasis() decimal.Decimal {
	return p.Quantity.Mul(p.AverageCost)
}
