// Package valuation derives portfolio value and unrealized P&L from a
// position snapshot and live quotes. It is read-only: no storage access,
// no mutation, safe to call concurrently as quotes stream in.
package valuation

import (
	"github.com/shopspring/decimal"

	"tradesim/internal/domain"
)

// Value prices the given positions against quotes and returns the
// portfolio summary. A position with no matching quote has no live price
// and is excluded from every total rather than valued at zero; it still
// appears in Holdings with Priced=false so callers can surface it.
//
//	holdingsValue = Σ quantity * quote          (priced positions)
//	totalValue    = balance + holdingsValue
//	unrealizedPL  = holdingsValue - Σ quantity * averageCost   (same set)
func Value(balance decimal.Decimal, positions []domain.Position, quotes map[domain.QuoteKey]decimal.Decimal) domain.PortfolioValue {
	pv := domain.PortfolioValue{
		Balance:  balance,
		Holdings: make([]domain.HoldingValue, 0, len(positions)),
	}

	costBasis := decimal.Zero
	for _, pos := range positions {
		price, ok := quotes[domain.QuoteKey{Symbol: pos.Symbol, AssetType: pos.AssetType}]
		if !ok {
			pv.Holdings = append(pv.Holdings, domain.HoldingValue{Position: pos})
			continue
		}

		marketValue := pos.Quantity.Mul(price)
		pv.HoldingsValue = pv.HoldingsValue.Add(marketValue)
		costBasis = costBasis.Add(pos.CostBasis())

		pv.Holdings = append(pv.Holdings, domain.HoldingValue{
			Position:     pos,
			Priced:       true,
			CurrentPrice: price,
			MarketValue:  marketValue,
			UnrealizedPL: marketValue.Sub(pos.CostBasis()),
		})
	}

	pv.TotalValue = balance.Add(pv.HoldingsValue)
	pv.UnrealizedPL = pv.HoldingsValue.Sub(costBasis)
	return pv
}
