package valuation

import (
	"testing"

	"github.com/shopspring/decimal"

	"tradesim/internal/domain"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestValue(t *testing.T) {
	positions := []domain.Position{
		{Symbol: "BTC", AssetType: domain.AssetCrypto, Quantity: dec("2"), AverageCost: dec("30000")},
		{Symbol: "AAPL", AssetType: domain.AssetStock, Quantity: dec("10"), AverageCost: dec("150")},
	}
	quotes := map[domain.QuoteKey]decimal.Decimal{
		{Symbol: "BTC", AssetType: domain.AssetCrypto}: dec("35000"),
		{Symbol: "AAPL", AssetType: domain.AssetStock}: dec("140"),
	}

	pv := Value(dec("40000"), positions, quotes)

	// holdings = 2*35000 + 10*140 = 71400
	if !pv.HoldingsValue.Equal(dec("71400")) {
		t.Errorf("HoldingsValue = %s, want 71400", pv.HoldingsValue)
	}
	if !pv.TotalValue.Equal(dec("111400")) {
		t.Errorf("TotalValue = %s, want 111400", pv.TotalValue)
	}
	// cost basis = 60000 + 1500 = 61500 -> PL = 9900
	if !pv.UnrealizedPL.Equal(dec("9900")) {
		t.Errorf("UnrealizedPL = %s, want 9900", pv.UnrealizedPL)
	}
	if len(pv.Holdings) != 2 {
		t.Fatalf("holdings = %d, want 2", len(pv.Holdings))
	}
	if !pv.Holdings[0].UnrealizedPL.Equal(dec("10000")) {
		t.Errorf("BTC UnrealizedPL = %s, want 10000", pv.Holdings[0].UnrealizedPL)
	}
}

func TestValue_MissingQuoteExcluded(t *testing.T) {
	positions := []domain.Position{
		{Symbol: "BTC", AssetType: domain.AssetCrypto, Quantity: dec("1"), AverageCost: dec("30000")},
		{Symbol: "XYZ", AssetType: domain.AssetStock, Quantity: dec("5"), AverageCost: dec("10")},
	}
	quotes := map[domain.QuoteKey]decimal.Decimal{
		{Symbol: "BTC", AssetType: domain.AssetCrypto}: dec("31000"),
	}

	pv := Value(dec("1000"), positions, quotes)

	// XYZ has no live price: excluded from totals, not valued at zero.
	if !pv.HoldingsValue.Equal(dec("31000")) {
		t.Errorf("HoldingsValue = %s, want 31000", pv.HoldingsValue)
	}
	if !pv.UnrealizedPL.Equal(dec("1000")) {
		t.Errorf("UnrealizedPL = %s, want 1000", pv.UnrealizedPL)
	}

	// But it still appears in the breakdown, unpriced.
	if len(pv.Holdings) != 2 {
		t.Fatalf("holdings = %d, want 2", len(pv.Holdings))
	}
	for _, h := range pv.Holdings {
		if h.Position.Symbol == "XYZ" && h.Priced {
			t.Error("unquoted position reported as priced")
		}
	}
}

func TestValue_SameSymbolDifferentAssetType(t *testing.T) {
	// A crypto and a stock can share a ticker; they are priced separately.
	positions := []domain.Position{
		{Symbol: "X", AssetType: domain.AssetCrypto, Quantity: dec("1"), AverageCost: dec("10")},
		{Symbol: "X", AssetType: domain.AssetStock, Quantity: dec("1"), AverageCost: dec("10")},
	}
	quotes := map[domain.QuoteKey]decimal.Decimal{
		{Symbol: "X", AssetType: domain.AssetCrypto}: dec("20"),
		{Symbol: "X", AssetType: domain.AssetStock}:  dec("30"),
	}

	pv := Value(decimal.Zero, positions, quotes)
	if !pv.HoldingsValue.Equal(dec("50")) {
		t.Errorf("HoldingsValue = %s, want 50", pv.HoldingsValue)
	}
}

func TestValue_Empty(t *testing.T) {
	pv := Value(dec("100000"), nil, nil)

	if !pv.TotalValue.Equal(dec("100000")) {
		t.Errorf("TotalValue = %s, want 100000", pv.TotalValue)
	}
	if !pv.HoldingsValue.IsZero() || !pv.UnrealizedPL.IsZero() {
		t.Errorf("empty portfolio has holdings value %s, PL %s", pv.HoldingsValue, pv.UnrealizedPL)
	}
	if len(pv.Holdings) != 0 {
		t.Errorf("holdings = %d, want 0", len(pv.Holdings))
	}
}
