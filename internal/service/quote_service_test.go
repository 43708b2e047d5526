package service

import (
	"testing"

	"github.com/shopspring/decimal"

	"tradesim/internal/domain"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestQuoteService_ImplementsInterface(t *testing.T) {
	var _ domain.QuoteProvider = (*QuoteService)(nil)
}

func TestQuoteService_ProcessQuotes(t *testing.T) {
	s := NewQuoteService()

	s.ProcessQuotes([]domain.Quote{
		{Symbol: "BTC", AssetType: domain.AssetCrypto, Price: dec("50000"), UpdatedAt: 1},
		{Symbol: "AAPL", AssetType: domain.AssetStock, Price: dec("180"), UpdatedAt: 1},
	})

	q, ok := s.GetQuote("BTC", domain.AssetCrypto)
	if !ok {
		t.Fatal("BTC quote missing")
	}
	if !q.Price.Equal(dec("50000")) {
		t.Errorf("price = %s, want 50000", q.Price)
	}

	// Later update wins.
	s.ProcessQuotes([]domain.Quote{
		{Symbol: "BTC", AssetType: domain.AssetCrypto, Price: dec("51000"), UpdatedAt: 2},
	})
	q, _ = s.GetQuote("BTC", domain.AssetCrypto)
	if !q.Price.Equal(dec("51000")) {
		t.Errorf("price = %s, want 51000", q.Price)
	}

	// Same symbol, different asset type is a distinct instrument.
	if _, ok := s.GetQuote("BTC", domain.AssetStock); ok {
		t.Error("stock BTC should not exist")
	}
}

func TestQuoteService_RejectsNonPositivePrices(t *testing.T) {
	s := NewQuoteService()

	s.ProcessQuotes([]domain.Quote{
		{Symbol: "BAD", AssetType: domain.AssetCrypto, Price: decimal.Zero},
		{Symbol: "WORSE", AssetType: domain.AssetCrypto, Price: dec("-1")},
	})

	if len(s.Quotes()) != 0 {
		t.Errorf("non-positive prices were stored: %v", s.Quotes())
	}
}

func TestQuoteService_PriceMap(t *testing.T) {
	s := NewQuoteService()
	s.ProcessQuotes([]domain.Quote{
		{Symbol: "ETH", AssetType: domain.AssetCrypto, Price: dec("2000")},
	})

	m := s.PriceMap()
	price, ok := m[domain.QuoteKey{Symbol: "ETH", AssetType: domain.AssetCrypto}]
	if !ok || !price.Equal(dec("2000")) {
		t.Errorf("PriceMap = %v", m)
	}

	// The map is a copy; mutating it must not affect the service.
	m[domain.QuoteKey{Symbol: "ETH", AssetType: domain.AssetCrypto}] = dec("1")
	q, _ := s.GetQuote("ETH", domain.AssetCrypto)
	if !q.Price.Equal(dec("2000")) {
		t.Error("PriceMap leaked internal state")
	}
}

func TestQuoteService_ListQuotesSorted(t *testing.T) {
	s := NewQuoteService()
	s.ProcessQuotes([]domain.Quote{
		{Symbol: "SOL", AssetType: domain.AssetCrypto, Price: dec("100")},
		{Symbol: "BTC", AssetType: domain.AssetCrypto, Price: dec("50000")},
		{Symbol: "ETH", AssetType: domain.AssetCrypto, Price: dec("2000")},
	})

	list := s.ListQuotes()
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	if list[0].Symbol != "BTC" || list[1].Symbol != "ETH" || list[2].Symbol != "SOL" {
		t.Errorf("unexpected order: %s %s %s", list[0].Symbol, list[1].Symbol, list[2].Symbol)
	}
}
