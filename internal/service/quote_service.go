package service

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"tradesim/internal/domain"
	"tradesim/internal/infra"
)

// QuoteService holds the latest observed price per (symbol, assetType).
// Feed workers push updates into the quote channel; readers get a
// consistent point-in-time copy.
type QuoteService struct {
	mu        sync.RWMutex
	quotes    map[domain.QuoteKey]domain.Quote
	quoteChan chan []domain.Quote
}

// NewQuoteService creates a new QuoteService instance
func NewQuoteService() *QuoteService {
	return &QuoteService{
		quotes:    make(map[domain.QuoteKey]domain.Quote),
		quoteChan: make(chan []domain.Quote, 1000), // buffer absorbs stream bursts
	}
}

// GetQuote returns the latest quote for the instrument, if any.
func (s *QuoteService) GetQuote(symbol string, assetType domain.AssetType) (domain.Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.quotes[domain.QuoteKey{Symbol: symbol, AssetType: assetType}]
	return q, ok
}

// Quotes returns a copy of all current quotes.
func (s *QuoteService) Quotes() map[domain.QuoteKey]domain.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[domain.QuoteKey]domain.Quote, len(s.quotes))
	for k, v := range s.quotes {
		result[k] = v
	}
	return result
}

// PriceMap returns symbol/type -> price, the shape the valuation engine
// consumes.
func (s *QuoteService) PriceMap() map[domain.QuoteKey]decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[domain.QuoteKey]decimal.Decimal, len(s.quotes))
	for k, v := range s.quotes {
		result[k] = v.Price
	}
	return result
}

// ListQuotes returns all quotes sorted by symbol for consistent ordering.
func (s *QuoteService) ListQuotes() []domain.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Quote, 0, len(s.quotes))
	for _, q := range s.quotes {
		result = append(result, q)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Symbol == result[j].Symbol {
			return result[i].AssetType < result[j].AssetType
		}
		return result[i].Symbol < result[j].Symbol
	})
	return result
}

// QuoteChan returns the channel feed workers write into.
func (s *QuoteService) QuoteChan() chan []domain.Quote {
	return s.quoteChan
}

// StartProcessor starts a background goroutine draining the quote channel.
func (s *QuoteService) StartProcessor(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case quotes := <-s.quoteChan:
				s.ProcessQuotes(quotes)
			}
		}
	}()
}

// ProcessQuotes applies a batch of quote updates. Thread-safe.
func (s *QuoteService) ProcessQuotes(quotes []domain.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, q := range quotes {
		if !q.Price.IsPositive() {
			continue
		}
		s.quotes[domain.QuoteKey{Symbol: q.Symbol, AssetType: q.AssetType}] = q
		infra.GlobalMetrics.RecordQuote()
	}
}
