package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"tradesim/internal/domain"
	"tradesim/internal/infra"
)

// TradeExecutor orchestrates one trade: validate, take the user's
// exclusive lock, then mutate balance + position + transaction log inside
// a single atomic unit. Either everything commits or nothing does.
type TradeExecutor struct {
	uow          domain.UnitOfWork
	quotes       domain.QuoteProvider
	deviationPct decimal.Decimal

	locks    *userLocks
	accounts AccountLedger
	book     PositionBook
	txlog    TransactionLog
}

// NewTradeExecutor wires the executor. quotes may be nil; when set, a
// request price deviating more than deviationPct percent from the live
// quote is logged. The price is still applied as submitted — the caller
// owns the quote, and rejecting here would change the trading contract.
func NewTradeExecutor(uow domain.UnitOfWork, quotes domain.QuoteProvider, deviationPct decimal.Decimal) *TradeExecutor {
	return &TradeExecutor{
		uow:          uow,
		quotes:       quotes,
		deviationPct: deviationPct,
		locks:        newUserLocks(),
	}
}

// ExecuteBuy debits quantity*price from the cash balance, merges the buy
// into the position book, and appends one BUY transaction.
func (e *TradeExecutor) ExecuteBuy(ctx context.Context, req domain.TradeRequest) (*domain.TradeResult, error) {
	start := time.Now()
	if err := req.Validate(); err != nil {
		infra.GlobalMetrics.RecordTradeRejected()
		return nil, err
	}
	e.checkQuoteDeviation(req)

	total := req.Total()

	lock := e.locks.acquire(req.UserID)
	lock.Lock()
	defer lock.Unlock()

	var result domain.TradeResult
	err := e.uow.InTx(ctx, func(store domain.TradeStore) error {
		account, err := e.accounts.Debit(store, req.UserID, total)
		if err != nil {
			return err
		}

		position, change, err := e.book.ApplyBuy(store, req.UserID, req.Symbol, req.AssetType, req.Quantity, req.Price)
		if err != nil {
			return err
		}

		tx := domain.Transaction{
			UserID:    req.UserID,
			Symbol:    req.Symbol,
			AssetType: req.AssetType,
			Action:    domain.ActionBuy,
			Quantity:  req.Quantity,
			Price:     req.Price,
			Total:     total,
		}
		if err := e.txlog.Append(store, &tx); err != nil {
			return err
		}

		slog.Debug("buy committed",
			slog.String("user", req.UserID),
			slog.String("symbol", req.Symbol),
			slog.String("position", change.String()))

		result = domain.TradeResult{Balance: account.Balance, Position: position, Transaction: tx}
		return nil
	})
	if err != nil {
		e.recordFailure(err)
		return nil, err
	}

	infra.GlobalMetrics.RecordTradeExecuted(time.Since(start).Nanoseconds())
	return &result, nil
}

// ExecuteSell reduces or closes the position, credits quantity*price to
// the cash balance, and appends one SELL transaction.
func (e *TradeExecutor) ExecuteSell(ctx context.Context, req domain.TradeRequest) (*domain.TradeResult, error) {
	start := time.Now()
	if err := req.Validate(); err != nil {
		infra.GlobalMetrics.RecordTradeRejected()
		return nil, err
	}
	e.checkQuoteDeviation(req)

	total := req.Total()

	lock := e.locks.acquire(req.UserID)
	lock.Lock()
	defer lock.Unlock()

	var result domain.TradeResult
	err := e.uow.InTx(ctx, func(store domain.TradeStore) error {
		// Holdings are checked before the credit so a rejected sell never
		// touches the account row, even transiently.
		position, change, err := e.book.ApplySell(store, req.UserID, req.Symbol, req.AssetType, req.Quantity)
		if err != nil {
			return err
		}

		account, err := e.accounts.Credit(store, req.UserID, total)
		if err != nil {
			return err
		}

		tx := domain.Transaction{
			UserID:    req.UserID,
			Symbol:    req.Symbol,
			AssetType: req.AssetType,
			Action:    domain.ActionSell,
			Quantity:  req.Quantity,
			Price:     req.Price,
			Total:     total,
		}
		if err := e.txlog.Append(store, &tx); err != nil {
			return err
		}

		slog.Debug("sell committed",
			slog.String("user", req.UserID),
			slog.String("symbol", req.Symbol),
			slog.String("position", change.String()))

		result = domain.TradeResult{Balance: account.Balance, Position: position, Transaction: tx}
		return nil
	})
	if err != nil {
		e.recordFailure(err)
		return nil, err
	}

	infra.GlobalMetrics.RecordTradeExecuted(time.Since(start).Nanoseconds())
	return &result, nil
}

func (e *TradeExecutor) recordFailure(err error) {
	if domain.IsRetriable(err) {
		infra.GlobalMetrics.RecordStorageError()
		return
	}
	infra.GlobalMetrics.RecordTradeRejected()
}

// checkQuoteDeviation compares the submitted price with the live quote
// and logs when it strays beyond the configured tolerance. The request
// price is trusted either way.
func (e *TradeExecutor) checkQuoteDeviation(req domain.TradeRequest) {
	if e.quotes == nil || !e.deviationPct.IsPositive() {
		return
	}
	quote, ok := e.quotes.GetQuote(req.Symbol, req.AssetType)
	if !ok || !quote.Price.IsPositive() {
		return
	}
	deviation := req.Price.Sub(quote.Price).Abs().Div(quote.Price).Mul(decimal.NewFromInt(100))
	if deviation.GreaterThan(e.deviationPct) {
		slog.Warn("trade price deviates from live quote",
			slog.String("user", req.UserID),
			slog.String("symbol", req.Symbol),
			slog.String("submitted", req.Price.String()),
			slog.String("quote", quote.Price.String()),
			slog.String("deviation_pct", deviation.StringFixed(2)))
	}
}
