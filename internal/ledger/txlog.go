package ledger

import (
	"time"

	"github.com/google/uuid"

	"tradesim/internal/domain"
)

// TransactionLog is the append-only record of executed trades. There are
// no update or delete entry points.
type TransactionLog struct{}

// Append assigns an ID and timestamp and writes the row through the
// caller's atomic unit. Exactly one row per committed trade.
func (TransactionLog) Append(store domain.TradeStore, tx *domain.Transaction) error {
	tx.ID = uuid.NewString()
	tx.CreatedAt = time.Now().UTC()
	return store.AppendTransaction(tx)
}

// List returns the user's transactions newest first. page starts at 1;
// action filters to BUY or SELL when non-nil.
func (TransactionLog) List(reader domain.PortfolioReader, userID string, page, limit int, action *domain.Action) ([]domain.Transaction, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return reader.ListTransactions(userID, page, limit, action)
}
