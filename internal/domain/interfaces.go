package domain

import "context"

// TradeStore is the mutation surface available inside one atomic unit.
// Implementations return rows scoped to the enclosing transaction; a nil
// row with nil error means "absent".
type TradeStore interface {
	GetAccount(userID string) (*Account, error)
	SaveAccount(account *Account) error
	GetPosition(userID, symbol string, assetType AssetType) (*Position, error)
	SavePosition(position *Position) error
	DeletePosition(position *Position) error
	AppendTransaction(tx *Transaction) error
}

// UnitOfWork scopes a set of mutations to one atomic transaction: the
// closure's writes all commit together or are all rolled back.
type UnitOfWork interface {
	InTx(ctx context.Context, fn func(TradeStore) error) error
}

// PortfolioReader is the read path over persisted portfolio state.
type PortfolioReader interface {
	FindAccount(userID string) (*Account, error)
	ListPositions(userID string) ([]Position, error)
	ListTransactions(userID string, page, limit int, action *Action) ([]Transaction, error)
}

// QuoteProvider supplies current prices. The trading core never fetches
// prices itself; it only consumes what a provider has observed.
type QuoteProvider interface {
	GetQuote(symbol string, assetType AssetType) (Quote, bool)
	Quotes() map[QuoteKey]Quote
}
