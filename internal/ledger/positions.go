package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tradesim/internal/domain"
)

// PositionChange tags the outcome of a position mutation.
type PositionChange int

const (
	PositionCreated PositionChange = iota
	PositionUpdated
	PositionClosed
)

func (c PositionChange) String() string {
	switch c {
	case PositionCreated:
		return "created"
	case PositionUpdated:
		return "updated"
	case PositionClosed:
		return "closed"
	}
	return "unknown"
}

// PositionBook owns the set of open positions per user. Like the account
// ledger it mutates only through the caller's atomic unit.
type PositionBook struct{}

// ApplyBuy upserts the (user, symbol, assetType) position: first buy
// creates it at averageCost = price, subsequent buys merge with
// weighted-average cost basis.
func (PositionBook) ApplyBuy(store domain.TradeStore, userID, symbol string, assetType domain.AssetType, quantity, price decimal.Decimal) (*domain.Position, PositionChange, error) {
	position, err := store.GetPosition(userID, symbol, assetType)
	if err != nil {
		return nil, 0, err
	}

	if position == nil {
		position = &domain.Position{
			ID:          uuid.NewString(),
			UserID:      userID,
			Symbol:      symbol,
			AssetType:   assetType,
			Quantity:    quantity,
			AverageCost: price,
		}
		if err := store.SavePosition(position); err != nil {
			return nil, 0, err
		}
		return position, PositionCreated, nil
	}

	position.AddLot(quantity, price)
	if err := store.SavePosition(position); err != nil {
		return nil, 0, err
	}
	return position, PositionUpdated, nil
}

// ApplySell decrements the position. An exact-quantity sell deletes the
// row and reports PositionClosed with a nil position; partial sells keep
// AverageCost unchanged.
func (PositionBook) ApplySell(store domain.TradeStore, userID, symbol string, assetType domain.AssetType, quantity decimal.Decimal) (*domain.Position, PositionChange, error) {
	position, err := store.GetPosition(userID, symbol, assetType)
	if err != nil {
		return nil, 0, err
	}
	if position == nil {
		return nil, 0, domain.ErrNoHolding
	}

	closed, err := position.Reduce(quantity)
	if err != nil {
		return nil, 0, err
	}

	if closed {
		if err := store.DeletePosition(position); err != nil {
			return nil, 0, err
		}
		return nil, PositionClosed, nil
	}

	if err := store.SavePosition(position); err != nil {
		return nil, 0, err
	}
	return position, PositionUpdated, nil
}

// Get returns the position, or nil when the user holds none.
func (PositionBook) Get(store domain.TradeStore, userID, symbol string, assetType domain.AssetType) (*domain.Position, error) {
	return store.GetPosition(userID, symbol, assetType)
}
