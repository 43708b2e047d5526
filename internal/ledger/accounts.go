package ledger

import (
	"github.com/shopspring/decimal"

	"tradesim/internal/domain"
)

// AccountLedger owns the single cash balance per user. It carries no
// transaction boundary of its own: both operations mutate through the
// TradeStore of the caller's atomic unit.
type AccountLedger struct{}

// Debit withdraws cash from the user's account. No mutation happens when
// the balance cannot cover the amount.
func (AccountLedger) Debit(store domain.TradeStore, userID string, amount decimal.Decimal) (*domain.Account, error) {
	account, err := store.GetAccount(userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrAccountNotFound
	}
	if err := account.Debit(amount); err != nil {
		return nil, err
	}
	if err := store.SaveAccount(account); err != nil {
		return nil, err
	}
	return account, nil
}

// Credit deposits cash into the user's account.
func (AccountLedger) Credit(store domain.TradeStore, userID string, amount decimal.Decimal) (*domain.Account, error) {
	account, err := store.GetAccount(userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrAccountNotFound
	}
	if err := account.Credit(amount); err != nil {
		return nil, err
	}
	if err := store.SaveAccount(account); err != nil {
		return nil, err
	}
	return account, nil
}
