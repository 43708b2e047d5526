package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds a user's cash balance. One row per user, mutated only
// inside the trade executor's atomic unit.
type Account struct {
	UserID    string          `gorm:"primaryKey" json:"user_id"`
	Balance   decimal.Decimal `gorm:"type:numeric" json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Debit removes cash. Fails with ErrInsufficientBalance when the balance
// cannot cover the amount; the account is left untouched on failure.
func (a *Account) Debit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if a.Balance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// Credit adds cash.
func (a *Account) Credit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	a.Balance = a.Balance.Add(amount)
	return nil
}
